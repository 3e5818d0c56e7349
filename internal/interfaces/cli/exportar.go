package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func exportarCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportar",
		Short: "Exportar las ventas a xlsx (o el relatório a PDF)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asPDF, _ := cmd.Flags().GetBool("pdf")
			out, _ := cmd.Flags().GetString("out")

			var (
				b    []byte
				name string
				err  error
			)
			if asPDF {
				b, name, err = s.app.Export.ExportReport(cmd.Context())
			} else {
				b, name, err = s.app.Export.ExportSales(cmd.Context())
			}
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d bytes)\n", ok("✓"), out, len(b))
			return nil
		},
	}
	cmd.Flags().Bool("pdf", false, "generar el relatório PDF en lugar de la planilla")
	cmd.Flags().String("out", "", "archivo de salida (por defecto el nombre configurado)")
	return cmd
}
