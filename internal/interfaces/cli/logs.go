package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

func logsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Log de auditoría, más reciente primero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			entries, total := s.app.Sales.Logs(cmd.Context(), dto.PageRequest{Limit: limit})
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATA/HORA\tAÇÃO\tVENDA\tDESCRIÇÃO")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Format(repository.TimestampLayout), e.Action, e.SaleID, e.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if len(entries) < total {
				fmt.Fprintln(cmd.OutOrStdout(), warn(fmt.Sprintf("Mostrando %d de %d entradas.", len(entries), total)))
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "cantidad máxima de entradas (0 = todas)")
	return cmd
}

func resumoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "resumo",
		Short: "Totales de ventas y comisiones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := s.app.Sales.Summary(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Vendas: %d (%d pendentes)\n", r.Quantity, r.Pending)
			fmt.Fprintf(out, "Prêmio líquido: %s\n", r.TotalPremium.StringFixed(2))
			fmt.Fprintf(out, "Comissão total: %s\n", bold(r.TotalCommission.StringFixed(2)))
			return nil
		},
	}
}
