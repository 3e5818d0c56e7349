package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
)

func ventaCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venta",
		Short: "Registrar, listar, ver y excluir ventas",
	}
	cmd.AddCommand(ventaRegistrarCmd(s), ventaListarCmd(s), ventaVerCmd(s), ventaExcluirCmd(s))
	return cmd
}

func ventaRegistrarCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registrar",
		Short: "Registrar una venta (comisión calculada automáticamente)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			name, _ := f.GetString("segurado")
			plate, _ := f.GetString("placa")
			date, _ := f.GetString("data")
			insurer, _ := f.GetString("seguradora")
			premium, _ := f.GetString("premio")
			rate, _ := f.GetString("percentual")
			note, _ := f.GetString("obs")

			in := dto.CreateSaleRequest{
				InsuredName: name,
				Plate:       plate,
				SaleDate:    date,
				Insurer:     insurer,
				Note:        note,
			}
			var err error
			if in.NetPremium, err = parseAmount(premium); err != nil {
				return fmt.Errorf("--premio: %w", err)
			}
			if in.CommissionRate, err = parseAmount(rate); err != nil {
				return fmt.Errorf("--percentual: %w", err)
			}

			out, err := s.app.Sales.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s venta %s registrada para %s\n", ok("✓"), out.ID, out.InsuredName)
			fmt.Fprintf(cmd.OutOrStdout(), "  Comissão: %s\n", out.CommissionAmount.StringFixed(2))
			return nil
		},
	}
	f := cmd.Flags()
	f.String("segurado", "", "nombre del asegurado")
	f.String("placa", "", "placa del vehículo")
	f.String("data", "", "fecha de la venta dd/mm/yyyy (vacío = hoy)")
	f.String("seguradora", "", "aseguradora")
	f.String("premio", "0", "prêmio líquido")
	f.String("percentual", "0", "percentual de comissão (0-100)")
	f.String("obs", "", "observación")
	_ = cmd.MarkFlagRequired("segurado")
	return cmd
}

func ventaListarCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "listar",
		Short: "Listar ventas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := s.app.Sales.List(cmd.Context())
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma venda registrada.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATA\tSEGURADO\tPLACA\tSEGURADORA\tPRÊMIO\t%\tCOMISSÃO\tSTATUS")
			for _, v := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					v.ID, v.SaleDate, v.InsuredName, v.Plate, v.Insurer,
					v.NetPremium.StringFixed(2), v.CommissionRate.String(), v.CommissionAmount.StringFixed(2), v.Status)
			}
			return w.Flush()
		},
	}
}

func ventaVerCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "ver <id>",
		Short: "Detalle de una venta con sus pagos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := s.app.Sales.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", bold(v.InsuredName), v.ID)
			fmt.Fprintf(out, "  Placa: %s\n  Data: %s\n  Seguradora: %s\n", v.Plate, v.SaleDate, v.Insurer)
			fmt.Fprintf(out, "  Prêmio líquido: %s\n  Percentual: %s%%\n  Comissão: %s\n",
				v.NetPremium.StringFixed(2), v.CommissionRate.String(), v.CommissionAmount.StringFixed(2))
			fmt.Fprintf(out, "  Status: %s\n", v.Status)
			if v.Note != "" {
				fmt.Fprintf(out, "  Observação: %s\n", v.Note)
			}
			fmt.Fprintf(out, "  Pagamentos: %d\n", len(v.Payments))
			for _, p := range v.Payments {
				fmt.Fprintf(out, "    - %s %s %s\n", p.PaymentDate, p.AmountPaid.StringFixed(2), p.Note)
			}
			return nil
		},
	}
}

func ventaExcluirCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "excluir <id>",
		Short: "Excluir una venta y sus pagos (pide confirmación)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := s.app.Sales.RequestDelete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("sim")
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "%s excluir la venta de %s? [s/N] ", warn("!"), c.InsuredName)
				answer, err := s.readLine(cmd)
				if err != nil {
					_ = s.app.Sales.CancelDelete(c.Token)
					return fmt.Errorf("leer confirmación: %w", err)
				}
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "s", "sim", "y", "yes":
				default:
					_ = s.app.Sales.CancelDelete(c.Token)
					fmt.Fprintln(cmd.OutOrStdout(), "Exclusão cancelada.")
					return nil
				}
			}
			res, err := s.app.Sales.ConfirmDelete(cmd.Context(), c.Token)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s venta de %s excluida (%d pagamentos removidos)\n",
				ok("✓"), res.InsuredName, res.PaymentsRemoved)
			return nil
		},
	}
	cmd.Flags().Bool("sim", false, "confirmar sin preguntar")
	return cmd
}

// parseAmount acepta coma decimal ("1.234,56" o "1234,56").
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
