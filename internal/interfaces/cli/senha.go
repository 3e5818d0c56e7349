package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Comisiones-api/internal/application/auth"
)

func senhaHashCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:         "senha-hash [senha]",
		Short:       "Generar el valor de ACCESS_PASSWORD_HASH",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"public": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
				line, err := s.readLine(cmd)
				if err != nil {
					return err
				}
				password = line
			}
			if password == "" {
				return errors.New("senha vacía")
			}
			h, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
