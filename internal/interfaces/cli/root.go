// Package cli expone las operaciones de comisiones como comandos cobra.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Comisiones-api/internal/bootstrap"
	"github.com/jhoicas/Comisiones-api/internal/domain"
)

// Opener abre la aplicación (almacenamiento + casos de uso).
type Opener func(cmd *cobra.Command) (*bootstrap.App, error)

// session estado compartido por los comandos de una ejecución.
type session struct {
	open  Opener
	app   *bootstrap.App
	input *bufio.Reader
}

// readLine lee una línea de la entrada estándar del comando.
func (s *session) readLine(cmd *cobra.Command) (string, error) {
	if s.input == nil {
		s.input = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := s.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Root comando raíz y la sesión que abre.
type Root struct {
	Cmd *cobra.Command
	s   *session
}

// NewRoot construye el comando raíz. Todos los subcomandos salvo
// senha-hash pasan por la puerta de acceso antes de ejecutarse.
func NewRoot(open Opener) *Root {
	s := &session{open: open}

	root := &cobra.Command{
		Use:           "comisiones",
		Short:         "Comisiones - registro de ventas de seguros y sus comisiones",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["public"] == "true" || cmd.Name() == "help" {
				return nil
			}
			app, err := s.open(cmd)
			if err != nil {
				return err
			}
			s.app = app

			password, _ := cmd.Flags().GetString("senha")
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
				if password, err = s.readLine(cmd); err != nil {
					return fmt.Errorf("leer senha: %w", err)
				}
			}
			if !app.Gate.Authorize(password) {
				return domain.ErrUnauthorized
			}
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().String("senha", "", "credencial del operador (si se omite se pide por stdin)")

	root.AddCommand(ventaCmd(s))
	root.AddCommand(exportarCmd(s))
	root.AddCommand(logsCmd(s))
	root.AddCommand(resumoCmd(s))
	root.AddCommand(senhaHashCmd(s))
	return &Root{Cmd: root, s: s}
}

// Execute corre el comando y cierra la aplicación aun si falla.
func (r *Root) Execute() error {
	err := r.Cmd.Execute()
	if r.s.app != nil {
		r.s.app.Close()
		r.s.app = nil
	}
	if err != nil {
		fmt.Fprintln(r.Cmd.ErrOrStderr(), color.New(color.FgRed).Sprint("erro: ")+err.Error())
	}
	return err
}

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)
