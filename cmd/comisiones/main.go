package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Comisiones-api/internal/bootstrap"
	"github.com/jhoicas/Comisiones-api/internal/interfaces/cli"
	"github.com/jhoicas/Comisiones-api/pkg/config"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

func main() {
	root := cli.NewRoot(func(cmd *cobra.Command) (*bootstrap.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// stdout queda para la salida de los comandos.
		log := logger.New(logger.Config{
			Env:   cfg.App.Env,
			Level: cfg.Log.Level,
			Out:   os.Stderr,
		})
		return bootstrap.New(cmd.Context(), cfg, log)
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
