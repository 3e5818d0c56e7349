// Package bootstrap arma los componentes compartidos por la API y la CLI:
// backend de tablas según STORAGE_DRIVER, RecordStore cargado y casos de uso.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comisiones-api/internal/application/auth"
	"github.com/jhoicas/Comisiones-api/internal/application/export"
	"github.com/jhoicas/Comisiones-api/internal/application/records"
	"github.com/jhoicas/Comisiones-api/internal/application/sales"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
	"github.com/jhoicas/Comisiones-api/internal/infrastructure/csvstore"
	infrapdf "github.com/jhoicas/Comisiones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Comisiones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Comisiones-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Comisiones-api/pkg/config"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// App componentes listos para usar. Close libera el almacenamiento.
type App struct {
	Config  *config.Config
	Records *records.RecordStore
	Gate    *auth.AccessGate
	Sales   *sales.SaleUseCase
	Export  *export.ExportUseCase

	close func()
}

// New abre el almacenamiento, carga las tablas y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tables, runner, closeFn, err := openTables(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	store := records.NewRecordStore(tables, runner, log)
	if err := store.Load(ctx); err != nil {
		closeFn()
		return nil, err
	}

	gate, err := auth.NewAccessGate(cfg.Access.PasswordHash, cfg.Access.Password, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	if err != nil {
		closeFn()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Records: store,
		Gate:    gate,
		Sales:   sales.NewSaleUseCase(store, log, sales.WithConfirmTTL(cfg.Delete.ConfirmTTL())),
		Export: export.NewExportUseCase(store,
			spreadsheet.NewExcelizeExporter(),
			infrapdf.NewMarotoPDFGenerator(),
			cfg.Export.FileName, cfg.Export.ReportFileName, log),
		close: closeFn,
	}, nil
}

// Close libera bloqueo de archivos o pool de conexiones.
func (a *App) Close() {
	if a.close != nil {
		a.close()
		a.close = nil
	}
}

func openTables(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.TableStore, repository.TableTxRunner, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		log.Info().Str("driver", cfg.Storage.Driver).Msg("almacenamiento abierto")
		return postgres.NewTableStore(pool), postgres.NewTxRunner(pool), pool.Close, nil
	default:
		store, err := csvstore.Open(csvstore.Options{
			Dir:          cfg.Storage.DataDir,
			SalesFile:    cfg.Storage.SalesFile,
			PaymentsFile: cfg.Storage.PaymentsFile,
			LogsFile:     cfg.Storage.LogsFile,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("driver", cfg.Storage.Driver).Str("dir", cfg.Storage.DataDir).Msg("almacenamiento abierto")
		return store, store, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("liberar bloqueo de datos")
			}
		}, nil
	}
}
