package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comisiones-api/internal/domain"
	"github.com/jhoicas/Comisiones-api/internal/domain/entity"
	"github.com/jhoicas/Comisiones-api/internal/domain/repository"
)

func TestLoadErr_TablaInexistenteEsVacia(t *testing.T) {
	err := fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "vendas" does not exist`})

	out, got := loadErr[*entity.Sale](repository.TableSales, err)
	require.NoError(t, got)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestLoadErr_OtrosErroresSonPersistencia(t *testing.T) {
	out, err := loadErr[*entity.LogEntry](repository.TableLogs, errors.New("conexión rechazada"))
	assert.Nil(t, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "logs", pe.Table)
}
