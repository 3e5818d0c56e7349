package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// posicao conserva el orden de inserción de cada tabla.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS vendas (
	posicao        INTEGER       NOT NULL,
	id             TEXT          PRIMARY KEY,
	segurado       TEXT          NOT NULL,
	placa          TEXT          NOT NULL DEFAULT '',
	data           DATE,
	seguradora     TEXT          NOT NULL DEFAULT '',
	premio_liquido NUMERIC(18,4) NOT NULL DEFAULT 0,
	percentual     NUMERIC(9,4)  NOT NULL DEFAULT 0,
	comissao_caio  NUMERIC(18,2) NOT NULL DEFAULT 0,
	status         TEXT          NOT NULL,
	observacao     TEXT          NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS pagamentos (
	posicao        INTEGER       NOT NULL,
	id             TEXT          NOT NULL,
	id_venda       TEXT          NOT NULL,
	valor_pago     NUMERIC(18,2) NOT NULL DEFAULT 0,
	data_pagamento TEXT          NOT NULL DEFAULT '',
	observacao     TEXT          NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS logs (
	posicao   INTEGER     NOT NULL,
	data_hora TIMESTAMPTZ,
	tipo_acao TEXT        NOT NULL,
	id_venda  TEXT        NOT NULL DEFAULT '',
	descricao TEXT        NOT NULL DEFAULT ''
);`

// EnsureSchema crea las tablas si no existen. Ausencia de filas = tabla vacía.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
