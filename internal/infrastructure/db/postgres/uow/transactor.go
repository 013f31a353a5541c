package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"sheet-insights-api/internal/application/ports"
	"sheet-insights-api/internal/infrastructure/db/postgres"
	"sheet-insights-api/internal/infrastructure/db/postgres/datarow"
	"sheet-insights-api/internal/infrastructure/db/postgres/file"
)

// Transactor hands out file and row repositories bound to a single pgx transaction.
type Transactor struct {
	runner *postgres.TxRunner
}

func NewTransactor(db postgres.TxBeginner) ports.Transactor {
	return &Transactor{runner: postgres.NewTxRunner(db)}
}

func (t *Transactor) RunInTx(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	return t.runner.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(ports.TxRepos{
			Files: file.NewRepository(tx),
			Rows:  datarow.NewRepository(tx),
		})
	})
}
