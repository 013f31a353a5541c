package ports

import (
	"context"

	"sheet-insights-api/internal/domain/datarow"
	"sheet-insights-api/internal/domain/file"
)

// TxRepos are repositories bound to one open transaction.
type TxRepos struct {
	Files file.Repository
	Rows  datarow.Repository
}

// Transactor commits everything fn wrote through repos, or nothing when fn fails.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(repos TxRepos) error) error
}
