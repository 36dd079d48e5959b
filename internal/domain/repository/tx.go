package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos interface {
	Documents() DocumentRepository
	Ledger() LedgerRepository
	Balances() BalanceStore
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, tx TxRepos) error) error
}
