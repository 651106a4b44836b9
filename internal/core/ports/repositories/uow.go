package repositories

import "context"

// TxRepositories bundles repositories bound to one database transaction. Every
// write made through the bundle commits or rolls back together.
type TxRepositories struct {
	Audit     AuditRepository
	Ledger    LedgerRepository
	Approvals ApprovalRepository
	Events    EventRepository
}

// UnitOfWork opens a transaction boundary. The function receives repositories
// bound to the transaction; returning an error rolls everything back, nil
// commits. No partial state is observable either way.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
