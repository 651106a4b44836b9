package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AuditRepo:    NewAuditRepository(dbPool),
		LedgerRepo:   NewLedgerRepository(dbPool),
		ApprovalRepo: NewApprovalRepository(dbPool),
		EventRepo:    NewEventRepository(dbPool),
		UOW:          NewPgxUnitOfWork(dbPool),
	}
}
