package repositories

// RepositoryProvider bundles the pool-bound repositories plus the unit of
// work. Services use the pool-bound repositories for reads and standalone
// writes, and the unit of work when several writes must commit together.
type RepositoryProvider struct {
	AuditRepo    AuditRepository
	LedgerRepo   LedgerRepository
	ApprovalRepo ApprovalRepository
	EventRepo    EventRepository
	UOW          UnitOfWork
}
