package services

// ServiceContainer aggregates the service facades for injection into the
// transport layer.
type ServiceContainer struct {
	Router   CommandRouterSvcFacade
	Approval ApprovalSvcFacade
	Ledger   LedgerSvcFacade
	Audit    AuditSvcFacade
	Registry HandlerRegistry
	Notifier Notifier
}
