package services

import (
	portsrepo "github.com/nimbusfin/coreledger/internal/core/ports/repositories"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
)

// NewServiceContainer wires the engine services together: registry, notifier,
// ledger, coordinator, router, approval and audit query services.
func NewServiceContainer(
	uow portsrepo.UnitOfWork,
	auditRepo portsrepo.AuditRepository,
	approvalRepo portsrepo.ApprovalRepository,
	ledgerRepo portsrepo.LedgerRepository,
	eventRepo portsrepo.EventRepository,
	policy portssvc.ApprovalPolicy,
) *portssvc.ServiceContainer {
	registry := NewHandlerRegistry()
	notifier := NewNotifier()
	ledgerSvc := NewLedgerService(ledgerRepo)
	coordinator := NewCoordinatorService(uow, auditRepo, registry, ledgerSvc, notifier)
	router := NewCommandRouterService(auditRepo, approvalRepo, registry, policy, coordinator)
	approvalSvc := NewApprovalService(auditRepo, approvalRepo, coordinator)
	auditSvc := NewAuditService(auditRepo, eventRepo)

	return &portssvc.ServiceContainer{
		Router:   router,
		Approval: approvalSvc,
		Ledger:   ledgerSvc,
		Audit:    auditSvc,
		Registry: registry,
		Notifier: notifier,
	}
}
