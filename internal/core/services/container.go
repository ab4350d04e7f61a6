package services

import (
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repositories.
// trialBalanceRows bounds trial balance result sets.
func NewServiceContainer(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepository,
	auditRepo portsrepo.AuditRepository,
	trialBalanceRows int,
) *portssvc.ServiceContainer {
	auditSvc := NewAuditService(auditRepo)
	ledgerSvc := NewLedgerService(ledgerRepo, accountRepo, trialBalanceRows)

	return &portssvc.ServiceContainer{
		Account:   NewAccountService(accountRepo, auditSvc),
		Journal:   NewJournalService(journalRepo, accountRepo, auditSvc),
		Ledger:    ledgerSvc,
		Reporting: NewReportingService(ledgerSvc),
		Audit:     auditSvc,
	}
}
