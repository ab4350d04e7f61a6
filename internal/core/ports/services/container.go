package services

// ServiceContainer bundles every service surface for handler wiring.
type ServiceContainer struct {
	Account   AccountSvc
	Journal   JournalSvc
	Ledger    LedgerSvc
	Reporting ReportingSvc
	Audit     AuditSvc
}
