package repositories

// RepositoryProvider bundles every repository surface for service wiring.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	JournalRepo JournalRepositoryWithTx
	LedgerRepo  LedgerRepository
	AuditRepo   AuditRepository
}
