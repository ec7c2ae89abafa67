package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CourseRepo     CourseRepositoryFacade
	InventoryRepo  InventoryRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	InvestmentRepo InvestmentRepositoryFacade
	UserRepo       UserRepositoryFacade
}
