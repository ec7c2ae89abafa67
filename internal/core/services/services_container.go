package services

import (
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	portssvc "github.com/eduinvest/eduinvest_backend/internal/core/ports/services"
	"github.com/eduinvest/eduinvest_backend/internal/events"
	"github.com/eduinvest/eduinvest_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. publisher receives an event per committed ledger entry;
// idempotency may be nil when no duplicate-suppression backend is configured.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	publisher events.Publisher,
	idempotency portsrepo.IdempotencyStore,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Course = NewCourseService(repos.CourseRepo)
	container.Purchase = NewPurchaseService(
		repos.CourseRepo,
		repos.InventoryRepo,
		repos.LedgerRepo,
		publisher,
		idempotency,
		cfg.ReservationTTL,
	)
	container.Revenue = NewRevenueService(repos.CourseRepo, repos.LedgerRepo, publisher)
	container.Investment = NewInvestmentService(repos.InvestmentRepo, repos.CourseRepo, repos.LedgerRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}
