package pgsql

import (
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgsql-backed repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CourseRepo:     newPgxCourseRepository(pool),
		InventoryRepo:  newPgxInventoryRepository(pool),
		LedgerRepo:     newPgxLedgerRepository(pool),
		InvestmentRepo: newPgxInvestmentRepository(pool),
		UserRepo:       newPgxUserRepository(pool),
	}
}
