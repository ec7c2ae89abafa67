package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/apperrors"
	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/eduinvest/eduinvest_backend/internal/utils/money"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerColumns = `entry_id, course_id, sequence_no, COALESCE(investor_id, ''), kind,
	shares_delta, amount, description, created_at, created_by`

var hundred = decimal.NewFromInt(100)

// PgxLedgerRepository owns every committed mutation of course state. Each
// writer method is one transaction that takes the course row lock first, so all
// mutations of a course are serialized and sequence numbers reflect commit
// order. The ledger append, the investment upsert and the course projection
// update land together or not at all.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the transaction ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// FindEntriesByCourse retrieves a course's full ledger in sequence order.
func (r *PgxLedgerRepository) FindEntriesByCourse(ctx context.Context, courseID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE course_id = $1
		ORDER BY sequence_no;
	`
	rows, err := r.Pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger for course "+courseID, err)
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

// ListEntriesByInvestor retrieves a paginated transaction history, newest first.
func (r *PgxLedgerRepository) ListEntriesByInvestor(ctx context.Context, investorID string, limit, offset int) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE investor_id = $1
		ORDER BY created_at DESC, sequence_no DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, investorID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger for investor "+investorID, err)
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

// CommitPurchase consumes a reservation and commits the purchase atomically.
func (r *PgxLedgerRepository) CommitPurchase(ctx context.Context, reservation domain.Reservation, now time.Time) (*domain.Investment, *domain.LedgerEntry, *domain.Course, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	course, err := findCourseByIDForUpdate(ctx, tx, reservation.CourseID)
	if err != nil {
		return nil, nil, nil, err
	}

	// Consume the hold. An absent row means it was swept or already spent; a
	// lapsed one no longer counts against availability and cannot be honored.
	var expiresAt time.Time
	err = tx.QueryRow(ctx, `DELETE FROM reservations WHERE token = $1 RETURNING expires_at;`, reservation.Token).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, fmt.Errorf("%w: reservation %s", apperrors.ErrReservationExpired, reservation.Token)
		}
		return nil, nil, nil, apperrors.NewAppError(500, "failed to consume reservation "+reservation.Token, err)
	}
	if !now.Before(expiresAt) {
		return nil, nil, nil, fmt.Errorf("%w: reservation %s lapsed at %s", apperrors.ErrReservationExpired, reservation.Token, expiresAt.Format(time.RFC3339))
	}

	if course.AvailableShares < reservation.Quantity {
		// A live reservation always fits inside available_shares; hitting this
		// means the projection has drifted from the ledger.
		return nil, nil, nil, fmt.Errorf("%w: course %s has %d available for a hold of %d",
			apperrors.ErrInvariantViolation, course.CourseID, course.AvailableShares, reservation.Quantity)
	}

	totalCost := reservation.TotalCost()
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CourseID:    course.CourseID,
		SequenceNo:  course.LastSequenceNo + 1,
		InvestorID:  reservation.InvestorID,
		Kind:        domain.EntryPurchase,
		SharesDelta: reservation.Quantity,
		Amount:      totalCost,
		Description: fmt.Sprintf("purchase of %d shares at %s", reservation.Quantity, reservation.PriceAtReservation.StringFixed(2)),
		CreatedAt:   now,
		CreatedBy:   reservation.InvestorID,
	}
	if err := insertLedgerEntry(ctx, tx, entry); err != nil {
		return nil, nil, nil, err
	}

	// Repeat purchases fold into one position; the cost basis accumulates so
	// the average cost stays purchase-weighted.
	investment, err := scanInvestment(tx.QueryRow(ctx, `
		INSERT INTO investments (investment_id, investor_id, course_id, shares_owned, cost_basis,
			lifetime_earnings, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $2, $7, $2)
		ON CONFLICT (investor_id, course_id) DO UPDATE SET
			shares_owned = investments.shares_owned + EXCLUDED.shares_owned,
			cost_basis = investments.cost_basis + EXCLUDED.cost_basis,
			status = $6,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING `+investmentColumns+`;
	`,
		uuid.NewString(),
		reservation.InvestorID,
		course.CourseID,
		reservation.Quantity,
		totalCost,
		domain.InvestmentStatusActive,
		now,
	))
	if err != nil {
		return nil, nil, nil, apperrors.NewAppError(500, "failed to upsert investment", err)
	}

	course.AvailableShares -= reservation.Quantity
	course.LastSequenceNo = entry.SequenceNo
	if err := updateCourseProjection(ctx, tx, course, reservation.InvestorID, now); err != nil {
		return nil, nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, nil, err
	}
	return investment, &entry, course, nil
}

// CommitSale sells shares back at the current share price and commits the
// resulting position and availability change atomically.
func (r *PgxLedgerRepository) CommitSale(ctx context.Context, investorID, courseID string, quantity int64, now time.Time) (*domain.Investment, *domain.LedgerEntry, *domain.Course, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	course, err := findCourseByIDForUpdate(ctx, tx, courseID)
	if err != nil {
		return nil, nil, nil, err
	}

	investment, err := scanInvestment(tx.QueryRow(ctx, `
		SELECT `+investmentColumns+` FROM investments
		WHERE investor_id = $1 AND course_id = $2
		FOR UPDATE;
	`, investorID, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, fmt.Errorf("%w: investor %s holds no shares in course %s", apperrors.ErrInsufficientHoldings, investorID, courseID)
		}
		return nil, nil, nil, apperrors.NewAppError(500, "failed to lock investment", err)
	}
	if investment.SharesOwned < quantity {
		return nil, nil, nil, fmt.Errorf("%w: investor %s holds %d of %d shares requested",
			apperrors.ErrInsufficientHoldings, investorID, investment.SharesOwned, quantity)
	}

	proceeds := course.SharePrice.Mul(decimal.NewFromInt(quantity))

	// The position sheds cost at its weighted-average basis. Selling out takes
	// the exact remaining basis so no rounding dust survives the position.
	var costReduction decimal.Decimal
	if investment.SharesOwned == quantity {
		costReduction = investment.CostBasis
	} else {
		costReduction = investment.CostBasis.
			Mul(decimal.NewFromInt(quantity)).
			Div(decimal.NewFromInt(investment.SharesOwned)).
			Round(2)
	}

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CourseID:    courseID,
		SequenceNo:  course.LastSequenceNo + 1,
		InvestorID:  investorID,
		Kind:        domain.EntrySale,
		SharesDelta: -quantity,
		Amount:      proceeds,
		Description: fmt.Sprintf("sale of %d shares at %s", quantity, course.SharePrice.StringFixed(2)),
		CreatedAt:   now,
		CreatedBy:   investorID,
	}
	if err := insertLedgerEntry(ctx, tx, entry); err != nil {
		return nil, nil, nil, err
	}

	investment.SharesOwned -= quantity
	investment.CostBasis = investment.CostBasis.Sub(costReduction)
	if investment.SharesOwned == 0 {
		investment.Status = domain.InvestmentStatusSold
	}
	investment.LastUpdatedAt = now
	investment.LastUpdatedBy = investorID
	_, err = tx.Exec(ctx, `
		UPDATE investments
		SET shares_owned = $2, cost_basis = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE investment_id = $1;
	`, investment.InvestmentID, investment.SharesOwned, investment.CostBasis, investment.Status, now, investorID)
	if err != nil {
		return nil, nil, nil, apperrors.NewAppError(500, "failed to update investment "+investment.InvestmentID, err)
	}

	course.AvailableShares += quantity
	course.LastSequenceNo = entry.SequenceNo
	if err := updateCourseProjection(ctx, tx, course, investorID, now); err != nil {
		return nil, nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, nil, err
	}
	return investment, &entry, course, nil
}

// DistributeRevenue records a gross revenue event and allocates the shareable
// pool across current holders, all in one transaction under the course lock.
func (r *PgxLedgerRepository) DistributeRevenue(ctx context.Context, courseID string, gross decimal.Decimal, reportedBy string, now time.Time) (*domain.RevenueReport, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	course, err := findCourseByIDForUpdate(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}

	// Largest holder first: on an uneven split the rounding cents land there,
	// with investor_id as the deterministic tiebreak.
	rows, err := tx.Query(ctx, `
		SELECT `+investmentColumns+` FROM investments
		WHERE course_id = $1 AND shares_owned > 0
		ORDER BY shares_owned DESC, investor_id
		FOR UPDATE;
	`, courseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock holders for course "+courseID, err)
	}
	holders, err := collectInvestments(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	pool := gross.Mul(course.RevenueSharePct).Div(hundred)
	poolCents := money.Cents(pool)
	seq := course.LastSequenceNo

	report := &domain.RevenueReport{
		CourseID:      courseID,
		Gross:         gross,
		ShareablePool: money.FromCents(poolCents),
		SoldShares:    course.SoldShares(),
		Allocations:   make([]domain.RevenueAllocation, 0, len(holders)),
		Residual:      decimal.Zero,
		Entries:       make([]domain.LedgerEntry, 0, len(holders)+1),
	}

	// The gross event itself goes on the ledger first so replay sees revenue
	// before the distribution it funds.
	seq++
	grossEntry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		CourseID:    courseID,
		SequenceNo:  seq,
		Kind:        domain.EntryCoursePurchase,
		Amount:      gross,
		Description: "course revenue reported",
		CreatedAt:   now,
		CreatedBy:   reportedBy,
	}
	if err := insertLedgerEntry(ctx, tx, grossEntry); err != nil {
		return nil, err
	}
	report.Entries = append(report.Entries, grossEntry)

	if len(holders) == 0 {
		// No holders: the pool stays with the platform but is still recorded,
		// so the ledger accounts for every cent of the gross.
		seq++
		unallocated := domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			CourseID:    courseID,
			SequenceNo:  seq,
			Kind:        domain.EntryRevenueDistribution,
			Amount:      report.ShareablePool,
			Description: "shareable pool unallocated: course has no holders",
			CreatedAt:   now,
			CreatedBy:   reportedBy,
		}
		if err := insertLedgerEntry(ctx, tx, unallocated); err != nil {
			return nil, err
		}
		report.Entries = append(report.Entries, unallocated)
	} else {
		weights := make([]int64, len(holders))
		for i, h := range holders {
			weights[i] = h.SharesOwned
		}
		allocations, residue, err := money.AllocateProportional(poolCents, weights)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to allocate revenue for course "+courseID, err)
		}
		report.Residual = money.FromCents(residue)

		// One batch for the whole distribution: an entry per holder plus the
		// matching lifetime_earnings credit.
		batch := &pgx.Batch{}
		for i, h := range holders {
			amount := money.FromCents(allocations[i])
			seq++
			allocEntry := domain.LedgerEntry{
				EntryID:     uuid.NewString(),
				CourseID:    courseID,
				SequenceNo:  seq,
				InvestorID:  h.InvestorID,
				Kind:        domain.EntryRevenueDistribution,
				Amount:      amount,
				Description: fmt.Sprintf("revenue share for %d shares", h.SharesOwned),
				CreatedAt:   now,
				CreatedBy:   reportedBy,
			}
			queueLedgerEntry(batch, allocEntry)
			batch.Queue(`
				UPDATE investments
				SET lifetime_earnings = lifetime_earnings + $2, last_updated_at = $3, last_updated_by = $4
				WHERE investment_id = $1;
			`, h.InvestmentID, amount, now, reportedBy)

			report.Entries = append(report.Entries, allocEntry)
			report.Allocations = append(report.Allocations, domain.RevenueAllocation{
				InvestorID: h.InvestorID,
				Shares:     h.SharesOwned,
				Amount:     amount,
			})
		}

		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return nil, apperrors.NewAppError(500, "failed to execute distribution batch for course "+courseID, err)
		}
	}

	course.CumulativeRevenue = course.CumulativeRevenue.Add(gross)
	course.StudentCount++
	course.LastSequenceNo = seq
	if err := updateCourseProjection(ctx, tx, course, reportedBy, now); err != nil {
		return nil, err
	}
	report.Course = *course

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return report, nil
}

const ledgerInsertQuery = `
	INSERT INTO ledger_entries (entry_id, course_id, sequence_no, investor_id, kind,
		shares_delta, amount, description, created_at, created_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`

// ledgerEntryArgs maps an entry to insert arguments. Course-level entries carry
// a NULL investor so the investor history index stays clean.
func ledgerEntryArgs(entry domain.LedgerEntry) []any {
	var investorID any
	if entry.InvestorID != "" {
		investorID = entry.InvestorID
	}
	return []any{
		entry.EntryID,
		entry.CourseID,
		entry.SequenceNo,
		investorID,
		entry.Kind,
		entry.SharesDelta,
		entry.Amount,
		entry.Description,
		entry.CreatedAt,
		entry.CreatedBy,
	}
}

// insertLedgerEntry appends one immutable entry.
func insertLedgerEntry(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	if _, err := tx.Exec(ctx, ledgerInsertQuery, ledgerEntryArgs(entry)...); err != nil {
		return apperrors.NewAppError(500, "failed to append ledger entry for course "+entry.CourseID, err)
	}
	return nil
}

// queueLedgerEntry queues the same append on a batch.
func queueLedgerEntry(batch *pgx.Batch, entry domain.LedgerEntry) {
	batch.Queue(ledgerInsertQuery, ledgerEntryArgs(entry)...)
}

// updateCourseProjection writes back the ledger-derived course columns. Callers
// mutate the locked in-memory course first so it can be returned as committed.
func updateCourseProjection(ctx context.Context, tx pgx.Tx, course *domain.Course, updatedBy string, now time.Time) error {
	course.LastUpdatedAt = now
	course.LastUpdatedBy = updatedBy
	_, err := tx.Exec(ctx, `
		UPDATE courses
		SET available_shares = $2, cumulative_revenue = $3, student_count = $4,
			last_sequence_no = $5, last_updated_at = $6, last_updated_by = $7
		WHERE course_id = $1;
	`,
		course.CourseID,
		course.AvailableShares,
		course.CumulativeRevenue,
		course.StudentCount,
		course.LastSequenceNo,
		now,
		updatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update course projection "+course.CourseID, err)
	}
	return nil
}

func scanLedgerEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.EntryID,
		&e.CourseID,
		&e.SequenceNo,
		&e.InvestorID,
		&e.Kind,
		&e.SharesDelta,
		&e.Amount,
		&e.Description,
		&e.CreatedAt,
		&e.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}
