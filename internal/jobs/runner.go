package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/eduinvest/eduinvest_backend/internal/core/domain"
	portsrepo "github.com/eduinvest/eduinvest_backend/internal/core/ports/repositories"
	"github.com/robfig/cron/v3"
)

// Runner owns the background maintenance schedules: reclaiming lapsed
// inventory reservations every minute and auditing each course's ledger
// against its projections nightly.
type Runner struct {
	cron   *cron.Cron
	repos  portsrepo.RepositoryProvider
	logger *slog.Logger
}

// NewRunner creates the job runner. Start must be called to begin scheduling.
func NewRunner(repos portsrepo.RepositoryProvider, logger *slog.Logger) *Runner {
	return &Runner{
		cron:   cron.New(),
		repos:  repos,
		logger: logger.With(slog.String("component", "jobs")),
	}
}

// Start registers and launches the schedules. Errors only on a bad schedule
// expression, which is a programming mistake, not a runtime condition.
func (r *Runner) Start() error {
	// Expired reservations stop counting against availability the moment they
	// lapse; the sweep just keeps the table from growing unboundedly.
	if _, err := r.cron.AddFunc("@every 1m", r.sweepReservations); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc("0 3 * * *", r.auditLedgers); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("Background jobs started")
	return nil
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Background jobs stopped")
}

func (r *Runner) sweepReservations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	swept, err := r.repos.InventoryRepo.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		r.logger.Error("Reservation sweep failed", slog.String("error", err.Error()))
		return
	}
	if swept > 0 {
		r.logger.Info("Swept expired reservations", slog.Int64("count", swept))
	}
}

// auditLedgers replays every course's ledger and compares the result against
// the stored projections. A mismatch means a commit bypassed the ledger
// transaction and needs investigation, so it is logged loudly and the audit
// moves on to the next course.
func (r *Runner) auditLedgers() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	courseIDs, err := r.repos.CourseRepo.ListCourseIDs(ctx)
	if err != nil {
		r.logger.Error("Ledger audit failed to list courses", slog.String("error", err.Error()))
		return
	}

	var mismatches int
	for _, courseID := range courseIDs {
		if !r.auditCourse(ctx, courseID) {
			mismatches++
		}
	}
	r.logger.Info("Ledger audit complete",
		slog.Int("courses", len(courseIDs)),
		slog.Int("mismatches", mismatches))
}

func (r *Runner) auditCourse(ctx context.Context, courseID string) bool {
	logger := r.logger.With(slog.String("course_id", courseID))

	course, err := r.repos.CourseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		logger.Error("Ledger audit failed to load course", slog.String("error", err.Error()))
		return false
	}
	entries, err := r.repos.LedgerRepo.FindEntriesByCourse(ctx, courseID)
	if err != nil {
		logger.Error("Ledger audit failed to load entries", slog.String("error", err.Error()))
		return false
	}

	replay, err := domain.ReplayCourse(course.TotalShares, entries)
	if err != nil {
		logger.Error("Ledger replay rejected entries", slog.String("error", err.Error()))
		return false
	}

	ok := true
	if replay.AvailableShares != course.AvailableShares {
		logger.Error("Ledger audit mismatch: available shares",
			slog.Int64("replayed", replay.AvailableShares),
			slog.Int64("stored", course.AvailableShares))
		ok = false
	}
	if !replay.CumulativeRevenue.Equal(course.CumulativeRevenue) {
		logger.Error("Ledger audit mismatch: cumulative revenue",
			slog.String("replayed", replay.CumulativeRevenue.String()),
			slog.String("stored", course.CumulativeRevenue.String()))
		ok = false
	}

	investments, err := r.repos.InvestmentRepo.ListInvestmentsByCourse(ctx, courseID)
	if err != nil {
		logger.Error("Ledger audit failed to load investments", slog.String("error", err.Error()))
		return false
	}
	stored := make(map[string]int64, len(investments))
	for _, inv := range investments {
		if inv.SharesOwned != 0 {
			stored[inv.InvestorID] = inv.SharesOwned
		}
	}
	replayed := make(map[string]int64, len(replay.Holdings))
	for investorID, shares := range replay.Holdings {
		if shares != 0 {
			replayed[investorID] = shares
		}
	}
	if len(stored) != len(replayed) {
		logger.Error("Ledger audit mismatch: holder count",
			slog.Int("replayed", len(replayed)),
			slog.Int("stored", len(stored)))
		ok = false
	}
	for investorID, shares := range replayed {
		if stored[investorID] != shares {
			logger.Error("Ledger audit mismatch: holdings",
				slog.String("investor_id", investorID),
				slog.Int64("replayed", shares),
				slog.Int64("stored", stored[investorID]))
			ok = false
		}
	}
	return ok
}
