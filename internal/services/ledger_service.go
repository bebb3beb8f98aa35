package services

import (
	"context"
	"errors"
	"time"

	"creditd/internal/metrics"
	"creditd/internal/models"
	repo "creditd/internal/repository"
	"creditd/internal/worker"

	"github.com/google/uuid"
)

// ErrInsufficientCredits means the requested adjustment would drive the
// balance below zero. Nothing is written.
var ErrInsufficientCredits = errors.New("insufficient credits")

// casAttempts bounds the re-read/retry loop in Adjust. Contention on a
// single id is the only way to lose a swap, so a handful is plenty.
const casAttempts = 5

type LedgerService struct {
	recs  repo.Records
	audit repo.AuditLogs
	wp    *worker.Pool
	now   func() time.Time
}

func NewLedgerService(r repo.Records, a repo.AuditLogs, wp *worker.Pool) *LedgerService {
	return &LedgerService{recs: r, audit: a, wp: wp, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// GetOrCreate returns the record for id, materializing one with the default
// starting credits on first sight. Safe under concurrent calls for the same
// fresh id: the store insert is conditional on the primary key.
func (s *LedgerService) GetOrCreate(ctx context.Context, id string) (models.Record, error) {
	rec, err := s.recs.Get(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return models.Record{}, err
	}
	if err := s.recs.CreateIfAbsent(ctx, id, models.DefaultCredits, s.now().Unix()); err != nil {
		return models.Record{}, err
	}
	s.logAudit(id, "create", nil)
	return s.recs.Get(ctx, id)
}

// Adjust adds delta to the stored balance. It returns repository.ErrNotFound
// for unknown ids (strict mutation: no implicit creation) and
// ErrInsufficientCredits when the result would be negative, leaving the
// stored value untouched. A zero delta is valid and still advances
// last_transaction.
//
// The read-check-write runs as a compare-and-swap against the prior credits
// value, so two concurrent adjustments on the same id can never both commit
// against the same pre-image.
func (s *LedgerService) Adjust(ctx context.Context, id string, delta int64) (models.Record, error) {
	var lastErr error
	for i := 0; i < casAttempts; i++ {
		rec, err := s.recs.Get(ctx, id)
		if err != nil {
			return models.Record{}, err
		}
		newCredits := rec.Credits + delta
		if newCredits < 0 {
			metrics.AdjustmentsTotal.WithLabelValues("insufficient").Inc()
			return models.Record{}, ErrInsufficientCredits
		}
		updated, err := s.recs.CompareAndSwap(ctx, id, rec.Credits, newCredits, s.now().Unix())
		if errors.Is(err, repo.ErrCASMismatch) {
			lastErr = err
			continue
		}
		if err != nil {
			return models.Record{}, err
		}
		metrics.AdjustmentsTotal.WithLabelValues("ok").Inc()
		s.logAudit(id, "adjust", map[string]any{"delta": delta, "credits": updated.Credits})
		return updated, nil
	}
	return models.Record{}, lastErr
}

func (s *LedgerService) List(ctx context.Context) ([]models.Record, error) {
	return s.recs.List(ctx)
}

// logAudit queues a best-effort audit entry. Failures are dropped; the side
// log must never affect the request outcome.
func (s *LedgerService) logAudit(id, action string, details map[string]any) {
	if s.audit == nil || s.wp == nil {
		return
	}
	entry := models.AuditLog{
		ID:       uuid.NewString(),
		EntityID: id,
		Action:   action,
		Details:  details,
	}
	s.wp.Submit(func() {
		_ = s.audit.Create(context.Background(), entry)
	})
}
