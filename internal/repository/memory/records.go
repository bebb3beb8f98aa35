// Package memory holds mutex-guarded in-memory repository implementations,
// used by tests and when no DATABASE_URL is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"creditd/internal/models"
	repo "creditd/internal/repository"
)

type Records struct {
	mu   sync.Mutex
	recs map[string]models.Record
}

func NewRecords() *Records {
	return &Records{recs: make(map[string]models.Record)}
}

func (s *Records) Get(ctx context.Context, id string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return models.Record{}, repo.ErrNotFound
	}
	return rec, nil
}

func (s *Records) CreateIfAbsent(ctx context.Context, id string, credits int64, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; ok {
		return nil
	}
	s.recs[id] = models.Record{ID: id, Credits: credits, LastTransaction: at}
	return nil
}

func (s *Records) CompareAndSwap(ctx context.Context, id string, oldCredits, newCredits int64, at int64) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok || rec.Credits != oldCredits {
		return models.Record{}, repo.ErrCASMismatch
	}
	rec.Credits = newCredits
	rec.LastTransaction = at
	s.recs[id] = rec
	return rec, nil
}

func (s *Records) List(ctx context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Record, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
