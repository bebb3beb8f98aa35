package memory

import (
	"context"
	"errors"
	"testing"

	repo "creditd/internal/repository"
)

func TestRecords_GetUnknown(t *testing.T) {
	t.Parallel()

	s := NewRecords()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecords_CreateIfAbsentIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewRecords()
	if err := s.CreateIfAbsent(context.Background(), "42", 3, 1000); err != nil {
		t.Fatalf("create: %v", err)
	}
	// second create must not reset the record
	if _, err := s.CompareAndSwap(context.Background(), "42", 3, 7, 2000); err != nil {
		t.Fatalf("cas: %v", err)
	}
	if err := s.CreateIfAbsent(context.Background(), "42", 3, 3000); err != nil {
		t.Fatalf("re-create: %v", err)
	}

	rec, err := s.Get(context.Background(), "42")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Credits != 7 || rec.LastTransaction != 2000 {
		t.Fatalf("re-create clobbered the record: %+v", rec)
	}
}

func TestRecords_CompareAndSwap(t *testing.T) {
	t.Parallel()

	s := NewRecords()
	if err := s.CreateIfAbsent(context.Background(), "42", 3, 1000); err != nil {
		t.Fatalf("create: %v", err)
	}

	// stale pre-image
	if _, err := s.CompareAndSwap(context.Background(), "42", 2, 0, 2000); !errors.Is(err, repo.ErrCASMismatch) {
		t.Fatalf("expected ErrCASMismatch for stale pre-image, got %v", err)
	}
	// missing id
	if _, err := s.CompareAndSwap(context.Background(), "ghost", 3, 5, 2000); !errors.Is(err, repo.ErrCASMismatch) {
		t.Fatalf("expected ErrCASMismatch for missing id, got %v", err)
	}

	rec, err := s.CompareAndSwap(context.Background(), "42", 3, 5, 2000)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if rec.Credits != 5 || rec.LastTransaction != 2000 {
		t.Fatalf("unexpected record after cas: %+v", rec)
	}
}
