package repository

import (
	"context"
	"errors"

	"creditd/internal/models"
)

var (
	// ErrNotFound is returned by Get when no record exists for the id.
	ErrNotFound = errors.New("record not found")

	// ErrCASMismatch is returned by CompareAndSwap when the stored credits
	// no longer match the expected pre-image (concurrent writer) or the
	// record has disappeared. Callers re-read and retry.
	ErrCASMismatch = errors.New("compare-and-swap mismatch")
)

// Records is the durable id -> balance record store. Mutations go through
// CompareAndSwap so that check-then-write sequences in the ledger stay
// atomic per id.
type Records interface {
	Get(ctx context.Context, id string) (models.Record, error)
	// CreateIfAbsent inserts a record with the given credits unless one
	// already exists. Concurrent calls for the same id are safe and leave
	// exactly one record behind.
	CreateIfAbsent(ctx context.Context, id string, credits int64, at int64) error
	// CompareAndSwap persists newCredits and the timestamp only if the
	// stored credits still equal oldCredits, returning the updated record.
	CompareAndSwap(ctx context.Context, id string, oldCredits, newCredits int64, at int64) (models.Record, error)
	List(ctx context.Context) ([]models.Record, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
