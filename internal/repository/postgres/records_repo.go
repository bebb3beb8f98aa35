package postgres

import (
	"context"
	"errors"

	"creditd/internal/models"
	repo "creditd/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type recordsRepo struct{ pool *pgxpool.Pool }

func (r *recordsRepo) Get(ctx context.Context, id string) (models.Record, error) {
	var rec models.Record
	err := r.pool.QueryRow(ctx,
		`SELECT id, credits, last_transaction
		   FROM records
		  WHERE id=$1`,
		id,
	).Scan(&rec.ID, &rec.Credits, &rec.LastTransaction)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Record{}, repo.ErrNotFound
	}
	return rec, err
}

func (r *recordsRepo) CreateIfAbsent(ctx context.Context, id string, credits int64, at int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO records(id, credits, last_transaction)
		 VALUES($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		id, credits, at,
	)
	return err
}

func (r *recordsRepo) CompareAndSwap(ctx context.Context, id string, oldCredits, newCredits int64, at int64) (models.Record, error) {
	var rec models.Record
	err := r.pool.QueryRow(ctx,
		`UPDATE records
		    SET credits = $3,
		        last_transaction = $4
		  WHERE id = $1 AND credits = $2
		  RETURNING id, credits, last_transaction`,
		id, oldCredits, newCredits, at,
	).Scan(&rec.ID, &rec.Credits, &rec.LastTransaction)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either a concurrent writer moved the balance or the row is gone;
		// the ledger re-reads to tell the two apart.
		return models.Record{}, repo.ErrCASMismatch
	}
	return rec, err
}

func (r *recordsRepo) List(ctx context.Context) ([]models.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, credits, last_transaction FROM records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.ID, &rec.Credits, &rec.LastTransaction); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
