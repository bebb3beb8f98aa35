package postgres

import (
	repo "creditd/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Records   repo.Records
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Records:   &recordsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
