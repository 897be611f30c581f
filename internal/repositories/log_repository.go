package repositories

import (
	"context"
	"errors"

	"consign-backend/internal/apperr"
	"consign-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LogRepository struct {
	DB *pgxpool.Pool
}

func NewLogRepository(db *pgxpool.Pool) *LogRepository {
	return &LogRepository{DB: db}
}

func appendLog(ctx context.Context, q querier, caseID *int, action, details string) (*models.LogEntry, error) {
	entry := &models.LogEntry{CaseID: caseID, Action: action, Details: details}
	err := q.QueryRow(ctx,
		`INSERT INTO logs(case_id, action, details) VALUES($1, $2, $3) RETURNING id, created_at`,
		caseID, action, details,
	).Scan(&entry.ID, &entry.CreatedAt)
	return entry, err
}

// AppendToCase writes an operator log entry against an existing case.
func (r *LogRepository) AppendToCase(ctx context.Context, caseID int, action, details string) (*models.LogEntry, error) {
	entry := &models.LogEntry{CaseID: &caseID, Action: action, Details: details}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO logs(case_id, action, details)
         SELECT $1, $2, $3 WHERE EXISTS (SELECT 1 FROM cases WHERE id = $1)
         RETURNING id, created_at`,
		caseID, action, details,
	).Scan(&entry.ID, &entry.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("case", caseID)
	}
	return entry, err
}

const logSelect = `
	SELECT l.id, l.case_id, COALESCE(c.name, ''), l.action, l.details, l.created_at
	FROM logs l
	LEFT JOIN cases c ON c.id = l.case_id`

func (r *LogRepository) ListByCase(ctx context.Context, caseID int) ([]*models.LogEntry, error) {
	return r.list(ctx, logSelect+` WHERE l.case_id = $1 ORDER BY l.created_at DESC, l.id DESC`, caseID)
}

// List returns the newest entries first; limit <= 0 means no limit.
func (r *LogRepository) List(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	if limit <= 0 {
		return r.list(ctx, logSelect+` ORDER BY l.created_at DESC, l.id DESC`)
	}
	return r.list(ctx, logSelect+` ORDER BY l.created_at DESC, l.id DESC LIMIT $1`, limit)
}

func (r *LogRepository) list(ctx context.Context, query string, args ...any) ([]*models.LogEntry, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.LogEntry{}
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.CaseID, &e.CaseName, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
