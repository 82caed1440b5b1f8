package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"symptomlog/internal/types"
)

// ReportRepo provides access to the reports table.
//
// Ownership semantics: GetByID and Delete fold the ownership check into the
// query itself, so "does not exist" and "belongs to someone else" collapse at
// this layer. Exists checks by id alone; the service layer combines the two
// to distinguish 404 from 403.
type ReportRepo struct {
	db     DBTX
	logger *slog.Logger
}

// NewReportRepo creates a ReportRepo backed by the given connection
// (pool or transaction).
func NewReportRepo(db DBTX, logger *slog.Logger) *ReportRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportRepo{db: db, logger: logger}
}

const reportColumns = "id, user_id, content, period_type, period_start, period_end, created_at"

// Insert persists a generated report as a single atomic row insert, assigning
// its id and creation timestamp. There is no partial-write possibility.
func (r *ReportRepo) Insert(ctx context.Context, report *types.Report) error {
	report.ID = uuid.NewString()

	err := r.db.QueryRow(ctx,
		`INSERT INTO reports (id, user_id, content, period_type, period_start, period_end)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		report.ID, report.UserID, report.Content, report.PeriodType,
		report.PeriodStart, report.PeriodEnd,
	).Scan(&report.CreatedAt)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to save report", err)
	}

	return nil
}

// GetByID returns the report matching id+owner, or nil when no such row
// exists for that pair.
func (r *ReportRepo) GetByID(ctx context.Context, id, ownerID string) (*types.Report, error) {
	var report types.Report
	err := r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(
		&report.ID, &report.UserID, &report.Content, &report.PeriodType,
		&report.PeriodStart, &report.PeriodEnd, &report.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to fetch report", err)
	}

	return &report, nil
}

// Exists reports whether any report row has the given id, regardless of owner.
func (r *ReportRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, types.NewAppError(types.ErrCodeInternalDB, "failed to check report existence", err)
	}
	return exists, nil
}

// Delete removes the report matching id+owner. The conditional delete is
// atomic; zero affected rows means not found or not owned.
func (r *ReportRepo) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM reports WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete report", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundReport, "report not found", nil)
	}
	return nil
}

// ListByOwner returns one page of the owner's reports, newest first, together
// with the total count.
func (r *ReportRepo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]types.Report, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reports WHERE user_id = $1`,
		ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count reports", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+reportColumns+`
		 FROM reports
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, 0, types.NewAppError(types.ErrCodeInternalDB, "failed to list reports", err)
	}
	defer rows.Close()

	reports := make([]types.Report, 0)
	for rows.Next() {
		var report types.Report
		if err := rows.Scan(
			&report.ID, &report.UserID, &report.Content, &report.PeriodType,
			&report.PeriodStart, &report.PeriodEnd, &report.CreatedAt,
		); err != nil {
			return nil, 0, types.NewAppError(types.ErrCodeInternalDB, "failed to scan report row", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, types.NewAppError(types.ErrCodeInternalDB, "failed to read report rows", err)
	}

	return reports, total, nil
}
