package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"symptomlog/internal/types"
)

// SymptomRepo provides access to the symptoms table. All queries are scoped
// to an owner; a symptom is never visible to or mutable by another user.
type SymptomRepo struct {
	db     DBTX
	logger *slog.Logger
}

// NewSymptomRepo creates a SymptomRepo backed by the given connection
// (pool or transaction).
func NewSymptomRepo(db DBTX, logger *slog.Logger) *SymptomRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SymptomRepo{db: db, logger: logger}
}

const symptomColumns = "id, user_id, symptom_type, body_part, occurred_at, notes, created_at"

// Create inserts a new symptom record, assigning its id and creation
// timestamp. The occurred_at value is stored exactly as supplied.
func (r *SymptomRepo) Create(ctx context.Context, s *types.Symptom) error {
	s.ID = uuid.NewString()

	err := r.db.QueryRow(ctx,
		`INSERT INTO symptoms (id, user_id, symptom_type, body_part, occurred_at, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		s.ID, s.UserID, s.SymptomType, s.BodyPart, s.OccurredAt, s.Notes,
	).Scan(&s.CreatedAt)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create symptom", err)
	}

	return nil
}

// List returns one page of the owner's symptoms matching the filter, ordered
// by occurrence time descending, together with the total matching count.
func (r *SymptomRepo) List(ctx context.Context, ownerID string, f types.SymptomFilter) ([]types.Symptom, int, error) {
	where, args := buildSymptomPredicates(ownerID, f)

	var total int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM symptoms WHERE "+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count symptoms", err)
	}

	pageArgs := append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		"SELECT %s FROM symptoms WHERE %s ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d",
		symptomColumns, where, len(args)+1, len(args)+2,
	)

	rows, err := r.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, types.NewAppError(types.ErrCodeInternalDB, "failed to list symptoms", err)
	}
	defer rows.Close()

	symptoms, err := scanSymptoms(rows)
	if err != nil {
		return nil, 0, err
	}

	return symptoms, total, nil
}

// ListByOccurredRange returns all of the owner's symptoms with
// start <= occurred_at <= end, newest first, with no limit. The complete set
// is returned; bounding for prompt size is the caller's concern.
func (r *SymptomRepo) ListByOccurredRange(ctx context.Context, ownerID string, start, end time.Time) ([]types.Symptom, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+symptomColumns+`
		 FROM symptoms
		 WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3
		 ORDER BY occurred_at DESC`,
		ownerID, start, end,
	)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to fetch symptoms for period", err)
	}
	defer rows.Close()

	return scanSymptoms(rows)
}

// Update applies a partial update to the owner's symptom and returns the
// updated record. Returns a not-found error when no row matches id+owner;
// the ownership check is part of the same statement.
func (r *SymptomRepo) Update(ctx context.Context, id, ownerID string, patch types.SymptomPatch) (*types.Symptom, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.SymptomType != nil {
		add("symptom_type", *patch.SymptomType)
	}
	if patch.BodyPart != nil {
		add("body_part", *patch.BodyPart)
	}
	if patch.OccurredAt != nil {
		add("occurred_at", *patch.OccurredAt)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}

	if len(sets) == 0 {
		// Nothing to change; behave as a read so callers still get the
		// not-found/ownership semantics.
		return r.getByID(ctx, id, ownerID)
	}

	args = append(args, id, ownerID)
	query := fmt.Sprintf(
		"UPDATE symptoms SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), symptomColumns,
	)

	var s types.Symptom
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.UserID, &s.SymptomType, &s.BodyPart, &s.OccurredAt, &s.Notes, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewAppError(types.ErrCodeNotFoundSymptom, "symptom not found", nil)
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to update symptom", err)
	}

	return &s, nil
}

// Delete removes the owner's symptom. The ownership check is folded into the
// delete itself; zero affected rows means not found (or not owned).
func (r *SymptomRepo) Delete(ctx context.Context, id, ownerID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM symptoms WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to delete symptom", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundSymptom, "symptom not found", nil)
	}
	return nil
}

func (r *SymptomRepo) getByID(ctx context.Context, id, ownerID string) (*types.Symptom, error) {
	var s types.Symptom
	err := r.db.QueryRow(ctx,
		`SELECT `+symptomColumns+` FROM symptoms WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(&s.ID, &s.UserID, &s.SymptomType, &s.BodyPart, &s.OccurredAt, &s.Notes, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewAppError(types.ErrCodeNotFoundSymptom, "symptom not found", nil)
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to fetch symptom", err)
	}
	return &s, nil
}

// buildSymptomPredicates assembles the WHERE clause for List from the owner
// id and the optional filter fields, returning the clause and its ordered
// arguments.
func buildSymptomPredicates(ownerID string, f types.SymptomFilter) (string, []any) {
	preds := []string{"user_id = $1"}
	args := []any{ownerID}

	add := func(expr string, value any) {
		args = append(args, value)
		preds = append(preds, fmt.Sprintf(expr, len(args)))
	}

	if f.OccurredAtGte != nil {
		add("occurred_at >= $%d", *f.OccurredAtGte)
	}
	if f.OccurredAtLte != nil {
		add("occurred_at <= $%d", *f.OccurredAtLte)
	}
	if f.SymptomType != nil {
		add("symptom_type = $%d", *f.SymptomType)
	}
	if f.BodyPart != nil {
		add("body_part = $%d", *f.BodyPart)
	}

	return strings.Join(preds, " AND "), args
}

func scanSymptoms(rows pgx.Rows) ([]types.Symptom, error) {
	symptoms := make([]types.Symptom, 0)
	for rows.Next() {
		var s types.Symptom
		if err := rows.Scan(&s.ID, &s.UserID, &s.SymptomType, &s.BodyPart, &s.OccurredAt, &s.Notes, &s.CreatedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan symptom row", err)
		}
		symptoms = append(symptoms, s)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to read symptom rows", err)
	}
	return symptoms, nil
}
