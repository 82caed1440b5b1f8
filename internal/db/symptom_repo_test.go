package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"symptomlog/internal/types"
)

// --- Mock DBTX ---

type mockDBTX struct {
	mock.Mock
}

func (m *mockDBTX) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *mockDBTX) Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql, arguments)
	if r := args.Get(0); r != nil {
		return r.(pgx.Rows), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDBTX) QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row {
	args := m.Called(ctx, sql, arguments)
	return args.Get(0).(pgx.Row)
}

// --- Mock Row ---

type mockRow struct {
	scanErr error
	scanFn  func(dest ...any) error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.scanFn != nil {
		return r.scanFn(dest...)
	}
	return r.scanErr
}

// --- Mock Rows ---

// mockRows implements pgx.Rows over a sequence of scan functions, one per row.
type mockRows struct {
	scanFns []func(dest ...any) error
	idx     int
	err     error
}

func (r *mockRows) Next() bool {
	if r.idx >= len(r.scanFns) {
		return false
	}
	r.idx++
	return true
}

func (r *mockRows) Scan(dest ...any) error {
	return r.scanFns[r.idx-1](dest...)
}

func (r *mockRows) Close()                                       {}
func (r *mockRows) Err() error                                   { return r.err }
func (r *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *mockRows) Values() ([]any, error)                       { return nil, nil }
func (r *mockRows) RawValues() [][]byte                          { return nil }
func (r *mockRows) Conn() *pgx.Conn                              { return nil }

// symptomScanFn builds a scan function matching the symptomColumns order.
func symptomScanFn(s types.Symptom) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*string) = s.ID
		*dest[1].(*string) = s.UserID
		*dest[2].(*types.SymptomType) = s.SymptomType
		*dest[3].(*types.BodyPart) = s.BodyPart
		*dest[4].(*time.Time) = s.OccurredAt
		*dest[5].(**string) = s.Notes
		*dest[6].(*time.Time) = s.CreatedAt
		return nil
	}
}

// --- SymptomRepo Tests ---

func TestSymptomRepo_Create_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	now := time.Now().UTC()
	row := &mockRow{
		scanFn: func(dest ...any) error {
			*dest[0].(*time.Time) = now
			return nil
		},
	}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(row)

	symptom := &types.Symptom{
		UserID:      "user_1",
		SymptomType: types.SymptomTingling,
		BodyPart:    types.BodyHands,
		OccurredAt:  now.Add(-time.Hour),
	}

	err := repo.Create(context.Background(), symptom)
	require.NoError(t, err)
	assert.NotEmpty(t, symptom.ID)
	assert.Equal(t, now, symptom.CreatedAt)
}

func TestSymptomRepo_Create_DBError(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	row := &mockRow{scanErr: errors.New("connection refused")}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(row)

	err := repo.Create(context.Background(), &types.Symptom{UserID: "user_1"})
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestSymptomRepo_List_FilterPredicates(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	gte := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	st := types.SymptomFatigue
	filter := types.SymptomFilter{
		OccurredAtGte: &gte,
		SymptomType:   &st,
		Offset:        0,
		Limit:         20,
	}

	countRow := &mockRow{
		scanFn: func(dest ...any) error {
			*dest[0].(*int) = 2
			return nil
		},
	}
	db.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool {
		return true
	}), mock.MatchedBy(func(args []any) bool {
		// owner + gte + symptom_type
		return len(args) == 3 && args[0] == "user_1"
	})).Return(countRow)

	rows := &mockRows{scanFns: []func(dest ...any) error{
		symptomScanFn(types.Symptom{ID: "s1", UserID: "user_1", SymptomType: st, BodyPart: types.BodyLegs}),
		symptomScanFn(types.Symptom{ID: "s2", UserID: "user_1", SymptomType: st, BodyPart: types.BodyLegs}),
	}}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(args []any) bool {
		// owner + gte + symptom_type + limit + offset
		return len(args) == 5
	})).Return(rows, nil)

	symptoms, total, err := repo.List(context.Background(), "user_1", filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, symptoms, 2)
	assert.Equal(t, "s1", symptoms[0].ID)
}

func TestSymptomRepo_ListByOccurredRange(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	rows := &mockRows{scanFns: []func(dest ...any) error{
		symptomScanFn(types.Symptom{ID: "s1", UserID: "user_1"}),
	}}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"),
		[]any{"user_1", start, end}).Return(rows, nil)

	symptoms, err := repo.ListByOccurredRange(context.Background(), "user_1", start, end)
	require.NoError(t, err)
	require.Len(t, symptoms, 1)
	assert.Equal(t, "s1", symptoms[0].ID)
}

func TestSymptomRepo_Update_NotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	row := &mockRow{scanErr: pgx.ErrNoRows}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(row)

	st := types.SymptomCramps
	_, err := repo.Update(context.Background(), "sym_1", "user_1", types.SymptomPatch{SymptomType: &st})

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSymptom, appErr.Code)
}

func TestSymptomRepo_Update_AppliesOnlySetFields(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	updated := types.Symptom{
		ID:          "sym_1",
		UserID:      "user_1",
		SymptomType: types.SymptomCramps,
		BodyPart:    types.BodyLegs,
	}
	row := &mockRow{scanFn: symptomScanFn(updated)}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(args []any) bool {
		// one SET value + id + owner
		return len(args) == 3 && args[1] == "sym_1" && args[2] == "user_1"
	})).Return(row)

	st := types.SymptomCramps
	got, err := repo.Update(context.Background(), "sym_1", "user_1", types.SymptomPatch{SymptomType: &st})
	require.NoError(t, err)
	assert.Equal(t, types.SymptomCramps, got.SymptomType)
}

func TestSymptomRepo_Delete_Success(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), []any{"sym_1", "user_1"}).
		Return(pgconn.NewCommandTag("DELETE 1"), nil)

	require.NoError(t, repo.Delete(context.Background(), "sym_1", "user_1"))
}

func TestSymptomRepo_Delete_NotOwnedLooksNotFound(t *testing.T) {
	db := new(mockDBTX)
	repo := NewSymptomRepo(db, nil)

	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), []any{"sym_1", "other_user"}).
		Return(pgconn.NewCommandTag("DELETE 0"), nil)

	err := repo.Delete(context.Background(), "sym_1", "other_user")

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSymptom, appErr.Code)
}

func TestBuildSymptomPredicates_AllFilters(t *testing.T) {
	gte := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lte := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	st := types.SymptomNumbness
	bp := types.BodyNeck

	where, args := buildSymptomPredicates("user_1", types.SymptomFilter{
		OccurredAtGte: &gte,
		OccurredAtLte: &lte,
		SymptomType:   &st,
		BodyPart:      &bp,
	})

	assert.Equal(t, "user_id = $1 AND occurred_at >= $2 AND occurred_at <= $3 AND symptom_type = $4 AND body_part = $5", where)
	assert.Equal(t, []any{"user_1", gte, lte, st, bp}, args)
}

func TestBuildSymptomPredicates_OwnerOnly(t *testing.T) {
	where, args := buildSymptomPredicates("user_1", types.SymptomFilter{})

	assert.Equal(t, "user_id = $1", where)
	assert.Equal(t, []any{"user_1"}, args)
}
