package symptoms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"symptomlog/internal/types"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, s *types.Symptom) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStore) List(ctx context.Context, ownerID string, f types.SymptomFilter) ([]types.Symptom, int, error) {
	args := m.Called(ctx, ownerID, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.Symptom), args.Int(1), args.Error(2)
}

func (m *mockStore) Update(ctx context.Context, id, ownerID string, patch types.SymptomPatch) (*types.Symptom, error) {
	args := m.Called(ctx, id, ownerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Symptom), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func TestCreate_DelegatesToStore(t *testing.T) {
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*types.Symptom")).Return(nil)

	svc := NewService(store, nil)

	symptom := &types.Symptom{
		UserID:      "user-1",
		SymptomType: types.SymptomTingling,
		BodyPart:    types.BodyHands,
		OccurredAt:  time.Now().UTC(),
	}
	require.NoError(t, svc.Create(context.Background(), symptom))
	store.AssertExpectations(t)
}

func TestCreate_PropagatesStoreError(t *testing.T) {
	storeErr := types.NewAppError(types.ErrCodeInternalDB, "failed to create symptom", nil)
	store := new(mockStore)
	store.On("Create", mock.Anything, mock.Anything).Return(storeErr)

	svc := NewService(store, nil)

	err := svc.Create(context.Background(), &types.Symptom{UserID: "user-1"})
	assert.Same(t, error(storeErr), err)
}

func TestList_PassesFilterThrough(t *testing.T) {
	gte := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	filter := types.SymptomFilter{OccurredAtGte: &gte, Offset: 10, Limit: 5}

	store := new(mockStore)
	store.On("List", mock.Anything, "user-1", filter).
		Return([]types.Symptom{{ID: "s1"}}, 11, nil)

	svc := NewService(store, nil)

	symptoms, total, err := svc.List(context.Background(), "user-1", filter)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, symptoms, 1)
	assert.Equal(t, "s1", symptoms[0].ID)
}

func TestUpdate_ReturnsUpdatedRecord(t *testing.T) {
	st := types.SymptomCramps
	updated := &types.Symptom{ID: "s1", UserID: "user-1", SymptomType: st}

	store := new(mockStore)
	store.On("Update", mock.Anything, "s1", "user-1", types.SymptomPatch{SymptomType: &st}).
		Return(updated, nil)

	svc := NewService(store, nil)

	got, err := svc.Update(context.Background(), "s1", "user-1", types.SymptomPatch{SymptomType: &st})
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestDelete_PropagatesNotFound(t *testing.T) {
	store := new(mockStore)
	store.On("Delete", mock.Anything, "s1", "user-1").
		Return(types.NewAppError(types.ErrCodeNotFoundSymptom, "symptom not found", nil))

	svc := NewService(store, nil)

	err := svc.Delete(context.Background(), "s1", "user-1")
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeNotFoundSymptom, appErr.Code)
}
