// Package symptoms implements the symptom logging domain: creating, listing,
// updating, and deleting a user's symptom records.
package symptoms

import (
	"context"
	"log/slog"

	"symptomlog/internal/types"
)

// Store defines the symptom persistence methods the service needs.
type Store interface {
	Create(ctx context.Context, s *types.Symptom) error
	List(ctx context.Context, ownerID string, f types.SymptomFilter) ([]types.Symptom, int, error)
	Update(ctx context.Context, id, ownerID string, patch types.SymptomPatch) (*types.Symptom, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// Service implements symptom CRUD on top of the store. Ownership is enforced
// by the store's owner-scoped queries; the service never fetches across
// users.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a symptom Service. Logger defaults to slog.Default.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Create records a new symptom for the owner.
func (s *Service) Create(ctx context.Context, symptom *types.Symptom) error {
	if err := s.store.Create(ctx, symptom); err != nil {
		return err
	}
	s.logger.Info("symptom created",
		"symptom_id", symptom.ID,
		"user_id", symptom.UserID,
		"symptom_type", symptom.SymptomType,
	)
	return nil
}

// List returns one page of the owner's symptoms matching the filter together
// with the total matching count.
func (s *Service) List(ctx context.Context, ownerID string, f types.SymptomFilter) ([]types.Symptom, int, error) {
	return s.store.List(ctx, ownerID, f)
}

// Update applies a partial update to the owner's symptom and returns the
// updated record.
func (s *Service) Update(ctx context.Context, id, ownerID string, patch types.SymptomPatch) (*types.Symptom, error) {
	symptom, err := s.store.Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("symptom updated", "symptom_id", id, "user_id", ownerID)
	return symptom, nil
}

// Delete removes the owner's symptom.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	s.logger.Info("symptom deleted", "symptom_id", id, "user_id", ownerID)
	return nil
}
