package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"symptomlog/internal/core"
	"symptomlog/internal/types"
)

// Pagination bounds for symptom listing.
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// SymptomServiceInterface defines the service contract for the symptom
// handler.
type SymptomServiceInterface interface {
	Create(ctx context.Context, symptom *types.Symptom) error
	List(ctx context.Context, ownerID string, f types.SymptomFilter) ([]types.Symptom, int, error)
	Update(ctx context.Context, id, ownerID string, patch types.SymptomPatch) (*types.Symptom, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// SymptomHandler maps HTTP requests to symptom service methods.
type SymptomHandler struct {
	service   SymptomServiceInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewSymptomHandler creates a new SymptomHandler with the provided
// dependencies.
func NewSymptomHandler(svc SymptomServiceInterface, val *core.Validator, logger *slog.Logger) *SymptomHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SymptomHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the symptom endpoints onto the mux. All routes assume
// the authentication middleware is already applied.
func (h *SymptomHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
}

// CreateSymptomRequest is the request body for creating a symptom.
type CreateSymptomRequest struct {
	SymptomType types.SymptomType `json:"symptom_type" validate:"required"`
	BodyPart    types.BodyPart    `json:"body_part" validate:"required"`
	OccurredAt  time.Time         `json:"occurred_at" validate:"required"`
	Notes       *string           `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateSymptomRequest is the request body for partially updating a symptom.
// Absent fields are left unchanged.
type UpdateSymptomRequest struct {
	SymptomType *types.SymptomType `json:"symptom_type,omitempty"`
	BodyPart    *types.BodyPart    `json:"body_part,omitempty"`
	OccurredAt  *time.Time         `json:"occurred_at,omitempty"`
	Notes       *string            `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// HandleCreate handles POST /v1/symptoms.
func (h *SymptomHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := types.GetActor(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	var req CreateSymptomRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}
	if !req.SymptomType.Valid() {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidField,
			"symptom_type is not a recognized value",
			nil,
		))
		return
	}
	if !req.BodyPart.Valid() {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidField,
			"body_part is not a recognized value",
			nil,
		))
		return
	}

	symptom := &types.Symptom{
		UserID:      actor.ID,
		SymptomType: req.SymptomType,
		BodyPart:    req.BodyPart,
		OccurredAt:  req.OccurredAt,
		Notes:       req.Notes,
	}
	if err := h.service.Create(r.Context(), symptom); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: symptom})
}

// HandleList handles GET /v1/symptoms with optional filters and pagination.
//
// Query parameters:
//   - occurred_at_gte, occurred_at_lte: RFC 3339 bounds on occurrence time.
//   - symptom_type, body_part: exact-match enum filters.
//   - offset (>= 0, default 0), limit (1..100, default 20).
func (h *SymptomHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := types.GetActor(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	filter, err := parseSymptomFilter(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	symptoms, total, err := h.service.List(r.Context(), actor.ID, filter)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: types.ListResponse[types.Symptom]{
		Data:     symptoms,
		PageInfo: types.NewPageInfo(filter.Offset, filter.Limit, total),
	}})
}

// HandleUpdate handles PATCH /v1/symptoms/{id}.
func (h *SymptomHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := types.GetActor(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	id, err := pathID(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	var req UpdateSymptomRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}
	if req.SymptomType != nil && !req.SymptomType.Valid() {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidField,
			"symptom_type is not a recognized value",
			nil,
		))
		return
	}
	if req.BodyPart != nil && !req.BodyPart.Valid() {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationInvalidField,
			"body_part is not a recognized value",
			nil,
		))
		return
	}

	symptom, err := h.service.Update(r.Context(), id, actor.ID, types.SymptomPatch{
		SymptomType: req.SymptomType,
		BodyPart:    req.BodyPart,
		OccurredAt:  req.OccurredAt,
		Notes:       req.Notes,
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: symptom})
}

// HandleDelete handles DELETE /v1/symptoms/{id}.
func (h *SymptomHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := types.GetActor(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	id, err := pathID(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, actor.ID); err != nil {
		core.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID extracts and validates the {id} path parameter as a UUID.
func pathID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return "", types.NewAppError(
			types.ErrCodeValidationInvalidID,
			"id must be a valid UUID",
			nil,
		)
	}
	return id, nil
}

// parseSymptomFilter parses the list query parameters into a SymptomFilter.
func parseSymptomFilter(r *http.Request) (types.SymptomFilter, error) {
	q := r.URL.Query()

	filter := types.SymptomFilter{
		Offset: 0,
		Limit:  defaultPageLimit,
	}

	if v := q.Get("occurred_at_gte"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"occurred_at_gte must be a valid RFC3339 timestamp",
				nil,
			)
		}
		t := parsed.UTC()
		filter.OccurredAtGte = &t
	}

	if v := q.Get("occurred_at_lte"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"occurred_at_lte must be a valid RFC3339 timestamp",
				nil,
			)
		}
		t := parsed.UTC()
		filter.OccurredAtLte = &t
	}

	if v := q.Get("symptom_type"); v != "" {
		st := types.SymptomType(v)
		if !st.Valid() {
			return filter, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"symptom_type is not a recognized value",
				nil,
			)
		}
		filter.SymptomType = &st
	}

	if v := q.Get("body_part"); v != "" {
		bp := types.BodyPart(v)
		if !bp.Valid() {
			return filter, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"body_part is not a recognized value",
				nil,
			)
		}
		filter.BodyPart = &bp
	}

	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"offset must be a non-negative integer",
				nil,
			)
		}
		filter.Offset = offset
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return filter, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"limit must be between 1 and 100",
				nil,
			)
		}
		filter.Limit = limit
	}

	return filter, nil
}
