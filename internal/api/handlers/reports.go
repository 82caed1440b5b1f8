package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"symptomlog/internal/core"
	"symptomlog/internal/types"
)

// ReportServiceInterface defines the service contract for the report handler.
type ReportServiceInterface interface {
	Generate(ctx context.Context, ownerID string, kind types.PeriodKind) (*types.Report, error)
	Get(ctx context.Context, id, ownerID string) (*types.Report, error)
	Delete(ctx context.Context, id, ownerID string) error
	List(ctx context.Context, ownerID string, offset, limit int) ([]types.Report, int, error)
}

// ReportHandler maps HTTP requests to report service methods.
type ReportHandler struct {
	service   ReportServiceInterface
	validator *core.Validator
	logger    *slog.Logger
}

// NewReportHandler creates a new ReportHandler with the provided
// dependencies.
func NewReportHandler(svc ReportServiceInterface, val *core.Validator, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:   svc,
		validator: val,
		logger:    logger,
	}
}

// RegisterRoutes mounts the report endpoints onto the mux. All routes assume
// the authentication middleware is already applied.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.HandleGenerate)
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Delete("/{id}", h.HandleDelete)
}

// GenerateReportRequest is the request body for generating a report.
type GenerateReportRequest struct {
	PeriodType string `json:"period_type" validate:"required"`
}

// HandleGenerate handles POST /v1/reports. The response status reflects the
// pipeline outcome: 201 on success, 422 on an unrecognized period type, 424
// when too little data is recorded, 503/504 on upstream failures.
func (h *ReportHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	actor, ok := types.GetActor(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	var req GenerateReportRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}

	kind, ok := types.ParsePeriodKind(req.PeriodType)
	if !ok {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationPeriodKind,
			"period_type must be one of: week, month, quarter",
			nil,
		))
		return
	}

	report, err := h.service.Generate(r.Context(), actor.ID, kind)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: report})
}

// HandleList handles GET /v1/reports.
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := types.GetActor(r.Context())
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeAuthTokenMissing, "authentication required", nil))
		return
	}

	offset, limit, err := parsePage(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	reports, total, err := h.service.List(r.Context(), actor.ID, offset, limit)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: types.ListResponse[types.Report]{
		Data:     reports,
		PageInfo: types.NewPageInfo(offset, limit, total),
	}})
}

// HandleGet handles GET /v1/reports/{id}. A report that does not exist
// returns 404; one owned by another user returns 403.
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.service.Get(r.Context(), id, actor.ID)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: report})
}

// HandleDelete handles DELETE /v1/reports/{id}, with the same 404/403
// distinction as HandleGet.
func (h *ReportHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

// parsePage parses offset and limit query parameters with the shared
// defaults and bounds.
func parsePage(r *http.Request) (offset, limit int, err error) {
	offset = 0
	limit = defaultPageLimit
	q := r.URL.Query()

	if v := q.Get("offset"); v != "" {
		parsed, perr := strconv.Atoi(v)
		if perr != nil || parsed < 0 {
			return 0, 0, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"offset must be a non-negative integer",
				nil,
			)
		}
		offset = parsed
	}

	if v := q.Get("limit"); v != "" {
		parsed, perr := strconv.Atoi(v)
		if perr != nil || parsed < 1 || parsed > maxPageLimit {
			return 0, 0, types.NewAppError(
				types.ErrCodeValidationInvalidQuery,
				"limit must be between 1 and 100",
				nil,
			)
		}
		limit = parsed
	}

	return offset, limit, nil
}
