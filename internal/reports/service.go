package reports

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"symptomlog/internal/types"
)

// MinSymptomsRequired is the minimum number of symptoms in the current period
// for report generation to proceed.
const MinSymptomsRequired = 3

// SymptomReader supplies the symptom history the report draws on.
type SymptomReader interface {
	ListByOccurredRange(ctx context.Context, ownerID string, start, end time.Time) ([]types.Symptom, error)
}

// ReportStore persists and retrieves generated reports.
type ReportStore interface {
	Insert(ctx context.Context, report *types.Report) error
	GetByID(ctx context.Context, id, ownerID string) (*types.Report, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id, ownerID string) error
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]types.Report, int, error)
}

// Generator produces report text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service orchestrates the report generation pipeline and the read and
// delete operations on stored reports.
type Service struct {
	symptoms  SymptomReader
	store     ReportStore
	generator Generator
	clock     types.Clock
	logger    *slog.Logger
}

// ServiceConfig holds the dependencies for creating a report Service.
type ServiceConfig struct {
	Symptoms  SymptomReader
	Store     ReportStore
	Generator Generator
	Clock     types.Clock
	Logger    *slog.Logger
}

// NewService creates a report Service. Clock defaults to the real clock,
// Logger to slog.Default.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		symptoms:  cfg.Symptoms,
		store:     cfg.Store,
		generator: cfg.Generator,
		clock:     clock,
		logger:    logger,
	}
}

// Generate runs the full pipeline for the owner and period kind:
//
//  1. Compute the current and previous period windows from the clock.
//  2. Fetch symptoms for both windows concurrently.
//  3. Require at least MinSymptomsRequired symptoms in the current period;
//     below that threshold no prompt is built and no generation is attempted.
//  4. Build the prompt and call the generator once. Generator failures
//     propagate to the caller unchanged; nothing is persisted.
//  5. Persist the report and return it.
func (s *Service) Generate(ctx context.Context, ownerID string, kind types.PeriodKind) (*types.Report, error) {
	window := ComputeWindow(kind, s.clock.Now())

	var current, previous []types.Symptom
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.symptoms.ListByOccurredRange(gctx, ownerID, window.CurrentStart, window.CurrentEnd)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.symptoms.ListByOccurredRange(gctx, ownerID, window.PreviousStart, window.PreviousEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(current) < MinSymptomsRequired {
		return nil, types.NewAppErrorWithDetails(
			types.ErrCodeReportInsufficientData,
			"not enough symptoms recorded in the current period to generate a report",
			nil,
			map[string]any{
				"symptom_count": len(current),
				"required":      MinSymptomsRequired,
			},
		)
	}

	prompt := BuildPrompt(kind, window, current, previous)

	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	report := &types.Report{
		UserID:      ownerID,
		Content:     content,
		PeriodType:  kind,
		PeriodStart: window.CurrentStart,
		PeriodEnd:   window.CurrentEnd,
	}
	if err := s.store.Insert(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("report generated",
		"report_id", report.ID,
		"user_id", ownerID,
		"period_type", kind,
		"current_symptoms", len(current),
		"previous_symptoms", len(previous),
	)
	return report, nil
}

// Get returns the owner's report by id. A report that does not exist at all
// yields a not-found error; one that exists but belongs to another user
// yields an ownership error. The two checks are separate queries so the
// distinction survives the repo's owner-scoped reads.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*types.Report, error) {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NewAppError(types.ErrCodeNotFoundReport, "report not found", nil)
	}

	report, err := s.store.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, types.NewAppError(types.ErrCodePermissionNotOwner, "report belongs to another user", nil)
	}

	return report, nil
}

// Delete removes the owner's report by id, with the same not-found versus
// not-owner distinction as Get.
func (s *Service) Delete(ctx context.Context, id, ownerID string) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return types.NewAppError(types.ErrCodeNotFoundReport, "report not found", nil)
	}

	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) && appErr.Code == types.ErrCodeNotFoundReport {
			// The report exists but the owner-scoped delete matched nothing.
			return types.NewAppError(types.ErrCodePermissionNotOwner, "report belongs to another user", nil)
		}
		return err
	}

	s.logger.Info("report deleted", "report_id", id, "user_id", ownerID)
	return nil
}

// List returns one page of the owner's reports, newest first, with the total
// count.
func (s *Service) List(ctx context.Context, ownerID string, offset, limit int) ([]types.Report, int, error) {
	return s.store.ListByOwner(ctx, ownerID, offset, limit)
}
