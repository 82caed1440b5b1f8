package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"symptomlog/internal/types"
)

func TestComputeWindow_SpansPerKind(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		kind types.PeriodKind
		days int
	}{
		{types.PeriodWeek, 7},
		{types.PeriodMonth, 30},
		{types.PeriodQuarter, 90},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w := ComputeWindow(tt.kind, now)

			span := time.Duration(tt.days) * 24 * time.Hour
			assert.Equal(t, now, w.CurrentEnd)
			assert.Equal(t, now.Add(-span), w.CurrentStart)
			assert.Equal(t, span, w.CurrentEnd.Sub(w.CurrentStart))
			assert.Equal(t, span, w.PreviousEnd.Sub(w.PreviousStart))
		})
	}
}

func TestComputeWindow_PeriodsAreAdjacent(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, kind := range []types.PeriodKind{types.PeriodWeek, types.PeriodMonth, types.PeriodQuarter} {
		t.Run(string(kind), func(t *testing.T) {
			w := ComputeWindow(kind, now)

			// The previous period ends exactly one millisecond before the
			// current one starts: no overlap, no gap beyond that.
			assert.Equal(t, w.CurrentStart.Add(-time.Millisecond), w.PreviousEnd)
			assert.True(t, w.PreviousEnd.Before(w.CurrentStart))
			assert.True(t, w.PreviousStart.Before(w.PreviousEnd))
		})
	}
}

func TestComputeWindow_Deterministic(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	a := ComputeWindow(types.PeriodMonth, now)
	b := ComputeWindow(types.PeriodMonth, now)

	assert.Equal(t, a, b)
}
