// Package reports implements health report generation: period window
// calculation, symptom collection, prompt construction, the call to the text
// generation service, and report persistence and retrieval.
package reports

import (
	"time"

	"symptomlog/internal/types"
)

// Window holds the two adjacent time ranges a report covers: the current
// period ending at the reference instant and the previous period of equal
// length immediately before it.
type Window struct {
	CurrentStart  time.Time
	CurrentEnd    time.Time
	PreviousStart time.Time
	PreviousEnd   time.Time
}

// ComputeWindow derives both period ranges from the period kind and a
// reference instant. The current period spans [now - span, now]; the previous
// period ends one millisecond before the current one starts and spans the
// same length. The two ranges never overlap and have no gap larger than that
// millisecond.
//
// The computation is pure: equal inputs always produce equal windows.
func ComputeWindow(kind types.PeriodKind, now time.Time) Window {
	span := time.Duration(kind.SpanDays()) * 24 * time.Hour

	currentEnd := now
	currentStart := now.Add(-span)
	previousEnd := currentStart.Add(-time.Millisecond)
	previousStart := previousEnd.Add(-span)

	return Window{
		CurrentStart:  currentStart,
		CurrentEnd:    currentEnd,
		PreviousStart: previousStart,
		PreviousEnd:   previousEnd,
	}
}
