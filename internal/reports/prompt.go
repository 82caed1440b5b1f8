package reports

import (
	"fmt"
	"strings"
	"time"

	"symptomlog/internal/types"
)

// MaxPromptSymptoms caps how many symptom entries from each period are
// rendered into the prompt. Counts always reflect the full pre-cap totals.
const MaxPromptSymptoms = 100

// maxNoteChars caps how much of a free-text note is rendered per entry.
const maxNoteChars = 200

// BuildPrompt renders the two symptom sets into the analysis prompt sent to
// the text generation service. The function is pure: identical inputs produce
// an identical string, so prompts are reproducible for debugging.
func BuildPrompt(kind types.PeriodKind, w Window, current, previous []types.Symptom) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the following symptom log for a %s report.\n\n", kind)

	fmt.Fprintf(&b, "Current period (%s to %s): %d symptom(s) recorded",
		formatStamp(w.CurrentStart), formatStamp(w.CurrentEnd), len(current))
	writePeriodEntries(&b, current)

	fmt.Fprintf(&b, "\nPrevious period (%s to %s): %d symptom(s) recorded",
		formatStamp(w.PreviousStart), formatStamp(w.PreviousEnd), len(previous))
	writePeriodEntries(&b, previous)

	b.WriteString("\nProduce a report in Markdown covering:\n")
	b.WriteString("1. Summary of the current period\n")
	b.WriteString("2. Comparison with the previous period\n")
	b.WriteString("3. Trend analysis\n")
	b.WriteString("4. Newly appearing symptom types absent in the previous period\n")
	b.WriteString("5. Numeric statistics: symptom counts for both periods and percentage changes\n")

	return b.String()
}

// writePeriodEntries appends one line per symptom, capped at
// MaxPromptSymptoms. When the cap truncates the list, a marker after the
// entries notes how many of the total are shown.
func writePeriodEntries(b *strings.Builder, symptoms []types.Symptom) {
	b.WriteString("\n")

	shown := symptoms
	if len(shown) > MaxPromptSymptoms {
		shown = shown[:MaxPromptSymptoms]
	}

	for _, s := range shown {
		fmt.Fprintf(b, "- %s: %s in %s", formatStamp(s.OccurredAt), s.SymptomType, s.BodyPart)
		if s.Notes != nil && *s.Notes != "" {
			fmt.Fprintf(b, " (notes: %s)", truncateNote(*s.Notes))
		}
		b.WriteString("\n")
	}

	if len(symptoms) > MaxPromptSymptoms {
		fmt.Fprintf(b, "(%d of %d shown)\n", MaxPromptSymptoms, len(symptoms))
	}
}

// truncateNote limits a note to maxNoteChars characters, counting runes so a
// multi-byte character is never split.
func truncateNote(note string) string {
	runes := []rune(note)
	if len(runes) <= maxNoteChars {
		return note
	}
	return string(runes[:maxNoteChars])
}

// formatStamp renders timestamps in UTC RFC 3339 so prompt output does not
// depend on the server's local zone.
func formatStamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
