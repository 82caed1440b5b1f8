package types

// PeriodKind identifies the analysis window for a generated report.
type PeriodKind string

const (
	PeriodWeek    PeriodKind = "week"
	PeriodMonth   PeriodKind = "month"
	PeriodQuarter PeriodKind = "quarter"
)

// SpanDays returns the number of days covered by one window of this kind.
func (k PeriodKind) SpanDays() int {
	switch k {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	default:
		return 0
	}
}

// ParsePeriodKind validates a raw string against the closed set of period
// kinds. Unknown kinds are rejected here, at the boundary; downstream code
// may assume a PeriodKind is always valid.
func ParsePeriodKind(s string) (PeriodKind, bool) {
	switch PeriodKind(s) {
	case PeriodWeek, PeriodMonth, PeriodQuarter:
		return PeriodKind(s), true
	default:
		return "", false
	}
}

// SymptomType categorizes a logged symptom event.
type SymptomType string

const (
	SymptomTingling   SymptomType = "tingling"
	SymptomNumbness   SymptomType = "numbness"
	SymptomCramps     SymptomType = "cramps"
	SymptomWeakness   SymptomType = "weakness"
	SymptomFatigue    SymptomType = "fatigue"
	SymptomVisionBlur SymptomType = "vision_blur"
)

// Valid reports whether the value is a member of the symptom type enum.
func (t SymptomType) Valid() bool {
	switch t {
	case SymptomTingling, SymptomNumbness, SymptomCramps,
		SymptomWeakness, SymptomFatigue, SymptomVisionBlur:
		return true
	default:
		return false
	}
}

// BodyPart identifies where on the body a symptom occurred.
type BodyPart string

const (
	BodyHead  BodyPart = "head"
	BodyNeck  BodyPart = "neck"
	BodyBack  BodyPart = "back"
	BodyArms  BodyPart = "arms"
	BodyHands BodyPart = "hands"
	BodyLegs  BodyPart = "legs"
)

// Valid reports whether the value is a member of the body part enum.
func (b BodyPart) Valid() bool {
	switch b {
	case BodyHead, BodyNeck, BodyBack, BodyArms, BodyHands, BodyLegs:
		return true
	default:
		return false
	}
}
