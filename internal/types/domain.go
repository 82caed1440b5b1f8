package types

import "time"

// User is an account that owns symptom records and reports.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a server-side login session. Only the SHA-256 hash of the raw
// bearer token is stored; the raw token is returned to the client once at
// login and never persisted.
type Session struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Symptom is an immutable fact logged by a user: what happened, where on the
// body, and when. The occurrence timestamp is caller-supplied and is not
// validated for plausibility beyond being a valid timestamp.
type Symptom struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	SymptomType SymptomType `json:"symptom_type"`
	BodyPart    BodyPart    `json:"body_part"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Notes       *string     `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Report is a persisted AI-generated narrative comparing symptom activity in
// the current window against the previous one. It is a point-in-time snapshot:
// it holds no references to the symptoms it summarizes, so later symptom edits
// or deletions never change an existing report.
type Report struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Content     string     `json:"content"`
	PeriodType  PeriodKind `json:"period_type"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SymptomFilter holds the optional predicates and pagination bounds for
// listing a user's symptoms. Nil fields mean "no constraint".
type SymptomFilter struct {
	OccurredAtGte *time.Time
	OccurredAtLte *time.Time
	SymptomType   *SymptomType
	BodyPart      *BodyPart
	Offset        int
	Limit         int
}

// SymptomPatch holds the optional fields of a partial symptom update.
// Nil fields are left unchanged.
type SymptomPatch struct {
	SymptomType *SymptomType
	BodyPart    *BodyPart
	OccurredAt  *time.Time
	Notes       *string
}
