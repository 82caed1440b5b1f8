package types

// SecretString holds a sensitive configuration value (database URL, API key).
// Its String and MarshalJSON implementations redact the value so secrets
// cannot leak through logs or serialized config dumps; callers must use
// Reveal explicitly to obtain the raw value.
type SecretString string

const redactedPlaceholder = "[REDACTED]"

// String implements fmt.Stringer with a redacted placeholder.
func (s SecretString) String() string {
	if s == "" {
		return ""
	}
	return redactedPlaceholder
}

// MarshalJSON serializes the redacted placeholder, never the raw value.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redactedPlaceholder + `"`), nil
}

// Reveal returns the raw secret value.
func (s SecretString) Reveal() string {
	return string(s)
}
