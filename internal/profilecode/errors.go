package profilecode

import "fmt"

// FormatError reports a profile code that does not have the expected
// shape: wrong length, wrong separator, unknown version, or a character
// outside the code alphabet. It is always surfaced, never defaulted.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("profilecode: malformed code: %s", e.Reason)
}

// EncodingError reports an attempt to encode a field value outside its
// declared range. The field name is included so callers can point at
// the offending input.
type EncodingError struct {
	Field string
	Value int
	Max   int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("profilecode: field %s value %d out of range [0,%d]", e.Field, e.Value, e.Max)
}
