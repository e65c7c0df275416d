// Package validation holds the pure per-operation validators. Each one takes
// a decoded request payload and returns either a normalized typed value or a
// *ValidationError listing every violated constraint in field-declaration
// order; callers surface the first violation as the response message.
package validation

// FieldError is one violated constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every violated constraint of a payload.
type ValidationError struct {
	Violations []FieldError
}

// Error returns the first violated constraint, which is what the transport
// layer sends back.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid input"
	}
	return e.Violations[0].Message
}

// add appends a violation and returns the receiver for chaining.
func (e *ValidationError) add(field, message string) {
	e.Violations = append(e.Violations, FieldError{Field: field, Message: message})
}

// orNil returns nil when no constraint was violated, so callers can compare
// the result against nil directly.
func (e *ValidationError) orNil() *ValidationError {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
