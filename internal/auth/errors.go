package auth

import validation "github.com/go-ozzo/ozzo-validation"

// ValidationError reports credential input problems detected before any
// network call. Fields maps field name to the underlying rule failure.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "invalid credentials input: " + e.Fields.Error()
}

// validate bundles ozzo rule results into a *ValidationError, or nil when
// every field passed.
func validate(fields validation.Errors) error {
	if err := fields.Filter(); err != nil {
		return &ValidationError{Fields: err.(validation.Errors)}
	}
	return nil
}
