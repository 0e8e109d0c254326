package settings

import "errors"

// Kinds of validation failure. Match them with errors.Is; the concrete error
// is always a *ValidationError.
var (
	// ErrSchema reports a parameter name outside the declared field set.
	ErrSchema = errors.New("unrecognized parameter")
	// ErrInvalidParameter reports a missing required field or a value of the
	// wrong type or range.
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrCredential       = errors.New("invalid Amazon Bedrock credentials")
	ErrUnsupportedMode  = errors.New("unsupported mode")
	ErrInvalidModel     = errors.New("invalid Amazon Bedrock model ID")
	ErrModelCapability  = errors.New("model does not support the mode")
	// ErrConflictingParameters reports mutually exclusive parameters set
	// together, or none of them set.
	ErrConflictingParameters = errors.New("conflicting parameters")
	// ErrDependentParameter reports a parameter given without the one it depends on.
	ErrDependentParameter = errors.New("dependent parameter missing")
)

// ValidationError is returned by every validator in this package. Message is
// meant to be shown to the end user as is.
type ValidationError struct {
	Kind    error
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the error against its kind.
func (e *ValidationError) Is(target error) bool {
	return target == e.Kind
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newError(kind error, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}
