package bedrock

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// APIError is a failure reported by the Bedrock service itself, as opposed to
// a transport or configuration problem on our side.
type APIError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bedrock: %s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("bedrock: %s: %s: %s", e.Op, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAPIError reports whether err carries a Bedrock service error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func wrapError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Op:      op,
			Code:    apiErr.ErrorCode(),
			Message: apiErr.ErrorMessage(),
			Err:     err,
		}
	}
	return fmt.Errorf("bedrock: %s: %w", op, err)
}
