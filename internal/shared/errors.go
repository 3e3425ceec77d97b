package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Upstream catalog errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrUpstreamStatus     = fmt.Errorf("unexpected upstream status")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrNotFound           = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidAction   = fmt.Errorf("invalid action")
	ErrInvalidID       = fmt.Errorf("invalid id")
	ErrInvalidKind     = fmt.Errorf("invalid kind")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
