package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing embed API key")

	// Library errors
	ErrNotADirectory = fmt.Errorf("not a directory")
	ErrItemNotFound  = fmt.Errorf("item not found")
	ErrFileNotFound  = fmt.Errorf("beatmap file not found")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrUserNotFound       = fmt.Errorf("osu! user not found")
	ErrProbeFailed        = fmt.Errorf("audio probe failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
