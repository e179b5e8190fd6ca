package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Pipeline errors (fatal to a run)
	ErrUnmappedGenre = fmt.Errorf("no genre mapped for day")
	ErrFetch         = fmt.Errorf("fetch failed")
	ErrSchema        = fmt.Errorf("unexpected response schema")
	ErrHistory       = fmt.Errorf("history store failure")

	// Per-track errors (recorded and skipped)
	ErrNoResults = fmt.Errorf("no lookup results")
	ErrDownload  = fmt.Errorf("download failed")

	// API and service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrInvalidFlag  = fmt.Errorf("invalid flag value")
)
