package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrImportInProgress is returned when an import is requested while another one runs
	ErrImportInProgress = errors.New("order import already in progress")

	// ErrImportTimeout is recorded on jobs that exceeded the job timeout
	ErrImportTimeout = errors.New("order import timed out")

	// ErrJobNotFound is returned when a job is not in the history
	ErrJobNotFound = errors.New("job not found")
)
