package config

import "errors"

var (
	errEmptyRoot         = errors.New("project root cannot be empty")
	errNegativeDebounce   = errors.New("performance.debounce_ms cannot be negative")
	errNegativeWorkers    = errors.New("performance.parallel_file_workers cannot be negative")
)
