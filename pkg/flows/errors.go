package flows

import "errors"

// Error classes. Callers test for them with errors.Is; the wrapped message
// names the offending value.
var (
	// ErrConfig marks a fatal configuration problem detected while building
	// the component graph, before any time step is evaluated.
	ErrConfig = errors.New("configuration error")

	// ErrFile marks a missing or unreadable data file.
	ErrFile = errors.New("data file not found")

	// ErrData marks a data file that is present but malformed.
	ErrData = errors.New("data in file caused an error")
)
