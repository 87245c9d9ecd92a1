package orchestrator

import (
	"fmt"
	"strings"

	"chat-export-go/internal/platform"
)

// AttemptFailure records why one strategy failed during a request.
type AttemptFailure struct {
	Strategy string
	Reason   string
}

// AllStrategiesFailed is the terminal failure after every strategy for a
// platform has been attempted without a validated conversation. Error()
// stays user-actionable; Details() carries per-strategy diagnostics for
// operators.
type AllStrategiesFailed struct {
	Platform platform.Platform
	Attempts []AttemptFailure
}

func (e *AllStrategiesFailed) Error() string {
	return "could not extract conversation; the page may be private or its structure has changed"
}

// Details returns the ordered per-strategy failure reasons.
func (e *AllStrategiesFailed) Details() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Strategy, a.Reason))
	}
	return strings.Join(parts, "; ")
}
