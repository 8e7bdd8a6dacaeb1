package ollama

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks transport-level failures: the server could not be
// reached, or the connection died mid-call. The session stays usable;
// the caller decides whether to retry.
var ErrUnavailable = errors.New("ollama unavailable")

// ErrProtocol marks responses the server did deliver but that do not
// match the expected shape or status.
var ErrProtocol = errors.New("ollama protocol error")

// UnknownModelError is returned when a requested model is not installed,
// even after the ":latest" suffix retry.
type UnknownModelError struct {
	Requested string
	Available []string
}

func (e *UnknownModelError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown model %q (no models installed)", e.Requested)
	}
	return fmt.Sprintf("unknown model %q (installed: %s)", e.Requested, strings.Join(e.Available, ", "))
}
