// internal/types/errors.go
package types

import (
	"errors"
	"fmt"
)

// ErrNoSession reports an exchange or recording webhook for a call that has
// no open session. It ends that call with an apology but never crashes the
// process.
var ErrNoSession = errors.New("no session for call")

// CapabilityError wraps a failure from an external capability (classifier,
// reply generation, transcription, notification). The orchestrator always
// recovers from it locally with a substitute value.
type CapabilityError struct {
	Capability string
	Err        error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("capability %s: %v", e.Capability, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
