package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when the amount is zero or negative.
	ErrInvalidAmount = errors.New("billing: amount must be positive")

	// ErrInvalidRate is returned when a simulated success rate is outside [0, 1].
	ErrInvalidRate = errors.New("billing: success rate must be between 0 and 1")
)

// DeclineError reports a declined card.
type DeclineError struct {
	Message     string // Human-readable reason
	DeclineCode string // Issuer reason (e.g., "insufficient_funds")
	Reference   string // Checkout reference the attempt belonged to
}

func (e *DeclineError) Error() string {
	if e.DeclineCode != "" {
		return fmt.Sprintf("billing: %s (decline_code: %s)", e.Message, e.DeclineCode)
	}
	return fmt.Sprintf("billing: %s", e.Message)
}

// IsDeclined returns true if err is, or wraps, a card decline.
func IsDeclined(err error) bool {
	var decline *DeclineError
	return errors.As(err, &decline)
}
