package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockAuthorizer is a mock Authorizer for testing.
// Approves every charge unless AuthorizeFunc says otherwise.
type MockAuthorizer struct {
	// AuthorizeFunc allows customizing authorization behavior
	AuthorizeFunc func(ctx context.Context, params AuthorizeParams) (*Authorization, error)

	mu sync.Mutex

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockAuthorizer creates a new mock authorizer.
func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{CallLog: []string{}}
}

// Authorize records the call and returns an approval by default.
func (m *MockAuthorizer) Authorize(ctx context.Context, params AuthorizeParams) (*Authorization, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("Authorize(%s, %s)", params.Amount.StringFixed(2), params.Currency))
	m.mu.Unlock()

	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, params)
	}

	return &Authorization{
		ID:           "auth_" + uuid.New().String(),
		Amount:       params.Amount,
		Currency:     params.Currency,
		Last4:        params.Card.Last4(),
		AuthorizedAt: time.Now().UTC(),
	}, nil
}

// Calls returns a copy of the call log.
func (m *MockAuthorizer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.CallLog...)
}

// Decline returns an AuthorizeFunc that declines every charge.
func Decline(code string) func(ctx context.Context, params AuthorizeParams) (*Authorization, error) {
	return func(ctx context.Context, params AuthorizeParams) (*Authorization, error) {
		return nil, &DeclineError{Message: "card declined", DeclineCode: code, Reference: params.Reference}
	}
}
