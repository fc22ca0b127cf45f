package billing

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSuccessRate is the share of simulated authorizations that succeed.
const DefaultSuccessRate = 0.9

// Simulated approves a fixed share of charges at random. It never contacts a
// payment network.
type Simulated struct {
	rate float64

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSimulated creates a Simulated authorizer approving rate of attempts.
func NewSimulated(rate float64) (*Simulated, error) {
	if rate < 0 || rate > 1 {
		return nil, ErrInvalidRate
	}
	return &Simulated{
		rate: rate,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:  time.Now,
	}, nil
}

// NewSimulatedWithSeed creates a deterministic Simulated authorizer.
func NewSimulatedWithSeed(rate float64, seed1, seed2 uint64) (*Simulated, error) {
	s, err := NewSimulated(rate)
	if err != nil {
		return nil, err
	}
	s.rng = rand.New(rand.NewPCG(seed1, seed2))
	return s, nil
}

// Compile-time check to ensure Simulated implements Authorizer.
var _ Authorizer = (*Simulated)(nil)

// Authorize draws the outcome. It honours ctx cancellation before drawing.
func (s *Simulated) Authorize(ctx context.Context, params AuthorizeParams) (*Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	s.mu.Lock()
	draw := s.rng.Float64()
	s.mu.Unlock()

	if draw >= s.rate {
		return nil, &DeclineError{
			Message:     "card declined",
			DeclineCode: "simulated_decline",
			Reference:   params.Reference,
		}
	}

	return &Authorization{
		ID:           "auth_" + uuid.NewString(),
		Amount:       params.Amount,
		Currency:     params.Currency,
		Last4:        params.Card.Last4(),
		AuthorizedAt: s.now().UTC(),
	}, nil
}
