package shipping

import "github.com/dukerupert/law7a/internal/domain"

var (
	// ErrUnknownMethod is returned when a method code has no rate.
	ErrUnknownMethod = domain.ErrUnknownShipping

	// ErrNoRates is returned when a provider is configured without rates.
	ErrNoRates = &domain.Error{Code: domain.EUNAVAILABLE, Message: "No shipping rates available"}

	// ErrDuplicateMethod is returned when two flat rates share a method code.
	ErrDuplicateMethod = &domain.Error{Code: domain.EINVALID, Message: "Duplicate shipping method"}

	// ErrNegativeCost is returned for a flat rate below zero.
	ErrNegativeCost = &domain.Error{Code: domain.EINVALID, Message: "Shipping cost cannot be negative"}
)
