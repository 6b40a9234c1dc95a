package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when a tenant cannot be resolved.
	// Malformed identifiers are reported with this error too.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidIdentifier marks an identifier that is not a canonical positive integer.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")

	// ErrNoTenantInContext is returned by tenant-scoped operations run without a tenant.
	ErrNoTenantInContext = errors.New("no tenant in context")
)
