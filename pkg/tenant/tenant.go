package tenant

import (
	"context"
	"strconv"
)

// Tenant is the request-scoped view of a shop: enough to scope queries,
// build tenant URLs and label log records. Handlers that need the full
// shop record load it by ID.
type Tenant struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Key returns the canonical path segment for the tenant ID.
func (t *Tenant) Key() string {
	if t == nil {
		return ""
	}
	return strconv.FormatInt(t.ID, 10)
}

// Provider loads tenant records from the backing store.
//
// GetByID must bypass any tenant scoping: it is called while resolving the
// tenant itself, before a tenant is present in the context.
// Returns ErrTenantNotFound if no tenant has the given ID.
type Provider interface {
	GetByID(ctx context.Context, id int64) (*Tenant, error)
}

// ProviderFunc is an adapter to allow the use of ordinary functions as Providers.
type ProviderFunc func(ctx context.Context, id int64) (*Tenant, error)

// GetByID calls f(ctx, id).
func (f ProviderFunc) GetByID(ctx context.Context, id int64) (*Tenant, error) {
	return f(ctx, id)
}
