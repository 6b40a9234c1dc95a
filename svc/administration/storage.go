package administration

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrymomot/servicebond/pkg/revision"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ListOptions narrows and pages a listing. Ordering names a sortable field,
// prefixed with "-" for descending order; unknown fields fall back to id.
type ListOptions struct {
	Search   string `query:"search"`
	Ordering string `query:"ordering"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// Page is one slice of a listing and the total number of matches.
type Page[T any] struct {
	Items []T
	Count int
}

func (o ListOptions) normalized() ListOptions {
	o.Search = strings.TrimSpace(o.Search)
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	o.Limit = min(o.Limit, MaxLimit)
	o.Offset = max(o.Offset, 0)
	return o
}

// order returns the column to sort by and its direction.
func (o ListOptions) order(allowed []string) (field string, desc bool) {
	field, desc = strings.CutPrefix(o.Ordering, "-")
	if !slices.Contains(allowed, field) {
		return "id", false
	}
	return field, desc
}

// UserFilter lists users, optionally only those of one shop.
type UserFilter struct {
	ListOptions
	ShopID *int64
}

type RevisionFilter struct {
	TenantID *int64 `query:"tenant"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

var (
	shopSearchFields     = []string{"name", "title", "email", "phone_number", "street_address", "city", "state", "zipcode"}
	shopOrderFields      = []string{"id", "name", "title", "email", "phone_number", "country", "city", "state", "zipcode"}
	userSearchFields     = []string{"username", "email", "first_name", "last_name"}
	userOrderFields      = []string{"id", "username", "email", "first_name", "last_name", "date_joined"}
	customerSearchFields = []string{"first_name", "last_name", "street_address", "phone_number", "city", "state", "zipcode"}
	customerOrderFields  = []string{"id", "first_name", "last_name", "city", "state", "zipcode"}
)

// Storage persists the administration domain.
//
// Shop and user operations are unscoped. Customer operations are scoped to
// the tenant in ctx and fail with tenant.ErrNoTenantInContext without one.
// Not-found lookups return ErrShopNotFound, ErrUserNotFound or
// ErrCustomerNotFound, unique violations ErrDuplicate.
type Storage interface {
	CreateShop(ctx context.Context, shop *Shop) error
	UpdateShop(ctx context.Context, shop *Shop) error
	GetShop(ctx context.Context, id int64) (*Shop, error)
	ListShops(ctx context.Context, opts ListOptions) (Page[*Shop], error)

	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, filter UserFilter) (Page[*User], error)

	CreateCustomer(ctx context.Context, customer *Customer) error
	UpdateCustomer(ctx context.Context, customer *Customer) error
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context, opts ListOptions) (Page[*Customer], error)

	revision.Store
	ListRevisions(ctx context.Context, filter RevisionFilter) (Page[*revision.Revision], error)
}
