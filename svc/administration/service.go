package administration

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/servicebond/pkg/revision"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/pkg/validator"
)

// Object types recorded in revisions.
const (
	ObjectShop     = "shop"
	ObjectUser     = "user"
	ObjectCustomer = "customer"
)

// Service implements the administration use cases on top of a Storage.
type Service struct {
	store        Storage
	log          *slog.Logger
	onShopChange func(ctx context.Context, id int64)
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithShopChangeHook registers fn to run after a shop is saved, e.g. to drop
// the cached tenant and routing table of that shop.
func WithShopChangeHook(fn func(ctx context.Context, id int64)) Option {
	return func(s *Service) {
		s.onShopChange = fn
	}
}

func NewService(store Storage, opts ...Option) *Service {
	if store == nil {
		panic("administration: storage is nil")
	}
	s := &Service{
		store:        store,
		log:          slog.Default(),
		onShopChange: func(context.Context, int64) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TenantProvider exposes shops to the tenant resolver.
func (s *Service) TenantProvider() tenant.Provider {
	return tenant.ProviderFunc(func(ctx context.Context, id int64) (*tenant.Tenant, error) {
		shop, err := s.store.GetShop(ctx, id)
		if errors.Is(err, ErrShopNotFound) {
			return nil, tenant.ErrTenantNotFound
		}
		if err != nil {
			return nil, err
		}
		return shop.Tenant(), nil
	})
}

func (s *Service) ListShops(ctx context.Context, opts ListOptions) (Page[*Shop], error) {
	return s.store.ListShops(ctx, opts)
}

func (s *Service) GetShop(ctx context.Context, id int64) (*Shop, error) {
	return s.store.GetShop(ctx, id)
}

func (s *Service) CreateShop(ctx context.Context, in ShopInput) (*Shop, error) {
	shop := &Shop{}
	in.apply(shop)
	if err := s.prepareShop(shop); err != nil {
		return nil, err
	}
	if err := s.store.CreateShop(ctx, shop); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "shop created", slog.Int64("shop_id", shop.ID), slog.String("name", shop.Name))
	return shop, s.record(ctx, ObjectShop, shop.ID, shop)
}

func (s *Service) UpdateShop(ctx context.Context, id int64, in ShopInput) (*Shop, error) {
	shop, err := s.store.GetShop(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(shop)
	if err := s.prepareShop(shop); err != nil {
		return nil, err
	}
	if err := s.store.UpdateShop(ctx, shop); err != nil {
		return nil, err
	}
	s.onShopChange(ctx, shop.ID)
	return shop, s.record(ctx, ObjectShop, shop.ID, shop)
}

func (s *Service) prepareShop(shop *Shop) error {
	if err := shop.Normalize(); err != nil {
		return err
	}
	return shop.Validate()
}

// CurrentShop loads the shop of the tenant in ctx.
func (s *Service) CurrentShop(ctx context.Context) (*Shop, error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}
	return s.store.GetShop(ctx, id)
}

func (s *Service) UpdateCurrentShop(ctx context.Context, in ShopInput) (*Shop, error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}
	return s.UpdateShop(ctx, id, in)
}

func (s *Service) ListUsers(ctx context.Context, filter UserFilter) (Page[*User], error) {
	return s.store.ListUsers(ctx, filter)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.store.GetUser(ctx, id)
}

// CheckPermission loads the user and runs Authorize for an operation on
// shopID, nil for central resources.
func (s *Service) CheckPermission(ctx context.Context, userID int64, shopID *int64, resource string, action Action) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return Authorize(user, shopID, resource, action)
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	if in.Password == "" {
		return nil, validator.ValidationErrors{{Field: "password", Message: "required"}}
	}
	user := &User{IsActive: true}
	if err := in.apply(user); err != nil {
		return nil, err
	}
	if err := s.prepareUser(user); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "user created", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, s.record(ctx, ObjectUser, user.ID, user)
}

// UpdateUser replaces every writable field of the user with in, the role
// flags included: an omitted flag is cleared. Only an empty password and a
// nil IsActive keep the stored value.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UserInput) (*User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(user); err != nil {
		return nil, err
	}
	if err := s.prepareUser(user); err != nil {
		return nil, err
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, s.record(ctx, ObjectUser, user.ID, user)
}

func (s *Service) prepareUser(user *User) error {
	user.Normalize()
	return user.Validate()
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))
	return s.record(ctx, ObjectUser, user.ID, user)
}

// ListShopUsers lists the users of the shop in ctx.
func (s *Service) ListShopUsers(ctx context.Context, opts ListOptions) (Page[*User], error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return Page[*User]{}, tenant.ErrNoTenantInContext
	}
	return s.store.ListUsers(ctx, UserFilter{ListOptions: opts, ShopID: &id})
}

// CreateShopUser creates a user bound to the shop in ctx, whatever shop the
// input names. Superuser rights cannot be granted from a shop sub-site.
func (s *Service) CreateShopUser(ctx context.Context, in UserInput) (*User, error) {
	id, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}
	in.ShopID = &id
	in.IsSuperuser = false
	return s.CreateUser(ctx, in)
}

func (s *Service) ListCustomers(ctx context.Context, opts ListOptions) (Page[*Customer], error) {
	return s.store.ListCustomers(ctx, opts)
}

// ListShopCustomers lists the customers of shop id from outside its sub-site.
func (s *Service) ListShopCustomers(ctx context.Context, id int64, opts ListOptions) (Page[*Customer], error) {
	shop, err := s.store.GetShop(ctx, id)
	if err != nil {
		return Page[*Customer]{}, err
	}
	return s.store.ListCustomers(tenant.WithTenant(ctx, shop.Tenant()), opts)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	customer := &Customer{}
	in.apply(customer)
	customer.Normalize()
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, s.record(ctx, ObjectCustomer, customer.ID, customer)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(customer)
	customer.Normalize()
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, s.record(ctx, ObjectCustomer, customer.ID, customer)
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	return s.record(ctx, ObjectCustomer, customer.ID, customer)
}

func (s *Service) ListRevisions(ctx context.Context, filter RevisionFilter) (Page[*revision.Revision], error) {
	return s.store.ListRevisions(ctx, filter)
}

func (s *Service) record(ctx context.Context, objectType string, id int64, obj any) error {
	if err := revision.Record(ctx, objectType, id, obj); err != nil {
		s.log.ErrorContext(ctx, "failed to record revision",
			slog.String("object_type", objectType),
			slog.Int64("object_id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
