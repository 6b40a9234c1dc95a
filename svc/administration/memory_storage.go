package administration

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/servicebond/pkg/revision"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

type memoryStorage struct {
	mu        sync.RWMutex
	seqs      map[string]int64
	shops     map[int64]Shop
	users     map[int64]User
	customers map[int64]Customer
	revisions []*revision.Revision
}

// NewMemoryStorage returns a process-local Storage for development and tests.
func NewMemoryStorage() Storage {
	return &memoryStorage{
		shops:     make(map[int64]Shop),
		users:     make(map[int64]User),
		customers: make(map[int64]Customer),
		seqs:      make(map[string]int64),
	}
}

// nextID draws from the sequence of one object type, like a table's serial
// column.
func (m *memoryStorage) nextID(object string) int64 {
	m.seqs[object]++
	return m.seqs[object]
}

func (m *memoryStorage) CreateShop(_ context.Context, shop *Shop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkShopUnique(shop); err != nil {
		return err
	}
	shop.ID = m.nextID(ObjectShop)
	m.shops[shop.ID] = *shop
	return nil
}

func (m *memoryStorage) UpdateShop(_ context.Context, shop *Shop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shops[shop.ID]; !ok {
		return ErrShopNotFound
	}
	if err := m.checkShopUnique(shop); err != nil {
		return err
	}
	m.shops[shop.ID] = *shop
	return nil
}

func (m *memoryStorage) checkShopUnique(shop *Shop) error {
	for id, other := range m.shops {
		if id == shop.ID {
			continue
		}
		switch {
		case other.Name == shop.Name:
			return fmt.Errorf("%w: name", ErrDuplicate)
		case sameOptional(other.Email, shop.Email):
			return fmt.Errorf("%w: email", ErrDuplicate)
		case sameOptional(other.PhoneNumber, shop.PhoneNumber):
			return fmt.Errorf("%w: phone_number", ErrDuplicate)
		}
	}
	return nil
}

func (m *memoryStorage) GetShop(_ context.Context, id int64) (*Shop, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shop, ok := m.shops[id]
	if !ok {
		return nil, ErrShopNotFound
	}
	return &shop, nil
}

func (m *memoryStorage) ListShops(_ context.Context, opts ListOptions) (Page[*Shop], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*Shop, 0, len(m.shops))
	for _, s := range m.shops {
		items = append(items, &s)
	}
	return paginate(items, opts, shopSearchFields, shopOrderFields), nil
}

func (m *memoryStorage) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUserUnique(user); err != nil {
		return err
	}
	user.ID = m.nextID(ObjectUser)
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryStorage) UpdateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	if err := m.checkUserUnique(user); err != nil {
		return err
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryStorage) checkUserUnique(user *User) error {
	if user.ShopID != nil {
		if _, ok := m.shops[*user.ShopID]; !ok {
			return ErrShopNotFound
		}
	}
	for id, other := range m.users {
		if id == user.ID {
			continue
		}
		if other.Username == user.Username {
			return fmt.Errorf("%w: username", ErrDuplicate)
		}
		if sameOptional(other.Email, user.Email) {
			return fmt.Errorf("%w: email", ErrDuplicate)
		}
	}
	return nil
}

func (m *memoryStorage) GetUser(_ context.Context, id int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *memoryStorage) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memoryStorage) ListUsers(_ context.Context, filter UserFilter) (Page[*User], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		if filter.ShopID != nil && (u.ShopID == nil || *u.ShopID != *filter.ShopID) {
			continue
		}
		items = append(items, &u)
	}
	return paginate(items, filter.ListOptions, userSearchFields, userOrderFields), nil
}

func (m *memoryStorage) CreateCustomer(ctx context.Context, customer *Customer) error {
	shopID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return tenant.ErrNoTenantInContext
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shops[shopID]; !ok {
		return ErrShopNotFound
	}
	customer.ShopID = shopID
	if err := m.checkCustomerUnique(customer); err != nil {
		return err
	}
	customer.ID = m.nextID(ObjectCustomer)
	m.customers[customer.ID] = *customer
	return nil
}

func (m *memoryStorage) UpdateCustomer(ctx context.Context, customer *Customer) error {
	shopID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return tenant.ErrNoTenantInContext
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.customers[customer.ID]; !ok || current.ShopID != shopID {
		return ErrCustomerNotFound
	}
	customer.ShopID = shopID
	if err := m.checkCustomerUnique(customer); err != nil {
		return err
	}
	m.customers[customer.ID] = *customer
	return nil
}

func (m *memoryStorage) checkCustomerUnique(customer *Customer) error {
	for id, other := range m.customers {
		if id != customer.ID && sameOptional(other.PhoneNumber, customer.PhoneNumber) {
			return fmt.Errorf("%w: phone_number", ErrDuplicate)
		}
	}
	return nil
}

func (m *memoryStorage) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	shopID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenantInContext
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok || c.ShopID != shopID {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (m *memoryStorage) DeleteCustomer(ctx context.Context, id int64) error {
	shopID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return tenant.ErrNoTenantInContext
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customers[id]; !ok || c.ShopID != shopID {
		return ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *memoryStorage) ListCustomers(ctx context.Context, opts ListOptions) (Page[*Customer], error) {
	shopID, ok := tenant.IDFromContext(ctx)
	if !ok {
		return Page[*Customer]{}, tenant.ErrNoTenantInContext
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*Customer
	for _, c := range m.customers {
		if c.ShopID == shopID {
			items = append(items, &c)
		}
	}
	return paginate(items, opts, customerSearchFields, customerOrderFields), nil
}

func (m *memoryStorage) SaveRevision(_ context.Context, rev *revision.Revision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rev
	cp.Versions = slices.Clone(rev.Versions)
	m.revisions = append(m.revisions, &cp)
	return nil
}

func (m *memoryStorage) ListRevisions(_ context.Context, filter RevisionFilter) (Page[*revision.Revision], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*revision.Revision
	for i := len(m.revisions) - 1; i >= 0; i-- {
		rev := m.revisions[i]
		if filter.TenantID != nil && (rev.TenantID == nil || *rev.TenantID != *filter.TenantID) {
			continue
		}
		items = append(items, rev)
	}
	opts := ListOptions{Limit: filter.Limit, Offset: filter.Offset}.normalized()
	return Page[*revision.Revision]{Items: window(items, opts), Count: len(items)}, nil
}

func sameOptional(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// paginate filters, sorts and windows items the way the SQL storage does,
// reading fields through their db tags.
func paginate[T any](items []*T, opts ListOptions, searchFields, orderFields []string) Page[*T] {
	opts = opts.normalized()
	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		items = slices.DeleteFunc(items, func(item *T) bool {
			for _, f := range searchFields {
				if strings.Contains(strings.ToLower(columnString(item, f)), needle) {
					return false
				}
			}
			return true
		})
	}

	field, desc := opts.order(orderFields)
	slices.SortStableFunc(items, func(a, b *T) int {
		if field != "id" {
			c := cmp.Compare(columnString(a, field), columnString(b, field))
			if desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		c := cmp.Compare(columnInt(a, "id"), columnInt(b, "id"))
		if field == "id" && desc {
			return -c
		}
		return c
	})

	return Page[*T]{Items: window(items, opts), Count: len(items)}
}

func window[T any](items []T, opts ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	end := min(opts.Offset+opts.Limit, len(items))
	return items[opts.Offset:end]
}

func column(item any, name string) reflect.Value {
	rv := reflect.ValueOf(item).Elem()
	rt := rv.Type()
	for i := range rt.NumField() {
		if rt.Field(i).Tag.Get("db") == name {
			f := rv.Field(i)
			if f.Kind() == reflect.Ptr {
				if f.IsNil() {
					return reflect.Value{}
				}
				f = f.Elem()
			}
			return f
		}
	}
	return reflect.Value{}
}

func columnString(item any, name string) string {
	f := column(item, name)
	if !f.IsValid() {
		return ""
	}
	if f.Kind() == reflect.String {
		return f.String()
	}
	if t, ok := f.Interface().(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprint(f.Interface())
}

func columnInt(item any, name string) int64 {
	f := column(item, name)
	if !f.IsValid() || !f.CanInt() {
		return 0
	}
	return f.Int()
}
