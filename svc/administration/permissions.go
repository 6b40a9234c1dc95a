package administration

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/servicebond/pkg/rbac"
)

// Tier is the minimum kind of staff account a permission requires.
type Tier int

const (
	TierShopAdmin Tier = iota + 1
	TierMasterShopAdmin
	TierSuperuser
)

func (t Tier) String() string {
	switch t {
	case TierShopAdmin:
		return "shop_admin"
	case TierMasterShopAdmin:
		return "master_shop_admin"
	case TierSuperuser:
		return "superuser"
	}
	return "unknown"
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

// Resources guarded on the shop sub-site and the central admin.
const (
	ResourceMyShop   = "my_shop"
	ResourceCustomer = "customer"
	ResourceShopUser = "shop_user"
	ResourceShop     = "shop"
	ResourceUser     = "user"
	ResourceRevision = "revision"
)

type Permission struct {
	Resource string `json:"resource"`
	Action   Action `json:"action"`
}

func (p Permission) String() string {
	return p.Resource + "." + string(p.Action)
}

// Permissions maps every guarded operation to the tier it requires.
// Shop-scoped permissions hold only for the user's own shop; central
// resources need a superuser.
var Permissions = map[Permission]Tier{
	{ResourceMyShop, ActionView}:   TierShopAdmin,
	{ResourceMyShop, ActionChange}: TierMasterShopAdmin,

	{ResourceCustomer, ActionView}:   TierShopAdmin,
	{ResourceCustomer, ActionAdd}:    TierShopAdmin,
	{ResourceCustomer, ActionChange}: TierShopAdmin,
	{ResourceCustomer, ActionDelete}: TierShopAdmin,

	{ResourceShopUser, ActionView}:   TierShopAdmin,
	{ResourceShopUser, ActionAdd}:    TierMasterShopAdmin,
	{ResourceShopUser, ActionChange}: TierMasterShopAdmin,
	{ResourceShopUser, ActionDelete}: TierMasterShopAdmin,

	{ResourceShop, ActionView}:   TierSuperuser,
	{ResourceShop, ActionAdd}:    TierSuperuser,
	{ResourceShop, ActionChange}: TierSuperuser,

	{ResourceUser, ActionView}:   TierSuperuser,
	{ResourceUser, ActionAdd}:    TierSuperuser,
	{ResourceUser, ActionChange}: TierSuperuser,
	{ResourceUser, ActionDelete}: TierSuperuser,

	{ResourceRevision, ActionView}: TierSuperuser,
}

// PermissionEntry is one row of the permission table.
type PermissionEntry struct {
	Permission
	Tier Tier `json:"tier"`
}

// PermissionTable lists Permissions in a stable order.
func PermissionTable() []PermissionEntry {
	perms := slices.SortedFunc(maps.Keys(Permissions), func(a, b Permission) int {
		return cmp.Or(cmp.Compare(a.Resource, b.Resource), cmp.Compare(a.Action, b.Action))
	})
	out := make([]PermissionEntry, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionEntry{Permission: p, Tier: Permissions[p]})
	}
	return out
}

// Roles expresses Permissions as an inheritance chain: every permission is
// granted to the role of its tier, each tier inherits the one below it and
// the superuser holds everything.
func Roles() map[string]rbac.Role {
	roles := map[string]rbac.Role{
		TierShopAdmin.String():       {},
		TierMasterShopAdmin.String(): {Inherits: []string{TierShopAdmin.String()}},
		TierSuperuser.String():       {Permissions: []string{"*"}},
	}
	for perm, tier := range Permissions {
		if tier == TierSuperuser {
			continue
		}
		role := roles[tier.String()]
		role.Permissions = append(role.Permissions, perm.String())
		roles[tier.String()] = role
	}
	return roles
}

var authorizer = mustAuthorizer()

func mustAuthorizer() *rbac.Authorizer {
	auth, err := rbac.NewAuthorizer(context.Background(), rbac.NewInMemRoleSource(Roles()))
	if err != nil {
		panic(err)
	}
	return auth
}

// Tier returns the staff tier of the user, zero for accounts without one.
func (u *User) Tier() Tier {
	switch {
	case u.IsSuperuser:
		return TierSuperuser
	case u.IsMasterShopAdmin:
		return TierMasterShopAdmin
	case u.IsShopAdmin:
		return TierShopAdmin
	}
	return 0
}

// Authorize reports whether user may perform action on resource. shopID is
// the shop the operation targets, nil for central resources. Inactive users
// are always refused and staff below superuser act only inside their own
// shop. Whether the tier suffices is decided by the role table.
func Authorize(user *User, shopID *int64, resource string, action Action) error {
	perm := Permission{Resource: resource, Action: action}
	if _, ok := Permissions[perm]; !ok {
		return fmt.Errorf("%w: unknown permission %s", ErrForbidden, perm)
	}
	if user == nil || !user.IsActive {
		return fmt.Errorf("%w: %s", ErrForbidden, perm)
	}
	tier := user.Tier()
	if tier == 0 {
		return fmt.Errorf("%w: %s", ErrForbidden, perm)
	}
	if tier != TierSuperuser && (shopID == nil || user.ShopID == nil || *user.ShopID != *shopID) {
		return fmt.Errorf("%w: %s outside own shop", ErrForbidden, perm)
	}
	if err := authorizer.Can(tier.String(), perm.String()); err != nil {
		return errors.Join(ErrForbidden, err)
	}
	return nil
}
