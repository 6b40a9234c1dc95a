package administration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/rbac"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

func TestAuthorize(t *testing.T) {
	t.Parallel()

	shop := int64(1)
	other := int64(2)

	admin := &administration.User{IsActive: true, ShopID: &shop, IsShopAdmin: true}
	master := &administration.User{IsActive: true, ShopID: &shop, IsShopAdmin: true, IsMasterShopAdmin: true}
	staff := &administration.User{IsActive: true, ShopID: &shop}
	root := &administration.User{IsActive: true, IsSuperuser: true}
	inactiveRoot := &administration.User{IsSuperuser: true}

	tests := []struct {
		name     string
		user     *administration.User
		shopID   *int64
		resource string
		action   administration.Action
		allowed  bool
	}{
		{"admin views own shop", admin, &shop, administration.ResourceMyShop, administration.ActionView, true},
		{"admin cannot change own shop", admin, &shop, administration.ResourceMyShop, administration.ActionChange, false},
		{"master changes own shop", master, &shop, administration.ResourceMyShop, administration.ActionChange, true},
		{"admin manages customers", admin, &shop, administration.ResourceCustomer, administration.ActionDelete, true},
		{"admin cannot touch other shop", admin, &other, administration.ResourceCustomer, administration.ActionView, false},
		{"admin views shop users", admin, &shop, administration.ResourceShopUser, administration.ActionView, true},
		{"admin cannot add shop users", admin, &shop, administration.ResourceShopUser, administration.ActionAdd, false},
		{"master adds shop users", master, &shop, administration.ResourceShopUser, administration.ActionAdd, true},
		{"plain staff refused", staff, &shop, administration.ResourceCustomer, administration.ActionView, false},
		{"master cannot list shops", master, nil, administration.ResourceShop, administration.ActionView, false},
		{"superuser lists shops", root, nil, administration.ResourceShop, administration.ActionView, true},
		{"superuser on any shop", root, &other, administration.ResourceCustomer, administration.ActionAdd, true},
		{"inactive superuser refused", inactiveRoot, nil, administration.ResourceShop, administration.ActionView, false},
		{"nil user refused", nil, &shop, administration.ResourceMyShop, administration.ActionView, false},
		{"unknown permission", root, nil, "order", administration.ActionView, false},
		{"shops are never deleted", root, nil, administration.ResourceShop, administration.ActionDelete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := administration.Authorize(tt.user, tt.shopID, tt.resource, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, administration.ErrForbidden)
			}
		})
	}
}

func TestPermissionTable(t *testing.T) {
	t.Parallel()

	table := administration.PermissionTable()
	assert.Len(t, table, len(administration.Permissions))
	for i := 1; i < len(table); i++ {
		assert.LessOrEqual(t, table[i-1].Resource, table[i].Resource)
	}
	assert.Equal(t, "customer", table[0].Resource)
	assert.Equal(t, "shop_admin", administration.TierShopAdmin.String())
}

func TestRoles_FollowTiers(t *testing.T) {
	t.Parallel()

	auth, err := rbac.NewAuthorizer(context.Background(), rbac.NewInMemRoleSource(administration.Roles()))
	require.NoError(t, err)
	assert.Equal(t, []string{"shop_admin", "superuser", "master_shop_admin"}, auth.Roles())

	tiers := []administration.Tier{administration.TierShopAdmin, administration.TierMasterShopAdmin, administration.TierSuperuser}
	for perm, required := range administration.Permissions {
		for _, tier := range tiers {
			err := auth.Can(tier.String(), perm.String())
			if tier >= required {
				assert.NoError(t, err, "%s should hold %s", tier, perm)
			} else {
				assert.ErrorIs(t, err, rbac.ErrInsufficientPermissions, "%s should lack %s", tier, perm)
			}
		}
	}
}

func TestUser_Tier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, administration.Tier(0), (&administration.User{}).Tier())
	assert.Equal(t, administration.TierShopAdmin, (&administration.User{IsShopAdmin: true}).Tier())
	assert.Equal(t, administration.TierMasterShopAdmin, (&administration.User{IsShopAdmin: true, IsMasterShopAdmin: true}).Tier())
	assert.Equal(t, administration.TierSuperuser, (&administration.User{IsSuperuser: true, IsShopAdmin: true}).Tier())
}
