// Package rbac checks role permissions with inheritance and wildcards.
//
// Roles are loaded once from a RoleSource and flattened, so every check is a
// lookup over the role's precomputed permission list:
//
//	auth, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(map[string]rbac.Role{
//		"shop_admin":        {Permissions: []string{"customer.*", "my_shop.view"}},
//		"master_shop_admin": {Permissions: []string{"my_shop.change"}, Inherits: []string{"shop_admin"}},
//		"superuser":         {Permissions: []string{"*"}},
//	}))
//
//	err = auth.Can("master_shop_admin", "customer.add") // nil, inherited
//
// Permissions are dot-separated. "*" grants everything and "customer.*"
// grants every permission below customer.
package rbac
