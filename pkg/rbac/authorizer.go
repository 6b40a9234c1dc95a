package rbac

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Authorizer answers permission checks for a fixed role table. It is safe for
// concurrent use.
type Authorizer struct {
	permissions map[string][]string
	depths      map[string]int
}

// NewAuthorizer loads the roles from source and flattens inheritance.
// Cycles, chains deeper than MaxInheritanceDepth and references to unknown
// roles fail with ErrCircularInheritance or ErrInvalidRole.
func NewAuthorizer(ctx context.Context, source RoleSource) (*Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	a := &Authorizer{
		permissions: make(map[string][]string, len(roles)),
		depths:      make(map[string]int, len(roles)),
	}
	for name := range roles {
		if _, err := a.resolve(name, roles, nil); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// resolve computes the flattened permissions of name and its depth in the
// inheritance graph. path holds the roles currently being resolved.
func (a *Authorizer) resolve(name string, roles map[string]Role, path []string) ([]string, error) {
	if perms, ok := a.permissions[name]; ok {
		return perms, nil
	}
	if slices.Contains(path, name) {
		return nil, errors.Join(ErrCircularInheritance, fmt.Errorf("%v -> %s", path, name))
	}
	if len(path) > MaxInheritanceDepth {
		return nil, errors.Join(ErrCircularInheritance, fmt.Errorf("inheritance deeper than %d at %s", MaxInheritanceDepth, name))
	}
	role, ok := roles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, name)
	}

	perms := slices.Clone(role.Permissions)
	depth := 0
	next := append(slices.Clone(path), name)
	for _, parent := range role.Inherits {
		inherited, err := a.resolve(parent, roles, next)
		if err != nil {
			return nil, err
		}
		perms = append(perms, inherited...)
		depth = max(depth, a.depths[parent]+1)
	}
	slices.Sort(perms)
	perms = slices.Compact(perms)

	a.permissions[name] = perms
	a.depths[name] = depth
	return perms, nil
}

// Can returns nil when role holds permission directly or through
// inheritance.
func (a *Authorizer) Can(role, permission string) error {
	perms, ok := a.permissions[role]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	if !granted(perms, permission) {
		return fmt.Errorf("%w: %s lacks %s", ErrInsufficientPermissions, role, permission)
	}
	return nil
}

// CanAll returns nil when role holds every permission.
func (a *Authorizer) CanAll(role string, permissions ...string) error {
	for _, p := range permissions {
		if err := a.Can(role, p); err != nil {
			return err
		}
	}
	return nil
}

// Roles lists the role names, base roles first.
func (a *Authorizer) Roles() []string {
	return slices.SortedFunc(maps.Keys(a.depths), func(x, y string) int {
		return cmp.Or(cmp.Compare(a.depths[x], a.depths[y]), cmp.Compare(x, y))
	})
}
