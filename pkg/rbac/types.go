package rbac

import "context"

// MaxInheritanceDepth bounds the length of an inheritance chain.
const MaxInheritanceDepth = 10

// Role is a named permission set. Inherits lists roles whose permissions are
// granted as well.
type Role struct {
	Permissions []string
	Inherits    []string
}

// RoleSource provides the role table.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}
