package rbac

import "strings"

const (
	wildcard  = "*"
	delimiter = "."
)

// Matches reports whether permission is granted by pattern: an exact match,
// "*", or a "prefix.*" covering it.
func Matches(permission, pattern string) bool {
	if permission == pattern || pattern == wildcard {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, delimiter+wildcard); ok {
		return strings.HasPrefix(permission, prefix+delimiter)
	}
	return false
}

func granted(have []string, permission string) bool {
	for _, pattern := range have {
		if Matches(permission, pattern) {
			return true
		}
	}
	return false
}
