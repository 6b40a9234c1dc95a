package subpath

// State is the dispatcher's verdict for one request.
type State int

const (
	// NoSubspace: the first segment is not a known subspace. The default
	// router handles the request and no tenant is current.
	NoSubspace State = iota
	// KnownSubspace: the first segment selects a static table. No tenant is
	// current.
	KnownSubspace
	// TenantResolved: the request is under a shop that exists. The tenant is
	// current and its specialized table is installed.
	TenantResolved
	// TenantUnresolved: the request is under the shop literal but the id is
	// malformed or unknown. No tenant is current.
	TenantUnresolved
)

func (s State) String() string {
	switch s {
	case NoSubspace:
		return "no_subspace"
	case KnownSubspace:
		return "known_subspace"
	case TenantResolved:
		return "tenant_resolved"
	case TenantUnresolved:
		return "tenant_unresolved"
	default:
		return "unknown"
	}
}
