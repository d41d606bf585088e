package auth

// Tree identifies which route tree serves a session.
// The set is closed: every session resolves to exactly one value.
type Tree int

const (
	TreeUnauthenticated Tree = iota
	TreeEmployee
	TreeManager
)

func (t Tree) String() string {
	switch t {
	case TreeEmployee:
		return "employee"
	case TreeManager:
		return "manager"
	default:
		return "unauthenticated"
	}
}

// TreeFor selects the route tree for a session. A nil session, a guest,
// or an unrecognised role all land in the unauthenticated tree.
func TreeFor(s *Session) Tree {
	if s == nil {
		return TreeUnauthenticated
	}
	switch s.Role {
	case RoleEmployee:
		return TreeEmployee
	case RoleManager:
		return TreeManager
	default:
		return TreeUnauthenticated
	}
}
