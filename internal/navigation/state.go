package navigation

// View is one of the two top-level render modes
type View string

const (
	ViewHomepage View = "homepage"
	ViewPortal   View = "portal"
)

// Role is the persona picked on the homepage. RoleUnset is the explicit
// "no role selected" variant.
type Role string

const (
	RoleUnset        Role = "none"
	RoleResidential  Role = "residential"
	RoleProfessional Role = "professional"
	RoleVendor       Role = "vendor"
)

// Roles lists the selectable roles in homepage card order
var Roles = []Role{RoleResidential, RoleProfessional, RoleVendor}

// ParseRole maps a raw value to a known role. Anything unrecognized,
// including the empty string, becomes RoleUnset.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleResidential, RoleProfessional, RoleVendor:
		return Role(raw)
	default:
		return RoleUnset
	}
}

// Known reports whether the role maps to a dashboard
func (r Role) Known() bool {
	return ParseRole(string(r)) != RoleUnset
}

const DefaultTab = "resident"

// State is the per-browser navigation state. It is a value type; the only
// way to move between states is Reduce.
type State struct {
	View          View   `json:"currentView"`
	Role          Role   `json:"userType"`
	ActiveTab     string `json:"activeTab"`
	SearchAddress string `json:"searchAddress"`
	Authenticated bool   `json:"isAuthenticated"`
}

// Initial returns the state a new visitor starts with
func Initial() State {
	return State{
		View:      ViewHomepage,
		Role:      RoleUnset,
		ActiveTab: DefaultTab,
	}
}

// Normalize repairs values that may come from an older or tampered session
// payload so the resolver never sees an unknown view or role.
func (s State) Normalize() State {
	if s.View != ViewPortal {
		s.View = ViewHomepage
	}
	s.Role = ParseRole(string(s.Role))
	if s.ActiveTab == "" {
		s.ActiveTab = DefaultTab
	}
	return s
}
