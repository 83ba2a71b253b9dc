package navigation

// Screen is what the portal renders for a state
type Screen string

const (
	ScreenHomepage              Screen = "homepage"
	ScreenResidentialDashboard  Screen = "residential_dashboard"
	ScreenProfessionalDashboard Screen = "professional_dashboard"
	ScreenVendorDashboard       Screen = "vendor_dashboard"
)

// Resolve picks the screen for a state. Every combination renders
// something: a portal view without a known role falls back to the homepage.
func Resolve(s State) Screen {
	if s.View != ViewPortal {
		return ScreenHomepage
	}
	switch ParseRole(string(s.Role)) {
	case RoleResidential:
		return ScreenResidentialDashboard
	case RoleProfessional:
		return ScreenProfessionalDashboard
	case RoleVendor:
		return ScreenVendorDashboard
	case RoleUnset:
		return ScreenHomepage
	default:
		return ScreenHomepage
	}
}

// IsFallback reports whether s is in the portal view but resolves to the
// homepage because no role is selected.
func IsFallback(s State) bool {
	return s.View == ViewPortal && Resolve(s) == ScreenHomepage
}
