package navigation

// ActionKind identifies a user action on the portal
type ActionKind string

const (
	ActionSignIn           ActionKind = "sign_in"
	ActionSelectRole       ActionKind = "select_role"
	ActionBack             ActionKind = "back"
	ActionSetSearchAddress ActionKind = "set_search_address"
)

// Action is a user input fed to Reduce
type Action struct {
	Kind    ActionKind
	Role    Role
	Address string
}

func SignIn() Action { return Action{Kind: ActionSignIn} }

func SelectRole(role Role) Action { return Action{Kind: ActionSelectRole, Role: role} }

func Back() Action { return Action{Kind: ActionBack} }

func SetSearchAddress(address string) Action {
	return Action{Kind: ActionSetSearchAddress, Address: address}
}

// Reduce applies one action and returns the next state. The input is never
// modified. Unknown action kinds return the state unchanged.
//
// Sign In moves to the portal without picking a role, so Resolve renders the
// homepage fallback. That is the product's current behaviour and is kept.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case ActionSignIn:
		s.View = ViewPortal
	case ActionSelectRole:
		s.Role = ParseRole(string(a.Role))
		s.View = ViewPortal
	case ActionBack:
		s.View = ViewHomepage
	case ActionSetSearchAddress:
		s.SearchAddress = a.Address
	}
	return s
}

// ReduceAll folds a sequence of actions over s
func ReduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}
