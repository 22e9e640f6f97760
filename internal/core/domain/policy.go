package domain

// Action is the closed set of protected operations.
type Action int

const (
	ActionListPendingApprovals Action = iota + 1
	ActionApprovePharmacy
	ActionViewOwnStock
	ActionAddStock
	ActionViewAllStock
	ActionViewDashboard
	ActionViewAnalyticsSnapshot
)

func (a Action) String() string {
	switch a {
	case ActionListPendingApprovals:
		return "list_pending_approvals"
	case ActionApprovePharmacy:
		return "approve_pharmacy"
	case ActionViewOwnStock:
		return "view_own_stock"
	case ActionAddStock:
		return "add_stock"
	case ActionViewAllStock:
		return "view_all_stock"
	case ActionViewDashboard:
		return "view_dashboard"
	case ActionViewAnalyticsSnapshot:
		return "view_analytics_snapshot"
	default:
		return "unknown"
	}
}

// Principal is who is asking: the role from the token and the approval state
// from the credential store.
type Principal struct {
	Role     Role
	Approved bool
}

type rule struct {
	government, pharmacy, admin bool
	requireApproval             bool
}

var rules = map[Action]rule{
	ActionListPendingApprovals:  {government: true, admin: true},
	ActionApprovePharmacy:       {government: true, admin: true},
	ActionViewOwnStock:          {pharmacy: true},
	ActionAddStock:              {pharmacy: true, requireApproval: true},
	ActionViewAllStock:          {government: true, admin: true},
	ActionViewDashboard:         {government: true, admin: true},
	ActionViewAnalyticsSnapshot: {government: true, admin: true},
}

// RoleMayPerform reports whether role r is listed for action a, ignoring the
// approval condition.
func RoleMayPerform(r Role, a Action) bool {
	rl, ok := rules[a]
	if !ok {
		return false
	}
	switch r {
	case RoleGovernment:
		return rl.government
	case RolePharmacy:
		return rl.pharmacy
	case RoleAdmin:
		return rl.admin
	default:
		return false
	}
}

// RequiresApproval reports whether a also needs the principal to be approved.
func RequiresApproval(a Action) bool {
	return rules[a].requireApproval
}

// Authorize decides whether p may perform a. It returns nil, ErrAccessDenied
// or ErrApprovalRequired.
func Authorize(p Principal, a Action) error {
	if !RoleMayPerform(p.Role, a) {
		return ErrAccessDenied
	}
	if RequiresApproval(a) && !p.Approved {
		return ErrApprovalRequired
	}
	return nil
}
