package domain

import (
	"errors"
	"testing"
)

func TestAuthorize_Table(t *testing.T) {
	cases := []struct {
		name   string
		p      Principal
		action Action
		want   error
	}{
		{"government lists pending", Principal{Role: RoleGovernment}, ActionListPendingApprovals, nil},
		{"admin lists pending", Principal{Role: RoleAdmin, Approved: true}, ActionListPendingApprovals, nil},
		{"pharmacy cannot list pending", Principal{Role: RolePharmacy, Approved: true}, ActionListPendingApprovals, ErrAccessDenied},
		{"government approves", Principal{Role: RoleGovernment}, ActionApprovePharmacy, nil},
		{"pharmacy cannot approve", Principal{Role: RolePharmacy, Approved: true}, ActionApprovePharmacy, ErrAccessDenied},
		{"pharmacy views own stock unapproved", Principal{Role: RolePharmacy}, ActionViewOwnStock, nil},
		{"admin cannot view own stock", Principal{Role: RoleAdmin, Approved: true}, ActionViewOwnStock, ErrAccessDenied},
		{"approved pharmacy adds stock", Principal{Role: RolePharmacy, Approved: true}, ActionAddStock, nil},
		{"unapproved pharmacy adds stock", Principal{Role: RolePharmacy}, ActionAddStock, ErrApprovalRequired},
		{"government cannot add stock", Principal{Role: RoleGovernment, Approved: true}, ActionAddStock, ErrAccessDenied},
		{"admin views all stock", Principal{Role: RoleAdmin, Approved: true}, ActionViewAllStock, nil},
		{"government views all stock", Principal{Role: RoleGovernment}, ActionViewAllStock, nil},
		{"pharmacy cannot view all stock", Principal{Role: RolePharmacy, Approved: true}, ActionViewAllStock, ErrAccessDenied},
		{"government views dashboard", Principal{Role: RoleGovernment}, ActionViewDashboard, nil},
		{"pharmacy cannot view dashboard", Principal{Role: RolePharmacy, Approved: true}, ActionViewDashboard, ErrAccessDenied},
		{"admin views snapshot", Principal{Role: RoleAdmin, Approved: true}, ActionViewAnalyticsSnapshot, nil},
		{"unknown role denied", Principal{Role: Role("auditor"), Approved: true}, ActionViewDashboard, ErrAccessDenied},
		{"unknown action denied", Principal{Role: RoleAdmin, Approved: true}, Action(99), ErrAccessDenied},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Authorize(tc.p, tc.action)
			if !errors.Is(got, tc.want) || (tc.want == nil && got != nil) {
				t.Fatalf("Authorize(%+v, %s) = %v, want %v", tc.p, tc.action, got, tc.want)
			}
		})
	}
}

func TestRequiresApproval(t *testing.T) {
	if !RequiresApproval(ActionAddStock) {
		t.Fatalf("adding stock must require approval")
	}
	for _, a := range []Action{ActionListPendingApprovals, ActionApprovePharmacy, ActionViewOwnStock, ActionViewAllStock, ActionViewDashboard} {
		if RequiresApproval(a) {
			t.Fatalf("%s should not require approval", a)
		}
	}
}
