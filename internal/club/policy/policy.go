// Package policy decides which club actions a principal may perform. It is a
// pure function of the principal, the action and the target account.
package policy

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
)

// ErrPermissionDenied is returned (wrapped) for every refused action.
var ErrPermissionDenied = errors.New("permission denied")

// Action is the closed set of gated operations.
type Action int

const (
	ViewProfile Action = iota + 1
	EditProfile
	ViewFinancialStatus
	RecordPayment
	CreateDue
	ViewFinancialReport
	ManageRoster
	ManageGallery
	PublishAnnouncement
	ChangeRole
	DeleteMember
	ResetPassword
	ToggleAccess
)

var actionNames = map[Action]string{
	ViewProfile:         "view_profile",
	EditProfile:         "edit_profile",
	ViewFinancialStatus: "view_financial_status",
	RecordPayment:       "record_payment",
	CreateDue:           "create_due",
	ViewFinancialReport: "view_financial_report",
	ManageRoster:        "manage_roster",
	ManageGallery:       "manage_gallery",
	PublishAnnouncement: "publish_announcement",
	ChangeRole:          "change_role",
	DeleteMember:        "delete_member",
	ResetPassword:       "reset_password",
	ToggleAccess:        "toggle_access",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Target identifies the account an action is aimed at. The zero value means
// the action has no specific subject (e.g. the roster as a whole).
type Target struct {
	AccountID string
}

// Self targets the principal's own account.
func Self(p domain.Principal) Target { return Target{AccountID: p.AccountID} }

// Account targets the given account.
func Account(id string) Target { return Target{AccountID: id} }

// Allowed reports whether p may perform a on target.
func Allowed(p domain.Principal, a Action, target Target) bool {
	if p.IsAnonymous() {
		return false
	}

	switch a {
	case ViewProfile, EditProfile:
		return p.Is(target.AccountID) || p.IsAdmin()

	case ViewFinancialStatus:
		return p.Is(target.AccountID) || p.IsFinancialOfficer()

	case RecordPayment, CreateDue, ViewFinancialReport, ManageRoster:
		return p.IsFinancialOfficer()

	case ManageGallery, PublishAnnouncement, ChangeRole, DeleteMember, ResetPassword, ToggleAccess:
		return p.IsAdmin()
	}

	return false
}

// Authorize returns nil when p may perform a on target and an error wrapping
// ErrPermissionDenied otherwise.
func Authorize(p domain.Principal, a Action, target Target) error {
	if Allowed(p, a, target) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPermissionDenied, a)
}

// CanAssignRole reports whether p may create or promote a member into role.
// Financial Secretaries may only add plain members.
func CanAssignRole(p domain.Principal, role domain.Role) bool {
	if !role.Valid() {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return p.IsFinancialOfficer() && role == domain.RoleMember
}
