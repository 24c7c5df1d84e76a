package policy_test

import (
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/stretchr/testify/require"
)

var (
	admin     = domain.Principal{AccountID: "admin", ProfileID: "p-admin", Role: domain.RoleAdmin}
	secretary = domain.Principal{AccountID: "fs", ProfileID: "p-fs", Role: domain.RoleFinancialSecretary}
	member    = domain.Principal{AccountID: "mem", ProfileID: "p-mem", Role: domain.RoleMember}
	superuser = domain.Principal{AccountID: "root", ProfileID: "p-root", Role: domain.RoleMember, Superuser: true}
	anonymous = domain.Anonymous()
)

func TestAllowed_Matrix(t *testing.T) {
	other := policy.Account("someone-else")

	tests := []struct {
		action policy.Action
		admin  bool
		fs     bool
		member bool
	}{
		{policy.ViewProfile, true, false, false},
		{policy.EditProfile, true, false, false},
		{policy.ViewFinancialStatus, true, true, false},
		{policy.RecordPayment, true, true, false},
		{policy.CreateDue, true, true, false},
		{policy.ViewFinancialReport, true, true, false},
		{policy.ManageRoster, true, true, false},
		{policy.ManageGallery, true, false, false},
		{policy.PublishAnnouncement, true, false, false},
		{policy.ChangeRole, true, false, false},
		{policy.DeleteMember, true, false, false},
		{policy.ResetPassword, true, false, false},
		{policy.ToggleAccess, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			require.Equal(t, tt.admin, policy.Allowed(admin, tt.action, other), "admin")
			require.Equal(t, tt.fs, policy.Allowed(secretary, tt.action, other), "financial secretary")
			require.Equal(t, tt.member, policy.Allowed(member, tt.action, other), "member")
			require.True(t, policy.Allowed(superuser, tt.action, other), "superuser")
			require.False(t, policy.Allowed(anonymous, tt.action, other), "anonymous")
		})
	}
}

func TestAllowed_SelfAccess(t *testing.T) {
	for _, p := range []domain.Principal{admin, secretary, member} {
		self := policy.Self(p)
		require.True(t, policy.Allowed(p, policy.ViewProfile, self))
		require.True(t, policy.Allowed(p, policy.EditProfile, self))
		require.True(t, policy.Allowed(p, policy.ViewFinancialStatus, self))
	}

	// Self access does not unlock officer actions.
	require.False(t, policy.Allowed(member, policy.RecordPayment, policy.Self(member)))
	require.False(t, policy.Allowed(member, policy.CreateDue, policy.Self(member)))

	// An empty target is never "self".
	require.False(t, policy.Allowed(member, policy.ViewProfile, policy.Target{}))
	require.False(t, policy.Allowed(anonymous, policy.ViewProfile, policy.Self(anonymous)))
}

func TestAuthorize(t *testing.T) {
	err := policy.Authorize(member, policy.RecordPayment, policy.Target{})
	require.ErrorIs(t, err, policy.ErrPermissionDenied)
	require.Contains(t, err.Error(), "record_payment")

	require.NoError(t, policy.Authorize(secretary, policy.RecordPayment, policy.Target{}))
	require.NoError(t, policy.Authorize(admin, policy.CreateDue, policy.Target{}))
	require.ErrorIs(t, policy.Authorize(member, policy.Action(999), policy.Target{}), policy.ErrPermissionDenied)
}

func TestCanAssignRole(t *testing.T) {
	require.True(t, policy.CanAssignRole(admin, domain.RoleAdmin))
	require.True(t, policy.CanAssignRole(admin, domain.RoleFinancialSecretary))
	require.True(t, policy.CanAssignRole(secretary, domain.RoleMember))
	require.False(t, policy.CanAssignRole(secretary, domain.RoleFinancialSecretary))
	require.False(t, policy.CanAssignRole(secretary, domain.RoleAdmin))
	require.False(t, policy.CanAssignRole(member, domain.RoleMember))
	require.False(t, policy.CanAssignRole(admin, domain.RoleAnonymous))
}
