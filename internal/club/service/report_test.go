package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/stretchr/testify/require"
)

func TestParseReportFilter(t *testing.T) {
	require.Equal(t, FilterUpToDate, ParseReportFilter("up_to_date"))
	require.Equal(t, FilterOverdue, ParseReportFilter(" OVERDUE "))
	require.Equal(t, FilterAll, ParseReportFilter(""))
	require.Equal(t, FilterAll, ParseReportFilter("bogus"))
}

func TestBuildReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)
	bob, _ := f.member(t, "bob", "Bob", "Jones", domain.RoleMember)
	admin, _ := f.member(t, "adam", "Adam", "Admin", domain.RoleAdmin)
	_, member := f.member(t, "zed", "Zed", "Zulu", domain.RoleMember)

	f.due(t, alice.Profile.ID, "50")
	f.pay(t, alice.Profile.ID, "50")
	f.due(t, bob.Profile.ID, "70")
	f.pay(t, bob.Profile.ID, "50")
	f.due(t, admin.Profile.ID, "999")

	t.Run("members are refused", func(t *testing.T) {
		_, err := f.reports.BuildReport(ctx, member, FilterAll)
		require.ErrorIs(t, err, policy.ErrPermissionDenied)
	})

	t.Run("all", func(t *testing.T) {
		r, err := f.reports.BuildReport(ctx, f.root, FilterAll)
		require.NoError(t, err)
		require.Len(t, r.Rows, 3)
		require.Equal(t, "Bob Jones", r.Rows[0].FullName)
		require.Equal(t, "Alice Smith", r.Rows[1].FullName)
		require.Equal(t, "Zed Zulu", r.Rows[2].FullName)
		require.Equal(t, "120.00", r.TotalDues.String())
		require.Equal(t, "20.00", r.TotalBalance.String())
		require.Equal(t, 2, r.UpToDateCount)
		require.Equal(t, 3, r.MemberCount)
	})

	t.Run("overdue", func(t *testing.T) {
		r, err := f.reports.BuildReport(ctx, f.root, FilterOverdue)
		require.NoError(t, err)
		require.Len(t, r.Rows, 1)
		require.Equal(t, bob.Profile.ID, r.Rows[0].ProfileID)
		require.Equal(t, "70.00", r.TotalDues.String())
		require.Equal(t, 0, r.UpToDateCount)
	})

	t.Run("up to date", func(t *testing.T) {
		r, err := f.reports.BuildReport(ctx, f.root, FilterUpToDate)
		require.NoError(t, err)
		require.Len(t, r.Rows, 2)
		require.Equal(t, "0.00", r.TotalBalance.String())
		require.Equal(t, 2, r.UpToDateCount)
	})
}

func TestReport_WriteCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)
	bob, _ := f.member(t, "bob", "Bob", "Jones", domain.RoleMember)
	f.due(t, alice.Profile.ID, "50")
	f.pay(t, alice.Profile.ID, "50")
	f.due(t, bob.Profile.ID, "70")
	f.pay(t, bob.Profile.ID, "50")
	require.NoError(t, f.members.UpdateStatus(ctx, f.root, bob.Profile.ID, domain.StatusSuspended))

	r, err := f.reports.BuildReport(ctx, f.root, FilterAll)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))

	want := "Member Name,Total Dues,Total Payments,Balance,Status,Financial Status\n" +
		"Bob Jones,70.00,50.00,20.00,Suspended,Overdue\n" +
		"Alice Smith,50.00,50.00,0.00,Active,Up to Date\n" +
		"\n" +
		"Summary\n" +
		"Total Dues:,120.00\n" +
		"Total Payments:,100.00\n" +
		"Total Balance:,20.00\n" +
		"Up to Date Members:,1/2\n"
	require.Equal(t, want, buf.String())
}
