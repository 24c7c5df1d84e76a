package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/stretchr/testify/require"
)

func TestSession_LoginAndResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.Login(ctx, "root", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, f.root.AccountID, session.Account.ID)

	p, err := f.sessions.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, f.root, p)

	t.Run("bad credentials look alike", func(t *testing.T) {
		_, err := f.sessions.Login(ctx, "root", "wrong password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = f.sessions.Login(ctx, "nobody", "wrong password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = f.sessions.Login(ctx, "", "")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage resolves to anonymous", func(t *testing.T) {
		p, err := f.sessions.Resolve(ctx, "not.a.jwt")
		require.NoError(t, err)
		require.True(t, p.IsAnonymous())

		p, err = f.sessions.Resolve(ctx, "")
		require.NoError(t, err)
		require.True(t, p.IsAnonymous())
	})
}

func TestSession_DisabledAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _ := f.member(t, "alice", "Alice", "Smith", domain.RoleMember)

	session, err := f.sessions.Issue(ctx, alice.Account)
	require.NoError(t, err)

	p, err := f.sessions.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, p.Role)

	// Role changes apply to live sessions.
	require.NoError(t, f.members.ChangeRole(ctx, f.root, alice.Account.ID, domain.RoleFinancialSecretary))
	p, err = f.sessions.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.True(t, p.IsFinancialOfficer())

	_, err = f.members.ToggleAccess(ctx, f.root, alice.Account.ID)
	require.NoError(t, err)

	p, err = f.sessions.Resolve(ctx, session.Token)
	require.NoError(t, err)
	require.True(t, p.IsAnonymous())
}
