package service

import (
	"errors"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
)

// authorizeMember loads a member with lookup and checks action a against
// it. Principals that could not act on an arbitrary member get
// PermissionDenied instead of NotFound, so lookups do not reveal which ids
// exist.
func authorizeMember(p domain.Principal, a policy.Action, lookup func() (domain.Member, error)) (domain.Member, error) {
	if p.IsAnonymous() {
		return domain.Member{}, policy.Authorize(p, a, policy.Target{})
	}

	m, err := lookup()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) && !policy.Allowed(p, a, policy.Target{}) {
			return domain.Member{}, policy.Authorize(p, a, policy.Target{})
		}
		return domain.Member{}, storeErr(err)
	}

	if err := policy.Authorize(p, a, policy.Account(m.Account.ID)); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}
