package domain

// Principal is the acting identity for an operation. The zero value is the
// anonymous principal, which holds no permissions.
type Principal struct {
	AccountID string
	ProfileID string
	Role      Role
	Superuser bool
}

// Anonymous returns the unauthenticated principal.
func Anonymous() Principal { return Principal{} }

// PrincipalFor builds the principal for an active member.
func PrincipalFor(m Member) Principal {
	if !m.Account.Active {
		return Anonymous()
	}
	return Principal{
		AccountID: m.Account.ID,
		ProfileID: m.Profile.ID,
		Role:      m.Profile.Role,
		Superuser: m.Account.Superuser,
	}
}

func (p Principal) IsAnonymous() bool { return p.AccountID == "" || p.Role == RoleAnonymous }

// IsAdmin is true for the Admin role and for superusers.
func (p Principal) IsAdmin() bool {
	return !p.IsAnonymous() && (p.Role == RoleAdmin || p.Superuser)
}

// IsFinancialOfficer is true for Financial Secretaries and admins.
func (p Principal) IsFinancialOfficer() bool {
	return p.IsAdmin() || (!p.IsAnonymous() && p.Role == RoleFinancialSecretary)
}

// Is reports whether the principal acts as the given account.
func (p Principal) Is(accountID string) bool {
	return !p.IsAnonymous() && accountID != "" && p.AccountID == accountID
}
