package sqlbase

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
)

const accountColumns = `a.id, a.username, a.email, a.first_name, a.middle_name, a.last_name,
	a.password_hash, a.active, a.superuser, a.created_at, a.updated_at`

type accountsRepo struct{ conn }

func scanAccount(s scanner, a *domain.Account) error {
	return s.Scan(
		&a.ID, &a.Username, &a.Email, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.PasswordHash, &a.Active, &a.Superuser, &a.CreatedAt, &a.UpdatedAt,
	)
}

func (r *accountsRepo) getOne(ctx context.Context, where string, arg any) (domain.Account, error) {
	var a domain.Account
	row := r.queryRow(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE `+where, arg)
	if err := scanAccount(row, &a); err != nil {
		return domain.Account{}, r.d.mapErr(err)
	}
	normalizeAccountTimes(&a)
	return a, nil
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	_, err := r.exec(ctx, `
		INSERT INTO accounts (id, username, email, first_name, middle_name, last_name,
			password_hash, active, superuser, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, strings.ToLower(a.Email), a.FirstName, a.MiddleName, a.LastName,
		a.PasswordHash, a.Active, a.Superuser, a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	return err
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	return r.getOne(ctx, `a.id = ?`, id)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	return r.getOne(ctx, `a.email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	return r.getOne(ctx, `a.username = ?`, username)
}

func (r *accountsRepo) UpdateIdentity(ctx context.Context, a domain.Account) error {
	return r.execOne(ctx, `
		UPDATE accounts
		SET username = ?, email = ?, first_name = ?, middle_name = ?, last_name = ?, updated_at = ?
		WHERE id = ?`,
		a.Username, strings.ToLower(a.Email), a.FirstName, a.MiddleName, a.LastName,
		time.Now().UTC(), a.ID,
	)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, accountID, hash string) error {
	return r.execOne(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), accountID,
	)
}

func (r *accountsRepo) SetActive(ctx context.Context, accountID string, active bool) error {
	return r.execOne(ctx,
		`UPDATE accounts SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), accountID,
	)
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, accountID string) error {
	return r.execOne(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int64
	if err := r.queryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return false, r.d.mapErr(err)
	}
	return n == 0, nil
}

func normalizeAccountTimes(a *domain.Account) {
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
}
