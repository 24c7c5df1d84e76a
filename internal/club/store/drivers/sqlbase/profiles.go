package sqlbase

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
)

const profileColumns = `p.id, p.account_id, p.role, p.status, p.phone, p.address, p.city, p.country,
	p.invitation_hash, p.invitation_sent_at, p.created_at, p.updated_at`

const memberColumns = accountColumns + `, ` + profileColumns

const memberFrom = ` FROM profiles p JOIN accounts a ON a.id = p.account_id`

// memberOrder sorts the roster by surname then first name; id keeps ties stable.
const memberOrder = ` ORDER BY LOWER(a.last_name), LOWER(a.first_name), p.id`

type profilesRepo struct{ conn }

// profileRow holds the nullable and encoded columns of a profile.
type profileRow struct {
	role, status string
	invHash      sql.NullString
	invSentAt    sql.NullTime
}

func (pr *profileRow) dest(p *domain.Profile) []any {
	return []any{
		&p.ID, &p.AccountID, &pr.role, &pr.status, &p.Phone, &p.Address, &p.City, &p.Country,
		&pr.invHash, &pr.invSentAt, &p.CreatedAt, &p.UpdatedAt,
	}
}

func (pr *profileRow) finish(p *domain.Profile) error {
	role, err := domain.ParseRole(pr.role)
	if err != nil {
		return fmt.Errorf("profile %s: %w", p.ID, err)
	}
	status, err := domain.ParseStatus(pr.status)
	if err != nil {
		return fmt.Errorf("profile %s: %w", p.ID, err)
	}
	p.Role = role
	p.Status = status
	p.InvitationHash = pr.invHash.String
	p.InvitationSentAt = timePtr(pr.invSentAt)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return nil
}

func scanProfile(s scanner) (domain.Profile, error) {
	var (
		p  domain.Profile
		pr profileRow
	)
	if err := s.Scan(pr.dest(&p)...); err != nil {
		return domain.Profile{}, err
	}
	if err := pr.finish(&p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// scanMember reads memberColumns followed by any extra destinations.
func scanMember(s scanner, extra ...any) (domain.Member, error) {
	var (
		m  domain.Member
		pr profileRow
	)
	a := &m.Account
	dest := []any{
		&a.ID, &a.Username, &a.Email, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.PasswordHash, &a.Active, &a.Superuser, &a.CreatedAt, &a.UpdatedAt,
	}
	dest = append(dest, pr.dest(&m.Profile)...)
	dest = append(dest, extra...)

	if err := s.Scan(dest...); err != nil {
		return domain.Member{}, err
	}
	if err := pr.finish(&m.Profile); err != nil {
		return domain.Member{}, err
	}
	normalizeAccountTimes(a)
	return m, nil
}

// memberWhere renders the filter as a WHERE clause with its arguments.
func memberWhere(f store.MemberFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, `p.status = ?`)
		args = append(args, string(f.Status))
	}
	if f.ExcludeAdmins {
		conds = append(conds, `p.role <> ?`)
		args = append(args, domain.RoleAdmin.Code())
	}
	if f.ExcludeSuperusers {
		conds = append(conds, `a.superuser = ?`)
		args = append(args, false)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	if !p.Role.Valid() {
		return fmt.Errorf("profile %s: invalid role", p.ID)
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := r.exec(ctx, `
		INSERT INTO profiles (id, account_id, role, status, phone, address, city, country,
			invitation_hash, invitation_sent_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AccountID, p.Role.Code(), string(p.Status), p.Phone, p.Address, p.City, p.Country,
		nullString(p.InvitationHash), nullTime(p.InvitationSentAt), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return err
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	p, err := scanProfile(r.queryRow(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id = ?`, id))
	return p, r.d.mapErr(err)
}

func (r *profilesRepo) GetProfileByAccountID(ctx context.Context, accountID string) (domain.Profile, error) {
	p, err := scanProfile(r.queryRow(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.account_id = ?`, accountID))
	return p, r.d.mapErr(err)
}

func (r *profilesRepo) getMember(ctx context.Context, where string, arg any) (domain.Member, error) {
	m, err := scanMember(r.queryRow(ctx, `SELECT `+memberColumns+memberFrom+` WHERE `+where, arg))
	return m, r.d.mapErr(err)
}

func (r *profilesRepo) GetMember(ctx context.Context, accountID string) (domain.Member, error) {
	return r.getMember(ctx, `a.id = ?`, accountID)
}

func (r *profilesRepo) GetMemberByProfileID(ctx context.Context, profileID string) (domain.Member, error) {
	return r.getMember(ctx, `p.id = ?`, profileID)
}

func (r *profilesRepo) GetMemberByInvitationHash(ctx context.Context, hash string) (domain.Member, error) {
	if hash == "" {
		return domain.Member{}, store.ErrNotFound
	}
	return r.getMember(ctx, `p.invitation_hash = ?`, hash)
}

func (r *profilesRepo) ListMembers(ctx context.Context, f store.MemberFilter) ([]domain.Member, error) {
	where, args := memberWhere(f)
	rows, err := r.query(ctx, `SELECT `+memberColumns+memberFrom+where+memberOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *profilesRepo) UpdateContact(ctx context.Context, profileID string, c domain.ContactDetails) error {
	return r.execOne(ctx, `
		UPDATE profiles SET phone = ?, address = ?, city = ?, country = ?, updated_at = ?
		WHERE id = ?`,
		c.Phone, c.Address, c.City, c.Country, time.Now().UTC(), profileID,
	)
}

func (r *profilesRepo) UpdateRole(ctx context.Context, profileID string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("profile %s: invalid role", profileID)
	}
	return r.execOne(ctx,
		`UPDATE profiles SET role = ?, updated_at = ? WHERE id = ?`,
		role.Code(), time.Now().UTC(), profileID,
	)
}

func (r *profilesRepo) UpdateStatus(ctx context.Context, profileID string, status domain.Status) error {
	return r.execOne(ctx,
		`UPDATE profiles SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), profileID,
	)
}

func (r *profilesRepo) SetInvitation(ctx context.Context, profileID, hash string, sentAt time.Time) error {
	return r.execOne(ctx, `
		UPDATE profiles SET invitation_hash = ?, invitation_sent_at = ?, updated_at = ?
		WHERE id = ?`,
		hash, sentAt.UTC(), time.Now().UTC(), profileID,
	)
}

func (r *profilesRepo) ConsumeInvitation(ctx context.Context, profileID, hash string) error {
	if hash == "" {
		return store.ErrNotFound
	}
	return r.execOne(ctx, `
		UPDATE profiles SET invitation_hash = NULL, invitation_sent_at = NULL, updated_at = ?
		WHERE id = ? AND invitation_hash = ?`,
		time.Now().UTC(), profileID, hash,
	)
}

func (r *profilesRepo) ClearInvitation(ctx context.Context, profileID string) error {
	return r.execOne(ctx, `
		UPDATE profiles SET invitation_hash = NULL, invitation_sent_at = NULL, updated_at = ?
		WHERE id = ?`,
		time.Now().UTC(), profileID,
	)
}

func (r *profilesRepo) ClearInvitationsSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.exec(ctx, `
		UPDATE profiles SET invitation_hash = NULL, invitation_sent_at = NULL, updated_at = ?
		WHERE invitation_sent_at IS NOT NULL AND invitation_sent_at < ?`,
		time.Now().UTC(), cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
