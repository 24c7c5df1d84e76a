package sqlbase

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
)

// The two aggregate expressions below are the only way totals are computed.
// Both are evaluated against a profile aliased p.
const (
	duesSumExpr     = `CAST(COALESCE((SELECT SUM(d.amount_cents) FROM dues d WHERE d.profile_id = p.id), 0) AS BIGINT)`
	paymentsSumExpr = `CAST(COALESCE((SELECT SUM(x.amount_cents) FROM payments x WHERE x.profile_id = p.id), 0) AS BIGINT)`
)

const dueColumns = `d.id, d.profile_id, d.amount_cents, d.description, d.due_date, d.created_at`

const paymentColumns = `x.id, x.profile_id, x.amount_cents, x.payment_date, x.notes, x.recorded_by, x.recorded_at`

type duesRepo struct{ conn }

func scanDue(s scanner) (domain.Due, error) {
	var (
		d     domain.Due
		cents int64
	)
	if err := s.Scan(&d.ID, &d.ProfileID, &cents, &d.Description, &d.DueDate, &d.CreatedAt); err != nil {
		return domain.Due{}, err
	}
	d.Amount = money.FromMinor(cents)
	d.DueDate = dateOnly(d.DueDate)
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}

const insertDue = `
	INSERT INTO dues (id, profile_id, amount_cents, description, due_date, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

func dueArgs(d domain.Due) []any {
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return []any{d.ID, d.ProfileID, d.Amount.Minor(), d.Description, dateOnly(d.DueDate), created.UTC()}
}

func (r *duesRepo) CreateDue(ctx context.Context, d domain.Due) error {
	_, err := r.exec(ctx, insertDue, dueArgs(d)...)
	return err
}

func (r *duesRepo) CreateDues(ctx context.Context, dues []domain.Due) error {
	if len(dues) == 0 {
		return nil
	}

	stmt, err := r.prepare(ctx, insertDue)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range dues {
		if _, err := stmt.ExecContext(ctx, dueArgs(d)...); err != nil {
			return r.d.mapErr(err)
		}
	}
	return nil
}

func (r *duesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Due, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Due
	for rows.Next() {
		d, err := scanDue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *duesRepo) ListDuesByProfile(ctx context.Context, profileID string) ([]domain.Due, error) {
	return r.list(ctx, `
		SELECT `+dueColumns+` FROM dues d
		WHERE d.profile_id = ?
		ORDER BY d.due_date DESC, d.created_at DESC, d.id DESC`,
		profileID,
	)
}

func (r *duesRepo) ListRecentDues(ctx context.Context, limit int) ([]domain.Due, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.list(ctx, `
		SELECT `+dueColumns+` FROM dues d
		JOIN profiles p ON p.id = d.profile_id
		JOIN accounts a ON a.id = p.account_id
		WHERE a.superuser = ?
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT ?`,
		false, limit,
	)
}

type paymentsRepo struct{ conn }

func scanPayment(s scanner) (domain.Payment, error) {
	var (
		p          domain.Payment
		cents      int64
		recordedBy sql.NullString
	)
	if err := s.Scan(&p.ID, &p.ProfileID, &cents, &p.PaymentDate, &p.Notes, &recordedBy, &p.RecordedAt); err != nil {
		return domain.Payment{}, err
	}
	p.Amount = money.FromMinor(cents)
	p.PaymentDate = dateOnly(p.PaymentDate)
	p.RecordedBy = recordedBy.String
	p.RecordedAt = p.RecordedAt.UTC()
	return p, nil
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.Payment) error {
	recorded := p.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := r.exec(ctx, `
		INSERT INTO payments (id, profile_id, amount_cents, payment_date, notes, recorded_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ProfileID, p.Amount.Minor(), dateOnly(p.PaymentDate), p.Notes,
		nullString(p.RecordedBy), recorded.UTC(),
	)
	return err
}

func (r *paymentsRepo) ListPaymentsByProfile(ctx context.Context, profileID string) ([]domain.Payment, error) {
	rows, err := r.query(ctx, `
		SELECT `+paymentColumns+` FROM payments x
		WHERE x.profile_id = ?
		ORDER BY x.payment_date DESC, x.recorded_at DESC, x.id DESC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type ledgerRepo struct{ conn }

func (r *ledgerRepo) SumsForProfile(ctx context.Context, profileID string) (money.Amount, money.Amount, error) {
	var dues, payments int64
	err := r.queryRow(ctx,
		`SELECT `+duesSumExpr+`, `+paymentsSumExpr+` FROM profiles p WHERE p.id = ?`,
		profileID,
	).Scan(&dues, &payments)
	if err != nil {
		return money.Zero, money.Zero, r.d.mapErr(err)
	}
	return money.FromMinor(dues), money.FromMinor(payments), nil
}

func (r *ledgerRepo) ListMemberTotals(ctx context.Context, f store.MemberFilter) ([]domain.MemberTotals, error) {
	where, args := memberWhere(f)
	rows, err := r.query(ctx,
		`SELECT `+memberColumns+`, `+duesSumExpr+`, `+paymentsSumExpr+memberFrom+where+memberOrder,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MemberTotals
	for rows.Next() {
		var dues, payments int64
		m, err := scanMember(rows, &dues, &payments)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.MemberTotals{
			Member: m,
			Totals: domain.NewTotals(money.FromMinor(dues), money.FromMinor(payments)),
		})
	}
	return out, rows.Err()
}
