// Package sqlbase implements store.Store on database/sql. The SQL is written
// once in the portable subset shared by SQLite and Postgres; each driver
// package supplies a Dialect for placeholders, error classification and
// migrations.
package sqlbase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/store"
)

// Dialect captures what differs between database engines.
type Dialect struct {
	Name string

	// Placeholder renders the n-th (1-based) bind parameter. Nil keeps "?".
	Placeholder func(n int) string

	// IsUniqueViolation reports whether err is a unique or primary key
	// constraint failure.
	IsUniqueViolation func(err error) bool

	// Migrate applies the embedded migrations for this engine.
	Migrate func(db *sql.DB) error
}

// DollarPlaceholder renders Postgres style $n parameters.
func DollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

func (d Dialect) rebind(query string) string {
	if d.Placeholder == nil || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case d.IsUniqueViolation != nil && d.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	}
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// conn binds a querier to a dialect; every repository embeds one.
type conn struct {
	q querier
	d Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.q.ExecContext(ctx, c.d.rebind(query), args...)
	return res, c.d.mapErr(err)
}

// execOne runs an update or delete that must touch exactly one row.
func (c conn) execOne(ctx context.Context, query string, args ...any) error {
	res, err := c.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := c.q.QueryContext(ctx, c.d.rebind(query), args...)
	return rows, c.d.mapErr(err)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.d.rebind(query), args...)
}

func (c conn) prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	stmt, err := c.q.PrepareContext(ctx, c.d.rebind(query))
	return stmt, c.d.mapErr(err)
}

// Store is the database/sql backed store.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open database. The caller keeps ownership of driver specific
// setup (pragmas, pool sizing); Close closes db.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d}
}

func (s *Store) conn() conn { return conn{q: s.db, d: s.dialect} }

// DB exposes the underlying handle for driver level tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ApplyMigrations applies any pending migrations embedded in the driver.
func (s *Store) ApplyMigrations() error {
	if s.dialect.Migrate == nil {
		return fmt.Errorf("sqlbase: %s dialect has no migrations", s.dialect.Name)
	}
	return s.dialect.Migrate(s.db)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, dialect: s.dialect}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts           { return &accountsRepo{s.conn()} }
func (s *Store) Profiles() store.Profiles           { return &profilesRepo{s.conn()} }
func (s *Store) Dues() store.Dues                   { return &duesRepo{s.conn()} }
func (s *Store) Payments() store.Payments           { return &paymentsRepo{s.conn()} }
func (s *Store) Ledger() store.Ledger               { return &ledgerRepo{s.conn()} }
func (s *Store) Events() store.Events               { return &eventsRepo{s.conn()} }
func (s *Store) Photos() store.Photos               { return &photosRepo{s.conn()} }
func (s *Store) Announcements() store.Announcements { return &announcementsRepo{s.conn()} }

type txStore struct {
	tx      *sql.Tx
	dialect Dialect
}

func (t *txStore) conn() conn { return conn{q: t.tx, d: t.dialect} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op for transactions; the connection is already held.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx

func (t *txStore) Accounts() store.Accounts           { return &accountsRepo{t.conn()} }
func (t *txStore) Profiles() store.Profiles           { return &profilesRepo{t.conn()} }
func (t *txStore) Dues() store.Dues                   { return &duesRepo{t.conn()} }
func (t *txStore) Payments() store.Payments           { return &paymentsRepo{t.conn()} }
func (t *txStore) Ledger() store.Ledger               { return &ledgerRepo{t.conn()} }
func (t *txStore) Events() store.Events               { return &eventsRepo{t.conn()} }
func (t *txStore) Photos() store.Photos               { return &photosRepo{t.conn()} }
func (t *txStore) Announcements() store.Announcements { return &announcementsRepo{t.conn()} }

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time.UTC()
	return &v
}

// dateOnly normalises calendar dates to midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
