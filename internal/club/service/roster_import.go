package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

var requiredImportColumns = []string{"first_name", "last_name", "email"}

// ImportMembers adds one member per CSV row. The header must name
// first_name, last_name and email; role is optional. Unknown roles become
// Member, and only admins may import anything other than Member. Row
// failures are itemised; a bad header fails the whole import.
func (s *MemberService) ImportMembers(ctx context.Context, p domain.Principal, r io.Reader, sendInvite bool) (BatchResult, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.ManageRoster, policy.Target{}); err != nil {
		log.Warn("member import refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return BatchResult{}, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return BatchResult{}, invalidf("csv is empty")
	}
	if err != nil {
		return BatchResult{}, invalidf("csv header: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[h] = i
	}
	for _, c := range requiredImportColumns {
		if _, ok := cols[c]; !ok {
			return BatchResult{}, invalidf("csv is missing the %s column", c)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var result BatchResult
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		item := BatchItem{Index: row}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return result, err
		}
		if err != nil {
			// A malformed line does not stop the rows after it.
			item.Err = invalidf("row %d: %v", row, err)
			result.add(item)
			continue
		}
		item.Input = strings.Join(rec, ",")
		if isBlank(rec) {
			continue
		}

		in := NewMember{
			FirstName: field(rec, "first_name"),
			LastName:  field(rec, "last_name"),
			Email:     field(rec, "email"),
			Role:      importRole(p, field(rec, "role")),
		}
		if in, err = s.validateNewMember(in); err != nil {
			item.Err = err
			result.add(item)
			continue
		}

		res, err := createMember(ctx, s.Store, s.Invitations, in, sendInvite)
		item.Err = err
		item.AccountID = res.Member.Account.ID
		if res.Invitation != nil {
			item.Warning = res.Invitation.Warning
		}
		result.add(item)
	}

	log.Info("member import processed",
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.String("imported_by", p.AccountID),
	)
	return result, nil
}

// importRole resolves the role column. Anything unrecognised, and anything
// the importer may not assign, becomes Member.
func importRole(p domain.Principal, raw string) domain.Role {
	role, err := domain.ParseRole(raw)
	if err != nil || !policy.CanAssignRole(p, role) {
		return domain.RoleMember
	}
	return role
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
