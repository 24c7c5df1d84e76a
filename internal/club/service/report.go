package service

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/store"
	"github.com/aussiebroadwan/clubhouse/pkg/money"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

type ReportFilter string

const (
	FilterAll      ReportFilter = "all"
	FilterUpToDate ReportFilter = "up_to_date"
	FilterOverdue  ReportFilter = "overdue"
)

// ParseReportFilter maps a query value to a filter; anything unknown is all.
func ParseReportFilter(s string) ReportFilter {
	switch ReportFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterUpToDate:
		return FilterUpToDate
	case FilterOverdue:
		return FilterOverdue
	}
	return FilterAll
}

func (f ReportFilter) keep(t domain.Totals) bool {
	switch f {
	case FilterUpToDate:
		return t.UpToDate()
	case FilterOverdue:
		return !t.UpToDate()
	}
	return true
}

type ReportRow struct {
	AccountID string
	ProfileID string
	FullName  string
	Totals    domain.Totals
	Status    domain.Status
	UpToDate  bool
}

// Report is the financial position of every ordinary member. Aggregates
// cover the filtered rows only.
type Report struct {
	Filter        ReportFilter
	GeneratedAt   time.Time
	Rows          []ReportRow
	TotalDues     money.Amount
	TotalPayments money.Amount
	TotalBalance  money.Amount
	UpToDateCount int
	MemberCount   int
}

type ReportService struct {
	Store store.Store
	Now   Clock
}

// BuildReport assembles the report for admins and financial secretaries.
// Rows are ordered by surname, first name, then id.
func (s *ReportService) BuildReport(ctx context.Context, p domain.Principal, filter ReportFilter) (Report, error) {
	log := slogx.FromContext(ctx)

	if err := policy.Authorize(p, policy.ViewFinancialReport, policy.Target{}); err != nil {
		log.Warn("financial report refused", slog.String("account_id", p.AccountID), slog.Any("error", err))
		return Report{}, err
	}

	members, err := s.Store.Ledger().ListMemberTotals(ctx, store.MemberFilter{
		ExcludeAdmins:     true,
		ExcludeSuperusers: true,
	})
	if err != nil {
		log.Error("failed to load member totals", slog.Any("error", err))
		return Report{}, err
	}

	r := Report{
		Filter:      ParseReportFilter(string(filter)),
		GeneratedAt: s.Now.now(),
		Rows:        make([]ReportRow, 0, len(members)),
	}
	for _, m := range members {
		if !r.Filter.keep(m.Totals) {
			continue
		}
		row := ReportRow{
			AccountID: m.Account.ID,
			ProfileID: m.Profile.ID,
			FullName:  m.Account.FullName(),
			Totals:    m.Totals,
			Status:    m.Profile.Status,
			UpToDate:  m.Totals.UpToDate(),
		}
		r.Rows = append(r.Rows, row)

		r.TotalDues = r.TotalDues.Add(row.Totals.TotalDues)
		r.TotalPayments = r.TotalPayments.Add(row.Totals.TotalPayments)
		r.TotalBalance = r.TotalBalance.Add(row.Totals.Balance)
		if row.UpToDate {
			r.UpToDateCount++
		}
	}
	r.MemberCount = len(r.Rows)
	return r, nil
}

// WriteCSV writes one line per row followed by a blank line and a summary
// block.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Member Name", "Total Dues", "Total Payments", "Balance", "Status", "Financial Status"},
	}
	for _, row := range r.Rows {
		records = append(records, []string{
			row.FullName,
			row.Totals.TotalDues.String(),
			row.Totals.TotalPayments.String(),
			row.Totals.Balance.String(),
			row.Status.Label(),
			row.Totals.FinancialLabel(),
		})
	}
	records = append(records,
		[]string{},
		[]string{"Summary"},
		[]string{"Total Dues:", r.TotalDues.String()},
		[]string{"Total Payments:", r.TotalPayments.String()},
		[]string{"Total Balance:", r.TotalBalance.String()},
		[]string{"Up to Date Members:", strconv.Itoa(r.UpToDateCount) + "/" + strconv.Itoa(r.MemberCount)},
	)

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
