package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
)

func toMember(m domain.Member) clubapi.Member {
	return clubapi.Member{
		AccountID:         m.Account.ID,
		ProfileID:         m.Profile.ID,
		Username:          m.Account.Username,
		Email:             m.Account.Email,
		FirstName:         m.Account.FirstName,
		MiddleName:        m.Account.MiddleName,
		LastName:          m.Account.LastName,
		FullName:          m.Account.FullName(),
		Role:              m.Profile.Role.Code(),
		Status:            string(m.Profile.Status),
		StatusLabel:       m.Profile.Status.Label(),
		Active:            m.Account.Active,
		Superuser:         m.Account.Superuser,
		Phone:             m.Profile.Phone,
		Address:           m.Profile.Address,
		City:              m.Profile.City,
		Country:           m.Profile.Country,
		InvitationPending: m.Profile.HasInvitation(),
		CreatedAt:         m.Account.CreatedAt,
	}
}

func toTotals(t domain.Totals) clubapi.Totals {
	return clubapi.Totals{
		TotalDues:       t.TotalDues,
		TotalPayments:   t.TotalPayments,
		Balance:         t.Balance,
		UpToDate:        t.UpToDate(),
		FinancialStatus: t.FinancialLabel(),
	}
}

func toDue(d domain.Due) clubapi.Due {
	return clubapi.Due{
		ID:          d.ID,
		ProfileID:   d.ProfileID,
		Amount:      d.Amount,
		Description: d.Description,
		DueDate:     d.DueDate.Format(clubapi.DateLayout),
		CreatedAt:   d.CreatedAt,
	}
}

func toDues(dues []domain.Due) []clubapi.Due {
	out := make([]clubapi.Due, 0, len(dues))
	for _, d := range dues {
		out = append(out, toDue(d))
	}
	return out
}

func toPayment(p domain.Payment) clubapi.Payment {
	return clubapi.Payment{
		ID:          p.ID,
		ProfileID:   p.ProfileID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(clubapi.DateLayout),
		Notes:       p.Notes,
		RecordedBy:  p.RecordedBy,
		RecordedAt:  p.RecordedAt,
	}
}

func toFinancialStatus(fs service.FinancialStatus) clubapi.FinancialStatus {
	out := clubapi.FinancialStatus{
		Member:   toMember(fs.Member),
		Totals:   toTotals(fs.Totals),
		Dues:     toDues(fs.Dues),
		Payments: make([]clubapi.Payment, 0, len(fs.Payments)),
	}
	for _, p := range fs.Payments {
		out.Payments = append(out.Payments, toPayment(p))
	}
	return out
}

func toInvitation(inv service.Invitation) *clubapi.Invitation {
	return &clubapi.Invitation{
		ProfileID: inv.ProfileID,
		Email:     inv.Email,
		SentAt:    inv.SentAt,
		ExpiresAt: inv.ExpiresAt,
		Warning:   warningText(inv.Warning),
	}
}

func toBatch(res service.BatchResult) clubapi.BatchResponse {
	out := clubapi.BatchResponse{
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Items:     make([]clubapi.BatchItem, 0, len(res.Items)),
	}
	for _, item := range res.Items {
		out.Items = append(out.Items, clubapi.BatchItem{
			Index:     item.Index,
			Input:     item.Input,
			AccountID: item.AccountID,
			Error:     warningText(item.Err),
			Warning:   warningText(item.Warning),
		})
	}
	return out
}

func toReport(r service.Report) clubapi.FinancialReport {
	out := clubapi.FinancialReport{
		Filter:      string(r.Filter),
		GeneratedAt: r.GeneratedAt,
		Rows:        make([]clubapi.ReportRow, 0, len(r.Rows)),
		Summary: clubapi.ReportSummary{
			TotalDues:     r.TotalDues,
			TotalPayments: r.TotalPayments,
			TotalBalance:  r.TotalBalance,
			UpToDateCount: r.UpToDateCount,
			MemberCount:   r.MemberCount,
		},
	}
	for _, row := range r.Rows {
		out.Rows = append(out.Rows, clubapi.ReportRow{
			AccountID: row.AccountID,
			ProfileID: row.ProfileID,
			FullName:  row.FullName,
			Status:    row.Status.Label(),
			Totals:    toTotals(row.Totals),
		})
	}
	return out
}

func toEvent(e domain.Event) clubapi.Event {
	return clubapi.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Format(clubapi.DateLayout),
		Location:    e.Location,
		Published:   e.Published,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toPhoto(p domain.Photo) clubapi.Photo {
	return clubapi.Photo{
		ID:         p.ID,
		EventID:    p.EventID,
		ImagePath:  p.ImagePath,
		Caption:    p.Caption,
		Featured:   p.Featured,
		UploadedBy: p.UploadedBy,
		UploadedAt: p.UploadedAt,
	}
}

func toAnnouncement(a domain.Announcement) clubapi.Announcement {
	return clubapi.Announcement{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		PublishDate: a.PublishDate,
		Published:   a.Published,
		AuthorID:    a.AuthorID,
		CreatedAt:   a.CreatedAt,
	}
}

// parseDate reads a YYYY-MM-DD date. An empty string is the zero time.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(clubapi.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", service.ErrValidation, field)
	}
	return t, nil
}
