package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// LedgerHandler serves dues, payments and the financial report.
type LedgerHandler struct {
	Ledger  *service.LedgerService
	Reports *service.ReportService
}

// RecordPayment godoc
//
//	@Summary		Record a payment
//	@Description	Payments are append-only. An omitted payment_date means today.
//	@Tags			Ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubapi.PaymentRequest	true	"Payment"
//	@Success		201		{object}	clubapi.Payment
//	@Failure		400		{object}	clubapi.ErrorResponse
//	@Failure		403		{object}	clubapi.ErrorResponse
//	@Failure		404		{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/payments [post].
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req clubapi.PaymentRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pay, err := h.Ledger.RecordPayment(r.Context(), principalFrom(r.Context()), service.PaymentInput{
		ProfileID: req.ProfileID,
		Amount:    req.Amount,
		Date:      date,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPayment(pay))
}

// CreateDue godoc
//
//	@Summary	Charge a due to one member
//	@Tags		Ledger
//	@Accept		json
//	@Produce	json
//	@Param		request	body		clubapi.DueRequest	true	"Due"
//	@Success	201		{object}	clubapi.Due
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Failure	404		{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/dues [post].
func (h *LedgerHandler) CreateDue(w http.ResponseWriter, r *http.Request) {
	var req clubapi.DueRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := parseDate("due_date", req.DueDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	due, err := h.Ledger.CreateDue(r.Context(), principalFrom(r.Context()), service.DueInput{
		ProfileID:   req.ProfileID,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDue(due))
}

// BulkCreateDue godoc
//
//	@Summary		Charge a due to every active member
//	@Description	Creates one due per active, non-admin member in a single transaction.
//	@Tags			Ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubapi.BulkDueRequest	true	"Due"
//	@Success		201		{object}	clubapi.BulkDueResponse
//	@Failure		400		{object}	clubapi.ErrorResponse
//	@Failure		403		{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/dues/bulk [post].
func (h *LedgerHandler) BulkCreateDue(w http.ResponseWriter, r *http.Request) {
	var req clubapi.BulkDueRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := parseDate("due_date", req.DueDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.Ledger.BulkCreateDue(r.Context(), principalFrom(r.Context()), service.BulkDueInput{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, clubapi.BulkDueResponse{Created: n})
}

// RecentDues godoc
//
//	@Summary	Most recently created dues
//	@Tags		Ledger
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum number of dues (default 10)"
//	@Success	200		{array}		clubapi.Due
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/dues/recent [get].
func (h *LedgerHandler) RecentDues(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	dues, err := h.Ledger.RecentDues(r.Context(), principalFrom(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDues(dues))
}

// FinancialReport godoc
//
//	@Summary		Financial report
//	@Description	Every ordinary member's dues, payments and balance with a summary. status filters to up_to_date or overdue members; format=csv downloads the report as a spreadsheet.
//	@Tags			Reports
//	@Produce		json
//	@Produce		text/csv
//	@Param			status	query		string	false	"all, up_to_date or overdue"
//	@Param			format	query		string	false	"json (default) or csv"
//	@Success		200		{object}	clubapi.FinancialReport
//	@Failure		403		{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/reports/financial [get].
func (h *LedgerHandler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ParseReportFilter(q.Get("status"))

	format := strings.ToLower(q.Get("format"))
	if format != "" && format != "json" && format != "csv" {
		writeBadRequest(w, "format must be json or csv")
		return
	}

	report, err := h.Reports.BuildReport(r.Context(), principalFrom(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format == "csv" {
		name := fmt.Sprintf("financial_report_%s.csv", report.GeneratedAt.Format("20060102"))
		if err := httpx.WriteCSV(w, name, report.WriteCSV); err != nil {
			slogx.FromContext(r.Context()).Warn("report download interrupted", slog.Any("error", err))
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toReport(report))
}
