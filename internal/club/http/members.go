package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/policy"
	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

// maxImportBody caps CSV roster uploads.
const maxImportBody = 5 << 20

// MemberHandler serves the roster and the signed-in member's own record.
// Members are addressed by account id.
type MemberHandler struct {
	Members     *service.MemberService
	Invitations *service.InvitationService
	Ledger      *service.LedgerService
}

// GetSelf godoc
//
//	@Summary	Own profile
//	@Tags		Me
//	@Produce	json
//	@Success	200	{object}	clubapi.Member
//	@Failure	401	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/me [get].
func (h *MemberHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	h.get(w, r, p.AccountID)
}

// UpdateSelf godoc
//
//	@Summary	Edit own profile
//	@Tags		Me
//	@Accept		json
//	@Produce	json
//	@Param		request	body		clubapi.ProfileUpdateRequest	true	"Fields to change"
//	@Success	200		{object}	clubapi.Member
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	401		{object}	clubapi.ErrorResponse
//	@Failure	409		{object}	clubapi.ErrorResponse	"Email already in use"
//	@Security	BearerAuth
//	@Router		/v1/me [patch].
func (h *MemberHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	h.update(w, r, p.AccountID)
}

// SelfFinances godoc
//
//	@Summary	Own financial status
//	@Tags		Me
//	@Produce	json
//	@Success	200	{object}	clubapi.FinancialStatus
//	@Failure	401	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/me/finances [get].
func (h *MemberHandler) SelfFinances(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if p.IsAnonymous() {
		writeError(w, r, policy.Authorize(p, policy.ViewFinancialStatus, policy.Self(p)))
		return
	}
	h.finances(w, r, p.ProfileID)
}

// List godoc
//
//	@Summary	Roster with ledger totals
//	@Tags		Members
//	@Produce	json
//	@Success	200	{array}		clubapi.RosterEntry
//	@Failure	401	{object}	clubapi.ErrorResponse
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/members [get].
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.ListMembers(r.Context(), principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]clubapi.RosterEntry, 0, len(members))
	for _, m := range members {
		out = append(out, clubapi.RosterEntry{Member: toMember(m.Member), Totals: toTotals(m.Totals)})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Create godoc
//
//	@Summary		Add a member
//	@Description	Creates an inactive account and its profile. Financial Secretaries may only add plain members. With send_invite the member is emailed an invitation link.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubapi.CreateMemberRequest	true	"New member"
//	@Success		201		{object}	clubapi.CreateMemberResponse
//	@Failure		400		{object}	clubapi.ErrorResponse
//	@Failure		403		{object}	clubapi.ErrorResponse
//	@Failure		409		{object}	clubapi.ErrorResponse	"Email already in use"
//	@Security		BearerAuth
//	@Router			/v1/members [post].
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clubapi.CreateMemberRequest
	if !decode(w, r, &req) {
		return
	}

	var role domain.Role
	if req.Role != "" {
		parsed, err := domain.ParseRole(req.Role)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		role = parsed
	}

	res, err := h.Members.CreateMember(r.Context(), principalFrom(r.Context()), service.NewMember{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      role,
	}, req.SendInvite)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := clubapi.CreateMemberResponse{Member: toMember(res.Member)}
	if res.Invitation != nil {
		out.Invitation = toInvitation(*res.Invitation)
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

// Import godoc
//
//	@Summary		Import members from CSV
//	@Description	Body is a CSV file with first_name, last_name and email columns and an optional role column. Each row succeeds or fails on its own.
//	@Tags			Members
//	@Accept			text/csv
//	@Produce		json
//	@Param			send_invite	query		bool	false	"Invite each imported member"
//	@Success		200			{object}	clubapi.BatchResponse
//	@Failure		400			{object}	clubapi.ErrorResponse	"Unreadable file or missing columns"
//	@Failure		403			{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/members/import [post].
func (h *MemberHandler) Import(w http.ResponseWriter, r *http.Request) {
	sendInvite, ok := boolQuery(w, r, "send_invite")
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBody)
	res, err := h.Members.ImportMembers(r.Context(), principalFrom(r.Context()), body, sendInvite)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBatch(res))
}

// BulkInvite godoc
//
//	@Summary		Invite a list of email addresses
//	@Description	Creates and invites a member for each address. Addresses already in use, or repeated in the list, fail individually.
//	@Tags			Members
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubapi.BulkInviteRequest	true	"Addresses"
//	@Success		200		{object}	clubapi.BatchResponse
//	@Failure		403		{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/members/invites [post].
func (h *MemberHandler) BulkInvite(w http.ResponseWriter, r *http.Request) {
	var req clubapi.BulkInviteRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.Invitations.BulkInvite(r.Context(), principalFrom(r.Context()), req.Emails)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBatch(res))
}

// Get godoc
//
//	@Summary	Member profile
//	@Tags		Members
//	@Produce	json
//	@Param		id	path		string	true	"Account ID"
//	@Success	200	{object}	clubapi.Member
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/members/{id} [get].
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, r.PathValue("id"))
}

func (h *MemberHandler) get(w http.ResponseWriter, r *http.Request, accountID string) {
	m, err := h.Members.GetMember(r.Context(), principalFrom(r.Context()), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMember(m))
}

// Update godoc
//
//	@Summary	Edit a member profile
//	@Tags		Members
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Account ID"
//	@Param		request	body		clubapi.ProfileUpdateRequest	true	"Fields to change"
//	@Success	200		{object}	clubapi.Member
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Failure	404		{object}	clubapi.ErrorResponse
//	@Failure	409		{object}	clubapi.ErrorResponse	"Email already in use"
//	@Security	BearerAuth
//	@Router		/v1/members/{id} [patch].
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, r.PathValue("id"))
}

func (h *MemberHandler) update(w http.ResponseWriter, r *http.Request, accountID string) {
	var req clubapi.ProfileUpdateRequest
	if !decode(w, r, &req) {
		return
	}

	m, err := h.Members.UpdateProfile(r.Context(), principalFrom(r.Context()), accountID, service.ProfileUpdate{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMember(m))
}

// Delete godoc
//
//	@Summary		Delete a member
//	@Description	Removes the account, its profile and its ledger. Entries the member recorded for others keep a blank recorder.
//	@Tags			Members
//	@Param			id	path	string	true	"Account ID"
//	@Success		204
//	@Failure		400	{object}	clubapi.ErrorResponse	"Own or superuser account"
//	@Failure		403	{object}	clubapi.ErrorResponse
//	@Failure		404	{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/members/{id} [delete].
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Members.DeleteMember(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Finances godoc
//
//	@Summary	Member financial status
//	@Tags		Members
//	@Produce	json
//	@Param		id	path		string	true	"Account ID"
//	@Success	200	{object}	clubapi.FinancialStatus
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/members/{id}/finances [get].
func (h *MemberHandler) Finances(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profileID(w, r, policy.ViewFinancialStatus)
	if !ok {
		return
	}
	h.finances(w, r, profileID)
}

func (h *MemberHandler) finances(w http.ResponseWriter, r *http.Request, profileID string) {
	fs, err := h.Ledger.LedgerTotals(r.Context(), principalFrom(r.Context()), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toFinancialStatus(fs))
}

// SetStatus godoc
//
//	@Summary	Set membership status
//	@Tags		Members
//	@Accept		json
//	@Param		id		path	string					true	"Account ID"
//	@Param		request	body	clubapi.StatusRequest	true	"ACT, SUS or REM"
//	@Success	204
//	@Failure	400	{object}	clubapi.ErrorResponse
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/members/{id}/status [put].
func (h *MemberHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req clubapi.StatusRequest
	if !decode(w, r, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	profileID, ok := h.profileID(w, r, policy.ManageRoster)
	if !ok {
		return
	}
	if err := h.Members.UpdateStatus(r.Context(), principalFrom(r.Context()), profileID, status); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetRole godoc
//
//	@Summary	Change a member's role
//	@Tags		Members
//	@Accept		json
//	@Param		id		path	string				true	"Account ID"
//	@Param		request	body	clubapi.RoleRequest	true	"ADM, FS or MEM"
//	@Success	204
//	@Failure	400	{object}	clubapi.ErrorResponse
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/members/{id}/role [put].
func (h *MemberHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req clubapi.RoleRequest
	if !decode(w, r, &req) {
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.Members.ChangeRole(r.Context(), principalFrom(r.Context()), r.PathValue("id"), role); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleAccess godoc
//
//	@Summary		Enable or disable sign-in
//	@Description	Flips whether the account may sign in. Admins cannot toggle themselves or a superuser.
//	@Tags			Members
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	clubapi.AccessResponse
//	@Failure		400	{object}	clubapi.ErrorResponse
//	@Failure		403	{object}	clubapi.ErrorResponse
//	@Failure		404	{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/members/{id}/access [post].
func (h *MemberHandler) ToggleAccess(w http.ResponseWriter, r *http.Request) {
	active, err := h.Members.ToggleAccess(r.Context(), principalFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubapi.AccessResponse{Active: active})
}

// ResetPassword godoc
//
//	@Summary		Reset a member's password
//	@Description	Sets a random password and emails it to the member. A delivery failure is reported as a warning; the new password is in place regardless.
//	@Tags			Members
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	clubapi.WarningResponse
//	@Failure		403	{object}	clubapi.ErrorResponse
//	@Failure		404	{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/members/{id}/password-reset [post].
func (h *MemberHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	warn, err := h.Members.ResetPassword(r.Context(), principalFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, clubapi.WarningResponse{Warning: warningText(warn)})
}

// Invite godoc
//
//	@Summary		(Re)send an invitation
//	@Description	Issues a fresh seven-day invitation to an inactive member, invalidating any earlier one.
//	@Tags			Members
//	@Produce		json
//	@Param			id	path		string	true	"Account ID"
//	@Success		200	{object}	clubapi.Invitation
//	@Failure		403	{object}	clubapi.ErrorResponse
//	@Failure		404	{object}	clubapi.ErrorResponse
//	@Failure		409	{object}	clubapi.ErrorResponse	"Account already active"
//	@Security		BearerAuth
//	@Router			/v1/members/{id}/invitation [post].
func (h *MemberHandler) Invite(w http.ResponseWriter, r *http.Request) {
	profileID, ok := h.profileID(w, r, policy.ManageRoster)
	if !ok {
		return
	}

	inv, err := h.Invitations.IssueInvitation(r.Context(), principalFrom(r.Context()), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInvitation(inv))
}

func (h *MemberHandler) profileID(w http.ResponseWriter, r *http.Request, a policy.Action) (string, bool) {
	id, err := h.Members.ProfileID(r.Context(), principalFrom(r.Context()), r.PathValue("id"), a)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	return id, true
}

// boolQuery reads an optional boolean query parameter.
func boolQuery(w http.ResponseWriter, r *http.Request, name string) (bool, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		writeBadRequest(w, name+" must be true or false")
		return false, false
	}
	return v, true
}
