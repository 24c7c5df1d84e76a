package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/domain"
	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
)

// SessionHandler serves the unauthenticated entry points: sign-in,
// invitation acceptance and bootstrap.
type SessionHandler struct {
	Sessions    *service.SessionService
	Bootstrap   *service.BootstrapService
	Invitations *service.InvitationService
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, code int, s service.Session) {
	httpx.WriteJSON(w, code, clubapi.SessionResponse{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(s.ExpiresAt).Seconds()),
		AccountID:   s.Account.ID,
	})
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Exchanges a username and password for a bearer token. Unknown users, wrong passwords and disabled accounts are indistinguishable.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubapi.SessionRequest	true	"Credentials"
//	@Success		200		{object}	clubapi.SessionResponse
//	@Failure		400		{object}	clubapi.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	clubapi.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	clubapi.ErrorResponse	"Too many attempts"
//	@Router			/v1/session [post].
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req clubapi.SessionRequest
	if !decode(w, r, &req) {
		return
	}

	s, err := h.Sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

// AcceptInvitation godoc
//
//	@Summary		Accept an invitation
//	@Description	Activates an invited account with the chosen username and password and signs the new member in. Tokens are single use and expire after seven days.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		clubapi.AcceptInvitationRequest	true	"Token and registration details"
//	@Success		201		{object}	clubapi.SessionResponse
//	@Failure		400		{object}	clubapi.ErrorResponse	"Invalid or expired token, or invalid details"
//	@Failure		409		{object}	clubapi.ErrorResponse	"Username or email already in use"
//	@Router			/v1/invitations/accept [post].
func (h *SessionHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req clubapi.AcceptInvitationRequest
	if !decode(w, r, &req) {
		return
	}

	account, err := h.Invitations.AcceptInvitation(r.Context(), req.Token, service.Registration{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Contact: domain.ContactDetails{
			Phone:   req.Phone,
			Address: req.Address,
			City:    req.City,
			Country: req.Country,
		},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := h.Sessions.Issue(r.Context(), account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeSession(w, http.StatusCreated, s)
}

// BootstrapSystem godoc
//
//	@Summary		Create the first superuser
//	@Description	Only available when a bootstrap token is configured, and only until the first account exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		clubapi.BootstrapRequest	true	"Superuser details"
//	@Success		201					{object}	clubapi.BootstrapResponse
//	@Failure		400					{object}	clubapi.ErrorResponse	"Invalid request"
//	@Failure		401					{object}	clubapi.ErrorResponse	"Missing or wrong bootstrap token"
//	@Failure		404					{object}	clubapi.ErrorResponse	"Bootstrap not enabled"
//	@Failure		409					{object}	clubapi.ErrorResponse	"Already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *SessionHandler) BootstrapSystem(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if h.Bootstrap.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, clubapi.ErrorResponse{
			Error:            clubapi.ErrorCodeNotFound,
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, clubapi.ErrorResponse{
			Error:            clubapi.ErrorCodeUnauthorized,
			ErrorDescription: "Bootstrap token is required in X-Bootstrap-Token header",
		})
		return
	}

	// 3. Parse request body
	var req clubapi.BootstrapRequest
	if !decode(w, r, &req) {
		return
	}

	// 4. Create the superuser
	m, err := h.Bootstrap.Bootstrap(r.Context(), token, domain.BootstrapData{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	l.Info("bootstrap complete")
	httpx.WriteJSON(w, http.StatusCreated, clubapi.BootstrapResponse{
		AccountID: m.Account.ID,
		Username:  m.Account.Username,
	})
}
