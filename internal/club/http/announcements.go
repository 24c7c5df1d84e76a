package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

type AnnouncementHandler struct {
	Announcements *service.AnnouncementService
}

// List godoc
//
//	@Summary		List announcements
//	@Description	Admins see every announcement; everyone else sees published ones whose publish date has passed.
//	@Tags			Announcements
//	@Produce		json
//	@Success		200	{array}	clubapi.Announcement
//	@Router			/v1/announcements [get].
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Announcements.ListAnnouncements(r.Context(), principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]clubapi.Announcement, 0, len(list))
	for _, a := range list {
		out = append(out, toAnnouncement(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func announcementInput(req clubapi.AnnouncementRequest) service.AnnouncementInput {
	var publishDate time.Time
	if req.PublishDate != nil {
		publishDate = *req.PublishDate
	}
	return service.AnnouncementInput{
		Title:       req.Title,
		Content:     req.Content,
		PublishDate: publishDate,
		Published:   req.Published,
	}
}

// Create godoc
//
//	@Summary	Post an announcement
//	@Tags		Announcements
//	@Accept		json
//	@Produce	json
//	@Param		request	body		clubapi.AnnouncementRequest	true	"Announcement"
//	@Success	201		{object}	clubapi.Announcement
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/announcements [post].
func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clubapi.AnnouncementRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Announcements.CreateAnnouncement(r.Context(), principalFrom(r.Context()), announcementInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAnnouncement(a))
}

// Update godoc
//
//	@Summary	Edit an announcement
//	@Tags		Announcements
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Announcement ID"
//	@Param		request	body		clubapi.AnnouncementRequest	true	"Announcement"
//	@Success	200		{object}	clubapi.Announcement
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Failure	404		{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/announcements/{id} [patch].
func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req clubapi.AnnouncementRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Announcements.UpdateAnnouncement(r.Context(), principalFrom(r.Context()), r.PathValue("id"), announcementInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAnnouncement(a))
}

// SetPublished godoc
//
//	@Summary	Publish or withdraw an announcement
//	@Tags		Announcements
//	@Accept		json
//	@Param		id		path	string						true	"Announcement ID"
//	@Param		request	body	clubapi.PublishedRequest	true	"Published flag"
//	@Success	204
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/announcements/{id}/published [put].
func (h *AnnouncementHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req clubapi.PublishedRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Announcements.SetAnnouncementPublished(r.Context(), principalFrom(r.Context()), r.PathValue("id"), req.Published); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
//
//	@Summary	Delete an announcement
//	@Tags		Announcements
//	@Param		id	path	string	true	"Announcement ID"
//	@Success	204
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/announcements/{id} [delete].
func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Announcements.DeleteAnnouncement(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
