package http

import (
	"net/http"

	"github.com/aussiebroadwan/clubhouse/internal/club/service"
	"github.com/aussiebroadwan/clubhouse/pkg/clubapi"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
)

// GalleryHandler serves club events and their photos. Published events are
// public; drafts are visible to admins only.
type GalleryHandler struct {
	Gallery *service.GalleryService
}

// List godoc
//
//	@Summary	List events
//	@Tags		Gallery
//	@Produce	json
//	@Success	200	{array}	clubapi.Event
//	@Router		/v1/events [get].
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.Gallery.ListEvents(r.Context(), principalFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]clubapi.Event, 0, len(events))
	for _, e := range events {
		out = append(out, toEvent(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// Get godoc
//
//	@Summary	Event with photos
//	@Tags		Gallery
//	@Produce	json
//	@Param		id	path		string	true	"Event ID"
//	@Success	200	{object}	clubapi.EventDetail
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Router		/v1/events/{id} [get].
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Gallery.GetEvent(r.Context(), principalFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := clubapi.EventDetail{Event: toEvent(detail.Event), Photos: make([]clubapi.Photo, 0, len(detail.Photos))}
	for _, p := range detail.Photos {
		out.Photos = append(out.Photos, toPhoto(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *GalleryHandler) eventInput(w http.ResponseWriter, r *http.Request) (service.EventInput, bool) {
	var req clubapi.EventRequest
	if !decode(w, r, &req) {
		return service.EventInput{}, false
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return service.EventInput{}, false
	}
	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Published:   req.Published,
	}, true
}

// Create godoc
//
//	@Summary	Create an event
//	@Tags		Gallery
//	@Accept		json
//	@Produce	json
//	@Param		request	body		clubapi.EventRequest	true	"Event"
//	@Success	201		{object}	clubapi.Event
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/events [post].
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.eventInput(w, r)
	if !ok {
		return
	}
	e, err := h.Gallery.CreateEvent(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEvent(e))
}

// Update godoc
//
//	@Summary	Replace an event's details
//	@Tags		Gallery
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Event ID"
//	@Param		request	body		clubapi.EventRequest	true	"Event"
//	@Success	200		{object}	clubapi.Event
//	@Failure	400		{object}	clubapi.ErrorResponse
//	@Failure	403		{object}	clubapi.ErrorResponse
//	@Failure	404		{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/events/{id} [patch].
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.eventInput(w, r)
	if !ok {
		return
	}
	e, err := h.Gallery.UpdateEvent(r.Context(), principalFrom(r.Context()), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEvent(e))
}

// Delete godoc
//
//	@Summary	Delete an event and its photos
//	@Tags		Gallery
//	@Param		id	path	string	true	"Event ID"
//	@Success	204
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/events/{id} [delete].
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Gallery.DeleteEvent(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPhoto godoc
//
//	@Summary		Attach a photo to an event
//	@Description	Records an already stored image; uploading the file itself is handled elsewhere.
//	@Tags			Gallery
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Event ID"
//	@Param			request	body		clubapi.PhotoRequest	true	"Photo"
//	@Success		201		{object}	clubapi.Photo
//	@Failure		400		{object}	clubapi.ErrorResponse
//	@Failure		403		{object}	clubapi.ErrorResponse
//	@Failure		404		{object}	clubapi.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/events/{id}/photos [post].
func (h *GalleryHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var req clubapi.PhotoRequest
	if !decode(w, r, &req) {
		return
	}
	photo, err := h.Gallery.AddPhoto(r.Context(), principalFrom(r.Context()), r.PathValue("id"), service.PhotoInput{
		ImagePath: req.ImagePath,
		Caption:   req.Caption,
		Featured:  req.Featured,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPhoto(photo))
}

// DeletePhoto godoc
//
//	@Summary	Delete a photo
//	@Tags		Gallery
//	@Param		id	path	string	true	"Photo ID"
//	@Success	204
//	@Failure	403	{object}	clubapi.ErrorResponse
//	@Failure	404	{object}	clubapi.ErrorResponse
//	@Security	BearerAuth
//	@Router		/v1/photos/{id} [delete].
func (h *GalleryHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.Gallery.DeletePhoto(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
