package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"clubsite/internal/content"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
)

// ContentHandler serves coordinators, clubs and the gallery
type ContentHandler struct {
	content *content.Service
	logger  *logger.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentSvc *content.Service, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		content: contentSvc,
		logger:  logger.Named("content"),
	}
}

// RegisterRoutes mounts the public content routes
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/coordinators", h.Coordinators)
	r.Get("/coordinators/{id}", h.Coordinator)
	r.Get("/clubs", h.Clubs)
	r.Get("/clubs/{id}", h.Club)
	r.Get("/gallery", h.Gallery)
}

// Coordinators handles GET /api/coordinators
func (h *ContentHandler) Coordinators(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.content.GetCoordinators(r.Context()))
}

// Coordinator handles GET /api/coordinators/{id}
func (h *ContentHandler) Coordinator(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	c, ok := h.content.CoordinatorByID(r.Context(), id)
	if !ok {
		respondError(w, r, h.logger, errors.NewNotFoundError("Coordinator not found"))
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Clubs handles GET /api/clubs
func (h *ContentHandler) Clubs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.content.GetClubs(r.Context()))
}

// Club handles GET /api/clubs/{id}
func (h *ContentHandler) Club(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	club, ok := h.content.ClubByID(r.Context(), id)
	if !ok {
		respondError(w, r, h.logger, errors.NewNotFoundError("Club not found"))
		return
	}
	respondJSON(w, http.StatusOK, club)
}

// Gallery handles GET /api/gallery
func (h *ContentHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.content.GetGalleryImages(r.Context()))
}
