package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clubsite/internal/calendar"
	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/internal/middleware"
	"clubsite/internal/service"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
)

// maxICSBytes bounds an uploaded calendar
const maxICSBytes = 2 << 20

// AdminHandler serves the authenticated content editing endpoints
type AdminHandler struct {
	content  *content.Service
	services *service.Services
	logger   *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(contentSvc *content.Service, services *service.Services, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		content:  contentSvc,
		services: services,
		logger:   logger.Named("admin"),
	}
}

// RegisterRoutes mounts /admin. Login is public, everything else requires
// an admin bearer token.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(h.services.Auth, h.logger))

			r.Get("/me", h.Me)
			r.Delete("/content/{kind}", h.ResetContent)
			r.Post("/backup", h.Backup)

			r.Put("/events", h.SaveEvents)
			r.Post("/events", h.CreateEvent)
			r.Post("/events/import", h.ImportEvents)
			r.Get("/events/export.xlsx", h.ExportEvents)
			r.Put("/events/{id}", h.UpdateEvent)
			r.Delete("/events/{id}", h.DeleteEvent)
			r.Get("/events/{id}/registrations", h.Registrations)

			r.Put("/coordinators", h.SaveCoordinators)
			r.Post("/coordinators", h.CreateCoordinator)
			r.Put("/coordinators/{id}", h.UpdateCoordinator)
			r.Delete("/coordinators/{id}", h.DeleteCoordinator)

			r.Put("/clubs", h.SaveClubs)
			r.Post("/clubs", h.CreateClub)
			r.Put("/clubs/{id}", h.UpdateClub)
			r.Delete("/clubs/{id}", h.DeleteClub)

			r.Put("/gallery", h.SaveGallery)
			r.Post("/gallery", h.AddGalleryImage)
			r.Post("/gallery/youtube", h.ImportPlaylist)
			r.Delete("/gallery/{index}", h.RemoveGalleryImage)
		})
	})
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.services.Auth == nil {
		respondError(w, r, h.logger, errors.NewUnavailableError("Admin access is not configured"))
		return
	}
	var req domain.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	resp, err := h.services.Auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/admin/me
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.AdminFromContext(r.Context())
	respondJSON(w, http.StatusOK, claims)
}

// ResetContent handles DELETE /api/admin/content/{kind}
func (h *AdminHandler) ResetContent(w http.ResponseWriter, r *http.Request) {
	kind, ok := content.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, r, h.logger, errors.NewNotFoundError("Unknown content kind"))
		return
	}
	if err := h.content.Reset(r.Context(), kind); err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to reset content", err))
		return
	}
	h.audit(r, "reset", string(kind))
	respondMessage(w, http.StatusOK, fmt.Sprintf("%s reset to defaults", kind))
}

// Backup handles POST /api/admin/backup
func (h *AdminHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if h.services.Backup == nil {
		respondError(w, r, h.logger, errors.NewUnavailableError("Backups are not configured"))
		return
	}
	if err := h.services.Backup.Sync(r.Context()); err != nil {
		respondError(w, r, h.logger, errors.NewExternalError("Backup failed", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"lastSync": h.services.Backup.LastSync()})
}

// SaveEvents handles PUT /api/admin/events
func (h *AdminHandler) SaveEvents(w http.ResponseWriter, r *http.Request) {
	var events []domain.Event
	if err := decodeJSON(w, r, &events); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	events, err := content.PrepareEvents(events)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.content.SaveEvents(r.Context(), events); err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save events", err))
		return
	}
	h.audit(r, "save", string(content.KindEvents))
	respondJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/admin/events
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	h.upsertEvent(w, r, 0)
}

// UpdateEvent handles PUT /api/admin/events/{id}
func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if _, ok := h.content.EventByID(r.Context(), id); !ok {
		respondError(w, r, h.logger, errors.NewNotFoundError("Event not found"))
		return
	}
	h.upsertEvent(w, r, id)
}

func (h *AdminHandler) upsertEvent(w http.ResponseWriter, r *http.Request, id int) {
	var event domain.Event
	if err := decodeJSON(w, r, &event); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	event.ID = id
	event, err := content.PrepareEvent(event)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	saved, created, err := h.content.UpsertEvent(r.Context(), event)
	if err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save event", err))
		return
	}
	h.audit(r, "upsert", fmt.Sprintf("event:%d", saved.ID))
	respondJSON(w, createdStatus(created), saved)
}

// DeleteEvent handles DELETE /api/admin/events/{id}
func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.content.DeleteEvent(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "delete", fmt.Sprintf("event:%d", id))
	respondMessage(w, http.StatusOK, "Event deleted")
}

// ImportEvents handles POST /api/admin/events/import with an iCalendar body.
// Imported events are appended with fresh ids.
func (h *AdminHandler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxICSBytes)
	imported, err := calendar.ImportICS(body, h.services.Countdown.Location(), h.services.Countdown.Now())
	if err != nil {
		respondError(w, r, h.logger, errors.NewValidationError("Invalid calendar", map[string]interface{}{"error": err.Error()}))
		return
	}
	if len(imported) == 0 {
		respondError(w, r, h.logger, errors.NewValidationError("Calendar contains no usable events", nil))
		return
	}

	added := make([]domain.Event, 0, len(imported))
	for _, e := range imported {
		e.ID = 0
		prepared, err := content.PrepareEvent(e)
		if err != nil {
			h.logger.WithError(err).WithField("title", e.Title).Debug("Skipping imported event")
			continue
		}
		added = append(added, prepared)
	}

	events := h.content.GetEvents(r.Context())
	next := 0
	for _, e := range events {
		if e.ID > next {
			next = e.ID
		}
	}
	for i := range added {
		next++
		added[i].ID = next
	}
	if err := h.content.SaveEvents(r.Context(), append(events, added...)); err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save events", err))
		return
	}

	h.audit(r, "import", strconv.Itoa(len(added))+" events")
	respondJSON(w, http.StatusCreated, added)
}

// ExportEvents handles GET /api/admin/events/export.xlsx
func (h *AdminHandler) ExportEvents(w http.ResponseWriter, r *http.Request) {
	buf, filename, err := h.services.Export.EventsWorkbook(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Registrations handles GET /api/admin/events/{id}/registrations
func (h *AdminHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	list, err := h.services.Registrations.List(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// SaveCoordinators handles PUT /api/admin/coordinators
func (h *AdminHandler) SaveCoordinators(w http.ResponseWriter, r *http.Request) {
	var items []domain.Coordinator
	if err := decodeJSON(w, r, &items); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	for i := range items {
		prepared, err := content.PrepareCoordinator(items[i])
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		items[i] = prepared
	}
	if err := h.content.SaveCoordinators(r.Context(), items); err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save coordinators", err))
		return
	}
	h.audit(r, "save", string(content.KindCoordinators))
	respondJSON(w, http.StatusOK, items)
}

// CreateCoordinator handles POST /api/admin/coordinators
func (h *AdminHandler) CreateCoordinator(w http.ResponseWriter, r *http.Request) {
	h.upsertCoordinator(w, r, 0)
}

// UpdateCoordinator handles PUT /api/admin/coordinators/{id}
func (h *AdminHandler) UpdateCoordinator(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if _, ok := h.content.CoordinatorByID(r.Context(), id); !ok {
		respondError(w, r, h.logger, errors.NewNotFoundError("Coordinator not found"))
		return
	}
	h.upsertCoordinator(w, r, id)
}

func (h *AdminHandler) upsertCoordinator(w http.ResponseWriter, r *http.Request, id int) {
	var c domain.Coordinator
	if err := decodeJSON(w, r, &c); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	c.ID = id
	c, err := content.PrepareCoordinator(c)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	saved, created, err := h.content.UpsertCoordinator(r.Context(), c)
	if err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save coordinator", err))
		return
	}
	h.audit(r, "upsert", fmt.Sprintf("coordinator:%d", saved.ID))
	respondJSON(w, createdStatus(created), saved)
}

// DeleteCoordinator handles DELETE /api/admin/coordinators/{id}
func (h *AdminHandler) DeleteCoordinator(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.content.DeleteCoordinator(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "delete", fmt.Sprintf("coordinator:%d", id))
	respondMessage(w, http.StatusOK, "Coordinator deleted")
}

// SaveClubs handles PUT /api/admin/clubs
func (h *AdminHandler) SaveClubs(w http.ResponseWriter, r *http.Request) {
	var items []domain.Club
	if err := decodeJSON(w, r, &items); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	for i := range items {
		prepared, err := content.PrepareClub(items[i])
		if err != nil {
			respondError(w, r, h.logger, err)
			return
		}
		items[i] = prepared
	}
	if err := h.content.SaveClubs(r.Context(), items); err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save clubs", err))
		return
	}
	h.audit(r, "save", string(content.KindClubs))
	respondJSON(w, http.StatusOK, items)
}

// CreateClub handles POST /api/admin/clubs
func (h *AdminHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	h.upsertClub(w, r, 0)
}

// UpdateClub handles PUT /api/admin/clubs/{id}
func (h *AdminHandler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if _, ok := h.content.ClubByID(r.Context(), id); !ok {
		respondError(w, r, h.logger, errors.NewNotFoundError("Club not found"))
		return
	}
	h.upsertClub(w, r, id)
}

func (h *AdminHandler) upsertClub(w http.ResponseWriter, r *http.Request, id int) {
	var c domain.Club
	if err := decodeJSON(w, r, &c); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	c.ID = id
	c, err := content.PrepareClub(c)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	saved, created, err := h.content.UpsertClub(r.Context(), c)
	if err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save club", err))
		return
	}
	h.audit(r, "upsert", fmt.Sprintf("club:%d", saved.ID))
	respondJSON(w, createdStatus(created), saved)
}

// DeleteClub handles DELETE /api/admin/clubs/{id}
func (h *AdminHandler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.content.DeleteClub(r.Context(), id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "delete", fmt.Sprintf("club:%d", id))
	respondMessage(w, http.StatusOK, "Club deleted")
}

// SaveGallery handles PUT /api/admin/gallery
func (h *AdminHandler) SaveGallery(w http.ResponseWriter, r *http.Request) {
	var images []string
	if err := decodeJSON(w, r, &images); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if err := h.content.SaveGalleryImages(r.Context(), images); err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save gallery", err))
		return
	}
	h.audit(r, "save", string(content.KindGallery))
	respondJSON(w, http.StatusOK, images)
}

type galleryImageRequest struct {
	Image string `json:"image"`
}

// AddGalleryImage handles POST /api/admin/gallery
func (h *AdminHandler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req galleryImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	images, err := h.content.AddGalleryImage(r.Context(), req.Image)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "append", string(content.KindGallery))
	respondJSON(w, http.StatusCreated, images)
}

// RemoveGalleryImage handles DELETE /api/admin/gallery/{index}
func (h *AdminHandler) RemoveGalleryImage(w http.ResponseWriter, r *http.Request) {
	index, err := intParam(r, "index")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	images, err := h.content.RemoveGalleryImage(r.Context(), index)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.audit(r, "remove", fmt.Sprintf("gallery:%d", index))
	respondJSON(w, http.StatusOK, images)
}

// ImportPlaylist handles POST /api/admin/gallery/youtube
func (h *AdminHandler) ImportPlaylist(w http.ResponseWriter, r *http.Request) {
	if h.services.Media == nil {
		respondError(w, r, h.logger, errors.NewUnavailableError("YouTube import is not configured"))
		return
	}
	var req domain.PlaylistImportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	thumbnails, err := h.services.Media.PlaylistThumbnails(r.Context(), req.PlaylistID, req.Limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	gallery, err := h.content.AddGalleryImages(r.Context(), thumbnails)
	if err != nil {
		respondError(w, r, h.logger, errors.NewInternalError("Failed to save gallery", err))
		return
	}
	h.audit(r, "import", "gallery:"+req.PlaylistID)
	respondJSON(w, http.StatusCreated, domain.PlaylistImportResult{
		PlaylistID: req.PlaylistID,
		Added:      thumbnails,
		Gallery:    gallery,
	})
}

func (h *AdminHandler) audit(r *http.Request, action, target string) {
	username := ""
	if claims, ok := middleware.AdminFromContext(r.Context()); ok {
		username = claims.Username
	}
	h.logger.WithFields(map[string]interface{}{
		"admin":      username,
		"action":     action,
		"target":     target,
		"request_id": middleware.RequestIDFromContext(r.Context()),
	}).Info("Admin content change")
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
