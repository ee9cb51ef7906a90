package handler

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"clubsite/internal/calendar"
	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/internal/service"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
)

// EventHandler serves the public event endpoints
type EventHandler struct {
	content       *content.Service
	countdown     *service.CountdownService
	registrations *service.RegistrationService
	logger        *logger.Logger

	streamsDone chan struct{}
	closeOnce   sync.Once
}

// NewEventHandler creates a new event handler
func NewEventHandler(contentSvc *content.Service, countdownSvc *service.CountdownService, registrations *service.RegistrationService, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		content:       contentSvc,
		countdown:     countdownSvc,
		registrations: registrations,
		logger:        logger.Named("events"),
		streamsDone:   make(chan struct{}),
	}
}

// CloseStreams ends every open countdown stream. Server shutdown does not
// cancel request contexts, so it is registered with RegisterOnShutdown.
func (h *EventHandler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.streamsDone) })
}

// RegisterRoutes mounts the request/response event routes. The countdown
// stream is long-lived and mounted separately.
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/categories", h.Categories)
		r.Get("/years", h.Years)
		r.Get("/calendar.ics", h.Calendar)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/countdown", h.Countdown)
		r.Post("/{id}/register", h.Register)
	})
}

// List handles GET /api/events?status=&category=&year=
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, content.FilterEvents(h.content.GetEvents(r.Context()), filter))
}

// Categories handles GET /api/events/categories
func (h *EventHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, content.EventCategories(h.content.GetEvents(r.Context())))
}

// Years handles GET /api/events/years
func (h *EventHandler) Years(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, content.EventYears(h.content.GetEvents(r.Context())))
}

// Get handles GET /api/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.event(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Countdown handles GET /api/events/{id}/countdown
func (h *EventHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	event, err := h.event(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, h.countdown.View(event, h.countdown.Now()))
}

// Calendar handles GET /api/events/calendar.ics
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	events := content.FilterEvents(h.content.GetEvents(r.Context()), filter)
	body := calendar.ExportICS(events, h.countdown.Location(), h.countdown.Now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// Register handles POST /api/events/{id}/register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req domain.RegistrationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp, err := h.registrations.Register(r.Context(), id, req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *EventHandler) event(r *http.Request) (domain.Event, error) {
	id, err := intParam(r, "id")
	if err != nil {
		return domain.Event{}, err
	}
	event, ok := h.content.EventByID(r.Context(), id)
	if !ok {
		return domain.Event{}, errors.NewNotFoundError("Event not found")
	}
	return event, nil
}

func parseEventFilter(r *http.Request) (content.EventFilter, error) {
	q := r.URL.Query()
	filter := content.EventFilter{Category: strings.TrimSpace(q.Get("category"))}
	if strings.EqualFold(filter.Category, "all") {
		filter.Category = ""
	}

	if status := strings.ToLower(q.Get("status")); status != "" && status != "all" {
		filter.Status = domain.EventStatus(status)
		if !filter.Status.Valid() {
			return filter, errors.NewValidationError("status must be upcoming or past", map[string]interface{}{"status": status})
		}
	}
	if year := q.Get("year"); year != "" && year != "all" {
		y, err := strconv.Atoi(year)
		if err != nil || y <= 0 {
			return filter, errors.NewValidationError("year must be a number", map[string]interface{}{"year": year})
		}
		filter.Year = y
	}
	return filter, nil
}
