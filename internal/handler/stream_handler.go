package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clubsite/internal/content"
	"clubsite/internal/countdown"
	"clubsite/pkg/errors"
)

// CountdownStream handles GET /api/events/{id}/countdown/stream.
// It sends a "tick" frame immediately and then once per interval until the
// client disconnects. Editing the event retargets the running countdown and
// deleting it sends a final "deleted" frame.
func (h *EventHandler) CountdownStream(w http.ResponseWriter, r *http.Request) {
	// Subscribe first so an edit racing the initial read is still seen
	changes, unsubscribe := h.content.Subscribe()
	defer unsubscribe()

	event, err := h.event(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, r, h.logger, errors.NewInternalError("Streaming unsupported", nil))
		return
	}

	log := h.logger.WithField("event_id", event.ID)

	// The server write timeout would otherwise cut the stream
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.WithError(err).Debug("Cannot clear write deadline, stream ends at the server write timeout")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "retry: 3000\n\n")
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	cd := h.countdown.NewCountdown(event)
	ticks := countdown.Watch(ctx, cd)

	log.Debug("Countdown stream opened")
	defer log.Debug("Countdown stream closed")

	for {
		select {
		case <-ctx.Done():
			return

		case <-h.streamsDone:
			log.Debug("Server shutting down, ending countdown stream")
			return

		case kind := <-changes:
			if kind != content.KindEvents {
				continue
			}
			updated, ok := h.content.EventByID(ctx, event.ID)
			if !ok {
				writeFrame(w, "deleted", map[string]int{"eventId": event.ID})
				flusher.Flush()
				return
			}
			event = updated
			if target := h.countdown.TargetFor(event, h.countdown.Now()); !sameTarget(target, cd.Target()) {
				log.Debug("Event edited, retargeting countdown")
				cd.Retarget(target)
			}

		case left, ok := <-ticks:
			if !ok {
				return
			}
			// A recurring event moves on to its next occurrence once one passes
			if left.Expired && event.Recurrence != "" {
				if next := h.countdown.TargetFor(event, h.countdown.Now()); next.Valid && !sameTarget(next, cd.Target()) {
					cd.Retarget(next)
					continue
				}
			}
			view := h.countdown.ViewFromTick(event, cd.Target(), left)
			if err := writeFrame(w, "tick", view); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeFrame(w http.ResponseWriter, name string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}

func sameTarget(a, b countdown.Target) bool {
	return a.Valid == b.Valid && a.HasTime == b.HasTime && a.At.Equal(b.At)
}
