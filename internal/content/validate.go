package content

import (
	"fmt"
	"strings"

	"clubsite/internal/calendar"
	"clubsite/internal/domain"
	apperrors "clubsite/pkg/errors"
)

// PrepareEvent checks an admin-submitted event and canonicalizes its date.
// Dates that cannot be read are kept as entered; their countdown reports
// expired rather than guessing.
func PrepareEvent(e domain.Event) (domain.Event, error) {
	details := make(map[string]interface{})

	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		details["title"] = "Title is required"
	}
	if strings.TrimSpace(e.Date) == "" {
		details["date"] = "Date is required"
	}
	if e.Status == "" {
		e.Status = domain.EventStatusUpcoming
	}
	if !e.Status.Valid() {
		details["status"] = "Status must be upcoming or past"
	}
	if e.EventType != "" && e.EventType != domain.EventTypeFree && e.EventType != domain.EventTypePaid {
		details["eventType"] = "Event type must be free or paid"
	}
	if e.Recurrence != "" {
		e.Recurrence = strings.TrimPrefix(strings.TrimSpace(e.Recurrence), "RRULE:")
		if err := calendar.ValidateRule(e.Recurrence); err != nil {
			details["recurrence"] = err.Error()
		}
	}
	if len(details) > 0 {
		return e, apperrors.NewValidationError("Invalid event", details)
	}

	if date, end, ok := NormalizeEventDate(e.Date); ok {
		e.Date = date
		if e.EndDate == "" {
			e.EndDate = end
		}
	}
	if e.EndDate != "" {
		if end, _, ok := NormalizeEventDate(e.EndDate); ok {
			e.EndDate = end
		}
		if e.EndDate == e.Date {
			e.EndDate = ""
		}
	}
	return e, nil
}

// PrepareEvents runs PrepareEvent over a whole array, reporting the first
// failing position.
func PrepareEvents(events []domain.Event) ([]domain.Event, error) {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		prepared, err := PrepareEvent(e)
		if err != nil {
			appErr := apperrors.As(err)
			appErr.Message = fmt.Sprintf("Invalid event at index %d", i)
			return nil, appErr
		}
		out[i] = prepared
	}
	return out, nil
}

// PrepareCoordinator checks an admin-submitted coordinator
func PrepareCoordinator(c domain.Coordinator) (domain.Coordinator, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, apperrors.NewValidationError("Invalid coordinator", map[string]interface{}{"name": "Name is required"})
	}
	return c, nil
}

// PrepareClub checks an admin-submitted club
func PrepareClub(c domain.Club) (domain.Club, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, apperrors.NewValidationError("Invalid club", map[string]interface{}{"name": "Name is required"})
	}
	return c, nil
}
