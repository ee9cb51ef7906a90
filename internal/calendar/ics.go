package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"clubsite/internal/countdown"
	"clubsite/internal/domain"
)

const (
	productID = "-//clubsite//events//EN"
	calName   = "Club Events"

	// defaultDuration is used for timed events, which carry no end time
	defaultDuration = 2 * time.Hour
)

// ExportICS renders events as an iCalendar feed.
// Events whose date cannot be read are left out.
func ExportICS(events []domain.Event, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.Local
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calName)
	cal.SetXWRTimezone(loc.String())

	for _, e := range events {
		target := countdown.BuildTarget(e.Date, e.Time, loc)
		if !target.Valid {
			continue
		}

		vevent := cal.AddEvent(eventUID(e.ID))
		vevent.SetDtStampTime(now)
		vevent.SetSummary(e.Title)
		if e.Description != "" {
			vevent.SetDescription(e.Description)
		}
		if e.Location != "" {
			vevent.SetLocation(e.Location)
		}
		if e.Category != "" {
			vevent.AddCategory(e.Category)
		}
		if e.RegistrationLink != "" {
			vevent.SetURL(e.RegistrationLink)
		}

		if target.HasTime {
			vevent.SetStartAt(target.At)
			vevent.SetEndAt(target.At.Add(defaultDuration))
		} else {
			vevent.SetAllDayStartAt(target.At)
			last := target.At
			if end := countdown.BuildTarget(e.EndDate, "", loc); end.Valid && end.At.After(last) {
				last = end.At
			}
			// DTEND of an all-day event is exclusive
			vevent.SetAllDayEndAt(last.AddDate(0, 0, 1))
		}

		if e.Recurrence != "" && ValidateRule(e.Recurrence) == nil {
			vevent.AddRrule(strings.TrimPrefix(e.Recurrence, "RRULE:"))
		}
	}
	return cal.Serialize()
}

// ImportICS converts VEVENTs into events without ids.
// Status is derived from the start relative to now; the caller assigns ids.
func ImportICS(r io.Reader, loc *time.Location, now time.Time) ([]domain.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := make([]domain.Event, 0)
	for _, vevent := range cal.Events() {
		e, ok := eventFromVEvent(vevent, loc, now)
		if !ok {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func eventFromVEvent(vevent *ics.VEvent, loc *time.Location, now time.Time) (domain.Event, bool) {
	title := propertyValue(vevent, ics.ComponentPropertySummary)
	if title == "" {
		return domain.Event{}, false
	}

	allDay := isAllDay(vevent)
	var start time.Time
	var err error
	if allDay {
		start, err = vevent.GetAllDayStartAt()
	} else {
		start, err = vevent.GetStartAt()
	}
	if err != nil {
		return domain.Event{}, false
	}

	e := domain.Event{
		Title:            title,
		Description:      propertyValue(vevent, ics.ComponentPropertyDescription),
		Location:         propertyValue(vevent, ics.ComponentPropertyLocation),
		RegistrationLink: propertyValue(vevent, ics.ComponentPropertyUrl),
		EventType:        domain.EventTypeFree,
		Status:           domain.EventStatusPast,
	}
	if categories := propertyValue(vevent, ics.ComponentPropertyCategories); categories != "" {
		parts := strings.Split(categories, ",")
		e.Category = strings.TrimSpace(parts[0])
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				e.Tags = append(e.Tags, p)
			}
		}
	}

	if allDay {
		e.Date = start.Format("2006-01-02")
		if end, err := vevent.GetAllDayEndAt(); err == nil {
			last := end.AddDate(0, 0, -1)
			if last.After(start) {
				e.EndDate = last.Format("2006-01-02")
			}
		}
	} else {
		start = start.In(loc)
		e.Date = start.Format("2006-01-02")
		e.Time = start.Format("15:04")
	}

	if rule := propertyValue(vevent, ics.ComponentPropertyRrule); rule != "" && ValidateRule(rule) == nil {
		e.Recurrence = rule
	}

	if startsAfter(e, loc, now) {
		e.Status = domain.EventStatusUpcoming
	}
	return e, true
}

func startsAfter(e domain.Event, loc *time.Location, now time.Time) bool {
	target := countdown.BuildTarget(e.Date, e.Time, loc)
	if e.Recurrence != "" {
		if _, ok, err := NextOccurrence(e.Recurrence, target.At, now); err == nil && ok {
			return true
		}
	}
	return target.Valid && target.At.After(now)
}

func isAllDay(vevent *ics.VEvent) bool {
	prop := vevent.GetProperty(ics.ComponentPropertyDtStart)
	if prop == nil {
		return false
	}
	for _, v := range prop.ICalParameters[string(ics.ParameterValue)] {
		if strings.EqualFold(v, string(ics.ValueDataTypeDate)) {
			return true
		}
	}
	return len(strings.TrimSpace(prop.Value)) == 8
}

func propertyValue(vevent *ics.VEvent, p ics.ComponentProperty) string {
	prop := vevent.GetProperty(p)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

func eventUID(id int) string {
	return fmt.Sprintf("event-%d@clubsite", id)
}
