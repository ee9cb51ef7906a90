package service

import (
	"time"

	"clubsite/internal/calendar"
	"clubsite/internal/countdown"
	"clubsite/internal/domain"
	"clubsite/pkg/logger"
)

// CountdownService turns events into countdown targets and views
type CountdownService struct {
	loc      *time.Location
	interval time.Duration
	now      func() time.Time
	logger   *logger.Logger
}

// NewCountdownService creates a countdown service for the display zone loc
func NewCountdownService(loc *time.Location, interval time.Duration, logger *logger.Logger) *CountdownService {
	if loc == nil {
		loc = time.Local
	}
	if interval <= 0 {
		interval = countdown.DefaultInterval
	}
	return &CountdownService{
		loc:      loc,
		interval: interval,
		now:      time.Now,
		logger:   logger.Named("countdown"),
	}
}

// WithClock replaces the wall clock, for tests
func (s *CountdownService) WithClock(now func() time.Time) *CountdownService {
	s.now = now
	return s
}

// Location is the zone event dates are interpreted in
func (s *CountdownService) Location() *time.Location {
	return s.loc
}

// Now returns the service clock
func (s *CountdownService) Now() time.Time {
	return s.now()
}

// TargetFor resolves the instant an event counts down to.
// Recurring events target their next occurrence at or after now.
func (s *CountdownService) TargetFor(e domain.Event, now time.Time) countdown.Target {
	target := countdown.BuildTarget(e.Date, e.Time, s.loc)
	if !target.Valid {
		s.logger.WithFields(map[string]interface{}{
			"event_id": e.ID,
			"date":     e.Date,
		}).Debug("Event date could not be parsed")
		return target
	}
	if e.Time != "" && !target.HasTime {
		s.logger.WithFields(map[string]interface{}{
			"event_id": e.ID,
			"time":     e.Time,
		}).Debug("Event time could not be parsed, using midnight")
	}

	if e.Recurrence == "" {
		return target
	}
	next, ok, err := calendar.NextOccurrence(e.Recurrence, target.At, now)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", e.ID).Warn("Ignoring invalid recurrence rule")
		return target
	}
	if !ok {
		return target
	}
	return countdown.Target{At: next, Valid: true, HasTime: target.HasTime}
}

// UpcomingOccurrences lists up to limit occurrences of a recurring event in
// the 90 days after now. Non-recurring events return nil.
func (s *CountdownService) UpcomingOccurrences(e domain.Event, now time.Time, limit int) []time.Time {
	if e.Recurrence == "" {
		return nil
	}
	start := countdown.BuildTarget(e.Date, e.Time, s.loc)
	if !start.Valid {
		return nil
	}
	dates, err := calendar.Occurrences(e.Recurrence, start.At, now, now.AddDate(0, 0, 90), limit)
	if err != nil {
		s.logger.WithError(err).WithField("event_id", e.ID).Debug("Skipping occurrences of invalid rule")
		return nil
	}
	return dates
}

// View computes the countdown view of an event at now
func (s *CountdownService) View(e domain.Event, now time.Time) domain.CountdownView {
	target := s.TargetFor(e, now)
	return s.viewFor(e, target, countdown.Remaining(target, now))
}

// Views computes views for several events at the same instant
func (s *CountdownService) Views(events []domain.Event, now time.Time) []domain.CountdownView {
	views := make([]domain.CountdownView, 0, len(events))
	for _, e := range events {
		views = append(views, s.View(e, now))
	}
	return views
}

// ViewFromTick builds a view from an already computed tick
func (s *CountdownService) ViewFromTick(e domain.Event, target countdown.Target, left domain.TimeLeft) domain.CountdownView {
	return s.viewFor(e, target, left)
}

func (s *CountdownService) viewFor(e domain.Event, target countdown.Target, left domain.TimeLeft) domain.CountdownView {
	date := e.Date
	if target.Valid && e.Recurrence != "" {
		date = target.At.Format("2006-01-02")
	}

	view := domain.CountdownView{
		TimeLeft:  left,
		EventID:   e.ID,
		Title:     e.Title,
		Status:    e.Status,
		LongDate:  countdown.FormatDate(date, countdown.StyleLong, s.loc),
		ShortDate: countdown.FormatDate(date, countdown.StyleShort, s.loc),
		Stale:     e.Status == domain.EventStatusUpcoming && left.Expired,
	}
	if target.Valid {
		at := target.At
		view.Target = &at
	}
	return view
}

// NewCountdown creates a ticking countdown for an event
func (s *CountdownService) NewCountdown(e domain.Event) *countdown.Countdown {
	return countdown.NewFromTarget(
		s.TargetFor(e, s.now()),
		countdown.WithLocation(s.loc),
		countdown.WithClock(s.now),
		countdown.WithInterval(s.interval),
	)
}
