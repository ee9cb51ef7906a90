package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/pkg/logger"
)

var testNow = time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

func newTestCountdown(now time.Time) *CountdownService {
	return NewCountdownService(time.UTC, time.Second, logger.NewNop()).
		WithClock(func() time.Time { return now })
}

func newTestContent() (*content.Service, *content.MemoryStore) {
	store := content.NewMemoryStore()
	return content.NewService(store, zap.NewNop(), content.WithNow(func() time.Time { return testNow })), store
}

func TestCountdownService_View(t *testing.T) {
	svc := newTestCountdown(testNow)

	tests := []struct {
		name       string
		event      domain.Event
		want       domain.TimeLeft
		wantTarget bool
		wantStale  bool
		wantShort  string
	}{
		{
			name:       "timed upcoming event",
			event:      domain.Event{ID: 1, Date: "2025-12-15", Time: "09:30 AM", Status: domain.EventStatusUpcoming},
			want:       domain.TimeLeft{Days: 13, Hours: 21, Minutes: 30},
			wantTarget: true,
			wantShort:  "Dec 15, 2025",
		},
		{
			name:       "date only counts to midnight",
			event:      domain.Event{ID: 2, Date: "2025-12-02", Status: domain.EventStatusUpcoming},
			want:       domain.TimeLeft{Hours: 12},
			wantTarget: true,
			wantShort:  "Dec 2, 2025",
		},
		{
			name:       "upcoming but already passed is stale",
			event:      domain.Event{ID: 3, Date: "2025-11-01", Status: domain.EventStatusUpcoming},
			want:       domain.TimeLeft{Expired: true},
			wantTarget: true,
			wantStale:  true,
			wantShort:  "Nov 1, 2025",
		},
		{
			name:       "past event is not stale",
			event:      domain.Event{ID: 4, Date: "2025-03-14", Status: domain.EventStatusPast},
			want:       domain.TimeLeft{Expired: true},
			wantTarget: true,
			wantShort:  "Mar 14, 2025",
		},
		{
			name:      "unparseable date",
			event:     domain.Event{ID: 5, Date: "sometime soon", Status: domain.EventStatusUpcoming},
			want:      domain.TimeLeft{Expired: true},
			wantStale: true,
			wantShort: "sometime soon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := svc.View(tt.event, testNow)
			assert.Equal(t, tt.want, view.TimeLeft)
			assert.Equal(t, tt.wantTarget, view.Target != nil)
			assert.Equal(t, tt.wantStale, view.Stale)
			assert.Equal(t, tt.wantShort, view.ShortDate)
			assert.Equal(t, tt.event.ID, view.EventID)
		})
	}
}

func TestCountdownService_RecurringTargetsNextOccurrence(t *testing.T) {
	svc := newTestCountdown(testNow)
	event := domain.Event{
		ID:         3,
		Date:       "2025-09-03",
		Time:       "5:00 PM",
		Status:     domain.EventStatusUpcoming,
		Recurrence: "FREQ=WEEKLY;BYDAY=WE",
	}

	target := svc.TargetFor(event, testNow)
	require.True(t, target.Valid)
	assert.True(t, target.At.Equal(time.Date(2025, 12, 3, 17, 0, 0, 0, time.UTC)))

	view := svc.View(event, testNow)
	assert.Equal(t, domain.TimeLeft{Days: 2, Hours: 5}, view.TimeLeft)
	assert.Equal(t, "Wednesday, December 3, 2025", view.LongDate)
	assert.False(t, view.Stale)
}

func TestCountdownService_UpcomingOccurrences(t *testing.T) {
	svc := newTestCountdown(testNow)
	event := domain.Event{Date: "2025-09-03", Time: "5:00 PM", Recurrence: "FREQ=WEEKLY;BYDAY=WE"}

	dates := svc.UpcomingOccurrences(event, testNow, 3)
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Equal(time.Date(2025, 12, 3, 17, 0, 0, 0, time.UTC)))
	assert.True(t, dates[2].Equal(time.Date(2025, 12, 17, 17, 0, 0, 0, time.UTC)))

	assert.Nil(t, svc.UpcomingOccurrences(domain.Event{Date: "2025-12-10"}, testNow, 3))
	assert.Nil(t, svc.UpcomingOccurrences(domain.Event{Date: "nope", Recurrence: "FREQ=DAILY"}, testNow, 3))
}

func TestCountdownService_InvalidRecurrenceFallsBackToDate(t *testing.T) {
	svc := newTestCountdown(testNow)
	event := domain.Event{Date: "2025-12-10", Recurrence: "BYDAY=WE"}

	target := svc.TargetFor(event, testNow)
	require.True(t, target.Valid)
	assert.True(t, target.At.Equal(time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)))
}

func TestCountdownService_Views(t *testing.T) {
	svc := newTestCountdown(testNow)
	views := svc.Views(content.DefaultEvents(), testNow)
	require.Len(t, views, len(content.DefaultEvents()))
	for i, e := range content.DefaultEvents() {
		assert.Equal(t, e.ID, views[i].EventID)
		assert.Equal(t, e.Title, views[i].Title)
	}
}

func TestCountdownService_NewCountdownUsesServiceClock(t *testing.T) {
	svc := newTestCountdown(testNow)
	c := svc.NewCountdown(domain.Event{Date: "2025-12-01", Time: "12:00:05"})

	assert.Equal(t, domain.TimeLeft{Seconds: 5}, c.Evaluate())
}
