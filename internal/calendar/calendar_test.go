package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/domain"
)

var ict = time.FixedZone("ICT", 7*3600)

func TestNextOccurrence(t *testing.T) {
	start := time.Date(2025, 9, 3, 17, 0, 0, 0, ict) // a Wednesday

	tests := []struct {
		name   string
		rule   string
		now    time.Time
		want   time.Time
		wantOK bool
	}{
		{
			name:   "weekly on wednesday",
			rule:   "FREQ=WEEKLY;BYDAY=WE",
			now:    time.Date(2025, 9, 5, 12, 0, 0, 0, ict),
			want:   time.Date(2025, 9, 10, 17, 0, 0, 0, ict),
			wantOK: true,
		},
		{
			name:   "now is an occurrence",
			rule:   "RRULE:FREQ=WEEKLY",
			now:    start,
			want:   start,
			wantOK: true,
		},
		{
			name:   "before the first occurrence",
			rule:   "FREQ=DAILY;INTERVAL=2",
			now:    start.AddDate(0, 0, -10),
			want:   start,
			wantOK: true,
		},
		{
			name:   "exhausted",
			rule:   "FREQ=WEEKLY;COUNT=2",
			now:    start.AddDate(0, 1, 0),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok, err := NextOccurrence(tt.rule, start, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(next), "got %s want %s", next, tt.want)
			}
		})
	}
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule("FREQ=MONTHLY;BYMONTHDAY=1"))
	assert.Error(t, ValidateRule(""))
	assert.Error(t, ValidateRule("BYDAY=MO"))
	assert.Error(t, ValidateRule("FREQ=SOMETIMES"))

	_, _, err := NextOccurrence("garbage", time.Now(), time.Now())
	assert.Error(t, err)
}

func TestOccurrences(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got, err := Occurrences("FREQ=DAILY", start, start, start.AddDate(0, 0, 30), 5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.True(t, start.AddDate(0, 0, 4).Equal(got[4]))
}

func TestExportICS(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{ID: 1, Title: "Intro Workshop", Description: "Bring a laptop", Location: "Lab 3", Category: "Workshop",
			Date: "2025-12-15", Time: "09:30 AM", RegistrationLink: "https://forms.example.org/intro"},
		{ID: 2, Title: "Hackathon", Date: "2026-01-24", EndDate: "2026-01-25"},
		{ID: 3, Title: "Open Lab", Date: "2025-09-03", Time: "5:00 PM", Recurrence: "FREQ=WEEKLY;BYDAY=WE"},
		{ID: 4, Title: "Broken", Date: "not-a-date"},
		{ID: 5, Title: "Bad Rule", Date: "2025-07-01", Recurrence: "nonsense"},
	}

	out := ExportICS(events, ict, now)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "X-WR-CALNAME:Club Events")
	assert.Equal(t, 4, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:event-1@clubsite")
	assert.Contains(t, out, "DTSTART:20251215T023000Z")
	assert.Contains(t, out, "DTEND:20251215T043000Z")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260124")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20260126")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=WE")
	assert.NotContains(t, out, "Broken")
	assert.NotContains(t, out, "nonsense")
}

func TestImportICS_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{ID: 1, Title: "Intro Workshop", Description: "Bring a laptop, and a charger", Location: "Lab 3", Category: "Workshop",
			Date: "2025-12-15", Time: "09:30", RegistrationLink: "https://forms.example.org/intro"},
		{ID: 2, Title: "Hackathon", Date: "2026-01-24", EndDate: "2026-01-25"},
		{ID: 3, Title: "Old Talk", Date: "2024-11-08", Time: "15:30"},
		{ID: 4, Title: "Open Lab", Date: "2025-01-01", Time: "17:00", Recurrence: "FREQ=WEEKLY;BYDAY=WE"},
	}

	imported, err := ImportICS(strings.NewReader(ExportICS(events, ict, now)), ict, now)
	require.NoError(t, err)
	require.Len(t, imported, 4)

	first := imported[0]
	assert.Equal(t, "Intro Workshop", first.Title)
	assert.Equal(t, "Bring a laptop, and a charger", first.Description)
	assert.Equal(t, "Lab 3", first.Location)
	assert.Equal(t, "Workshop", first.Category)
	assert.Equal(t, "2025-12-15", first.Date)
	assert.Equal(t, "09:30", first.Time)
	assert.Equal(t, "https://forms.example.org/intro", first.RegistrationLink)
	assert.Equal(t, domain.EventStatusUpcoming, first.Status)
	assert.Zero(t, first.ID)

	hack := imported[1]
	assert.Equal(t, "2026-01-24", hack.Date)
	assert.Equal(t, "2026-01-25", hack.EndDate)
	assert.Empty(t, hack.Time)

	assert.Equal(t, domain.EventStatusPast, imported[2].Status)

	// recurring series that started in the past still has occurrences ahead
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=WE", imported[3].Recurrence)
	assert.Equal(t, domain.EventStatusUpcoming, imported[3].Status)
}

func TestImportICS_SkipsIncompleteEvents(t *testing.T) {
	feed := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:no-summary",
		"DTSTART:20250101T100000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:no-start",
		"SUMMARY:Floating",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ok",
		"SUMMARY:Kept",
		"DTSTART;VALUE=DATE:20250102",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	events, err := ImportICS(strings.NewReader(feed), time.UTC, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Kept", events[0].Title)
	assert.Equal(t, "2025-01-02", events[0].Date)
	assert.Equal(t, domain.EventStatusPast, events[0].Status)
}

func TestImportICS_Invalid(t *testing.T) {
	_, err := ImportICS(strings.NewReader("SUMMARY:not a calendar\r\n"), time.UTC, time.Now())
	assert.Error(t, err)
}
