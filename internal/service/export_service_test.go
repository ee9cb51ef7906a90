package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"clubsite/internal/content"
	"clubsite/internal/domain"
	"clubsite/pkg/logger"
)

func TestExportService_EventsWorkbook(t *testing.T) {
	ctx := context.Background()
	contentSvc, _ := newTestContent()
	countdownSvc := newTestCountdown(testNow)
	registrations := NewRegistrationService(contentSvc, countdownSvc, 0, logger.NewNop())
	svc := NewExportService(contentSvc, countdownSvc, registrations, logger.NewNop())

	_, err := registrations.Register(ctx, 1, domain.RegistrationRequest{Name: "Ada", Email: "ada@example.org"})
	require.NoError(t, err)

	buf, filename, err := svc.EventsWorkbook(ctx)
	require.NoError(t, err)
	assert.Equal(t, "events_2025-12-01.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{eventsSheet}, f.GetSheetList())

	rows, err := f.GetRows(eventsSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(content.DefaultEvents())+1)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Registration Link", rows[0][len(eventColumns)-1])

	first := rows[1]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "Intro to Competitive Programming", first[1])
	assert.Equal(t, "upcoming", first[3])
	assert.Equal(t, "Dec 15, 2025", first[4])
	assert.Equal(t, "1", first[8])
	assert.Equal(t, "13d 21h 30m 0s", first[9])
	assert.Equal(t, "no", first[10])

	hackathon := rows[2]
	assert.Equal(t, "Jan 24, 2026 - Jan 25, 2026", hackathon[4])
	assert.Equal(t, "0", hackathon[8])

	openLab := rows[3]
	assert.Equal(t, "Dec 3, Dec 10, Dec 17", openLab[11])
}

func TestExportService_EmptyEvents(t *testing.T) {
	ctx := context.Background()
	contentSvc, _ := newTestContent()
	require.NoError(t, contentSvc.SaveEvents(ctx, []domain.Event{}))
	countdownSvc := newTestCountdown(testNow)
	svc := NewExportService(contentSvc, countdownSvc, NewRegistrationService(contentSvc, countdownSvc, 0, logger.NewNop()), logger.NewNop())

	buf, _, err := svc.EventsWorkbook(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(eventsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
