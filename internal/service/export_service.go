package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"clubsite/internal/content"
	"clubsite/internal/countdown"
	"clubsite/internal/domain"
	"clubsite/pkg/errors"
	"clubsite/pkg/logger"
)

const eventsSheet = "Events"

var eventColumns = []struct {
	title string
	width float64
}{
	{"ID", 6},
	{"Title", 32},
	{"Category", 14},
	{"Status", 10},
	{"Date", 24},
	{"Time", 10},
	{"Location", 28},
	{"Type", 8},
	{"Registrations", 14},
	{"Countdown", 16},
	{"Stale", 8},
	{"Next Dates", 30},
	{"Registration Link", 36},
}

// ExportService builds spreadsheet exports for admins
type ExportService struct {
	content       *content.Service
	countdown     *CountdownService
	registrations *RegistrationService
	logger        *logger.Logger
}

// NewExportService creates an export service
func NewExportService(contentSvc *content.Service, countdownSvc *CountdownService, registrations *RegistrationService, logger *logger.Logger) *ExportService {
	return &ExportService{
		content:       contentSvc,
		countdown:     countdownSvc,
		registrations: registrations,
		logger:        logger.Named("export"),
	}
}

// EventsWorkbook writes one row per event with its countdown at export time
func (s *ExportService) EventsWorkbook(ctx context.Context) (*bytes.Buffer, string, error) {
	events := s.content.GetEvents(ctx)
	now := s.countdown.Now()

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(eventsSheet)
	if err != nil {
		return nil, "", errors.NewInternalError("Failed to create workbook", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, col := range eventColumns {
		name := colName(i)
		_ = f.SetColWidth(eventsSheet, name, name, col.width)
		_ = f.SetCellValue(eventsSheet, cell(name, 1), col.title)
	}
	_ = f.SetCellStyle(eventsSheet, "A1", cell(colName(len(eventColumns)-1), 1), headerStyle)
	_ = f.SetPanes(eventsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, e := range events {
		row := i + 2
		view := s.countdown.View(e, now)

		registered := 0
		if list, err := s.registrations.list(ctx, e.ID); err == nil {
			registered = len(list)
		}

		date := countdown.FormatDate(e.Date, countdown.StyleShort, s.countdown.Location())
		if e.EndDate != "" {
			date += " - " + countdown.FormatDate(e.EndDate, countdown.StyleShort, s.countdown.Location())
		}

		values := []interface{}{
			e.ID,
			e.Title,
			e.Category,
			string(e.Status),
			date,
			e.Time,
			e.Location,
			string(e.EventType),
			registered,
			countdown.FormatTimeLeft(view.TimeLeft),
			yesNo(view.Stale),
			s.nextDates(e, now),
			e.RegistrationLink,
		}
		for c, v := range values {
			_ = f.SetCellValue(eventsSheet, cell(colName(c), row), v)
		}
	}

	if len(events) > 0 {
		last := cell(colName(len(eventColumns)-1), len(events)+1)
		_ = f.AutoFilter(eventsSheet, "A1:"+last, nil)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.WithError(err).Error("Failed to write events workbook")
		return nil, "", errors.NewInternalError("Failed to generate export", err)
	}

	filename := fmt.Sprintf("events_%s.xlsx", now.Format("2006-01-02"))
	s.logger.WithField("events", len(events)).Info("Events workbook generated")
	return buf, filename, nil
}

// nextDates renders the next three occurrences of a recurring event
func (s *ExportService) nextDates(e domain.Event, now time.Time) string {
	dates := s.countdown.UpcomingOccurrences(e, now, 3)
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.In(s.countdown.Location()).Format("Jan 2"))
	}
	return strings.Join(out, ", ")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
