package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/domain"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	scheduleSheet     = "Schedule"
	appointmentsSheet = "Appointments"
)

// Exporter writes the clinic schedule and appointment list to an xlsx file.
type Exporter struct {
	store  domain.Store
	path   string
	logger *zerolog.Logger
}

func NewExporter(store domain.Store, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: store, path: path, logger: logger}
}

// Export builds the workbook and returns the saved file path.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	slots, err := e.store.ListSlots(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting slots: %v", err)
	}
	appointments, err := e.store.ListAppointments(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting appointments: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeScheduleSheet(f, slots); err != nil {
		return "", err
	}
	if err := e.writeAppointmentsSheet(f, appointments); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("schedule_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

// writeScheduleSheet lays slots out as a grid: dates across, start times down,
// cells marked Free or Booked.
func (e *Exporter) writeScheduleSheet(f *excelize.File, slots []*models.Slot) error {
	index, err := f.NewSheet(scheduleSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	dates := make([]string, 0)
	times := make([]string, 0)
	seenDate := make(map[string]bool)
	seenTime := make(map[string]bool)
	for _, s := range slots {
		if !seenDate[s.Date] {
			seenDate[s.Date] = true
			dates = append(dates, s.Date)
		}
		if !seenTime[s.StartTime] {
			seenTime[s.StartTime] = true
			times = append(times, s.StartTime)
		}
	}
	sort.Strings(dates)
	sort.Strings(times)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	dateCols := make(map[string]int, len(dates))
	for i, date := range dates {
		col := i + 2
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		_ = f.SetCellValue(scheduleSheet, cell, date)
		_ = f.SetCellStyle(scheduleSheet, cell, cell, headerStyle)
		dateCols[date] = col
	}

	timeRows := make(map[string]int, len(times))
	for i, start := range times {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(scheduleSheet, cell, start)
		_ = f.SetCellStyle(scheduleSheet, cell, cell, headerStyle)
		timeRows[start] = row
	}

	bookedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})

	for _, s := range slots {
		cell, _ := excelize.CoordinatesToCellName(dateCols[s.Date], timeRows[s.StartTime])
		if s.Booked {
			_ = f.SetCellValue(scheduleSheet, cell, "Booked")
			_ = f.SetCellStyle(scheduleSheet, cell, cell, bookedStyle)
		} else {
			_ = f.SetCellValue(scheduleSheet, cell, "Free")
		}
	}

	_ = f.SetColWidth(scheduleSheet, "A", "A", 12)
	return nil
}

func (e *Exporter) writeAppointmentsSheet(f *excelize.File, appointments []*models.Appointment) error {
	if _, err := f.NewSheet(appointmentsSheet); err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}

	headers := []string{"ID", "Patient", "Date", "Start", "End", "Slot ID", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(appointmentsSheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(appointmentsSheet, "A1", "G1", headerStyle)

	for i, a := range appointments {
		row := i + 2
		values := []interface{}{a.ID, a.UserName, a.Date, a.StartTime, a.EndTime, a.SlotID, a.CreatedAt.Format(time.RFC3339)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(appointmentsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(appointmentsSheet, "B", "B", 25)
	return nil
}
