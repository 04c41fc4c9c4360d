package export

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/database"
	"github.com/OjasThanawala/AI-Scheduling-Voicebot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	window := &models.Window{Date: "2026-09-01", StartTime: "09:00", EndTime: "10:00"}
	slots := []models.Slot{
		{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
		{Date: "2026-09-01", StartTime: "09:30", EndTime: "10:00"},
	}
	require.NoError(t, db.CreateWindow(ctx, window, slots))

	appt := &models.Appointment{
		UserName:  "Alice",
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "09:30",
	}
	require.NoError(t, db.BookSlot(ctx, appt))

	exporter := NewExporter(db, t.TempDir(), &logger)
	filePath, err := exporter.Export(ctx)
	require.NoError(t, err)

	_, err = os.Stat(filePath)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filePath)
	require.NoError(t, err)
	defer f.Close()

	// schedule grid: booked slot marked, free slot marked
	booked, err := f.GetCellValue(scheduleSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Booked", booked)

	free, err := f.GetCellValue(scheduleSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Free", free)

	// appointment row
	patient, err := f.GetCellValue(appointmentsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", patient)
}

func TestExport_EmptyStore(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	defer db.Close()

	exporter := NewExporter(db, t.TempDir(), &logger)
	filePath, err := exporter.Export(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filePath)
	assert.NoError(t, err)
}
