package export

import (
	"path/filepath"
	"testing"

	"gymbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bookings.xlsx")

	bookings := []models.Booking{
		{
			ID:          "100",
			Description: "Fitness",
			Location:    "Hall 1",
			Site:        "X TU Delft",
			StartDate:   "19-11-2021",
			StartTime:   "10:00",
			EndTime:     "11:00",
			Trainer:     "Alex",
			Paid:        "1",
		},
		{ID: "101", Description: "Squash"},
	}

	require.NoError(t, WriteBookings(path, bookings))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Booking ID", header)

	id, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "100", id)

	desc, err := f.GetCellValue(sheetName, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Squash", desc)
}

func TestWriteBookingsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.xlsx")
	require.NoError(t, WriteBookings(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
