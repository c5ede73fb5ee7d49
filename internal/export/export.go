// Package export renders the authoritative booking list to an Excel file.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gymbook/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var headers = []string{
	"Booking ID", "Description", "Location", "Site",
	"Date", "Start", "End", "Trainer", "Amount", "Paid",
}

// WriteBookings writes the booking list to an .xlsx file at path, creating
// the parent directory when needed.
func WriteBookings(path string, bookings []models.Booking) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", last, headerStyle)

	for row, b := range bookings {
		values := []any{
			b.ID, b.Description, b.Location, b.Site,
			b.StartDate, b.StartTime, b.EndTime, b.Trainer, b.Amount, b.Paid,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "D", 22)
	_ = f.SetColWidth(sheetName, "E", "J", 14)
	_ = f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save export: %w", err)
	}
	return nil
}
