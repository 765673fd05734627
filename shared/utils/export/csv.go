package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

// AttendanceRow is one check-in/check-out pair of the attendance export.
type AttendanceRow struct {
	EmployeeName string
	Email        string
	Date         string
	CheckIn      *time.Time
	CheckOut     *time.Time
	HoursWorked  float64
	Notes        string
}

// AttendanceCSV renders attendance rows as a CSV document.
func AttendanceCSV(rows []AttendanceRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Employee", "Email", "Date", "Check In", "Check Out", "Hours Worked", "Notes"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %v", err)
	}

	formatTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("15:04:05")
	}

	for _, row := range rows {
		record := []string{
			row.EmployeeName,
			row.Email,
			row.Date,
			formatTime(row.CheckIn),
			formatTime(row.CheckOut),
			strconv.FormatFloat(row.HoursWorked, 'f', 2, 64),
			row.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %v", err)
	}
	return buf.Bytes(), nil
}
