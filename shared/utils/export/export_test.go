package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestSalaryReportXLSX(t *testing.T) {
	rows := []SalaryRow{
		{
			EmployeeName: "Nguyen Van A",
			Email:        "a@example.com",
			Month:        "2025-06",
			BaseSalary:   1200,
			Bonus:        150,
			Deductions:   50,
			Total:        1300,
			HoursWorked:  168.5,
		},
		{
			EmployeeName: "Tran Thi B",
			Email:        "b@example.com",
			Month:        "2025-06",
			BaseSalary:   1500,
			Total:        1500,
			Notes:        "probation",
		},
	}

	data, err := SalaryReportXLSX(rows)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Salaries")
	assert.NoError(t, err)
	assert.Len(t, cells, 3)
	assert.Equal(t, "Employee", cells[0][0])
	assert.Equal(t, "Nguyen Van A", cells[1][0])
	assert.Equal(t, "2025-06", cells[1][2])
	assert.Equal(t, "probation", cells[2][8])
}

func TestSalaryReportXLSXEmpty(t *testing.T) {
	data, err := SalaryReportXLSX(nil)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Salaries")
	assert.NoError(t, err)
	assert.Len(t, cells, 1, "header only")
}

func TestAttendanceCSV(t *testing.T) {
	checkIn := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	checkOut := time.Date(2025, 6, 2, 17, 45, 0, 0, time.UTC)
	rows := []AttendanceRow{
		{
			EmployeeName: "Nguyen Van A",
			Email:        "a@example.com",
			Date:         "2025-06-02",
			CheckIn:      &checkIn,
			CheckOut:     &checkOut,
			HoursWorked:  9.25,
		},
		{
			EmployeeName: "Tran Thi B",
			Email:        "b@example.com",
			Date:         "2025-06-02",
			CheckIn:      &checkIn,
			Notes:        "forgot to check out",
		},
	}

	data, err := AttendanceCSV(rows)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "Employee,Email,Date,Check In,Check Out,Hours Worked,Notes", lines[0])
	assert.Contains(t, lines[1], "08:30:00")
	assert.Contains(t, lines[1], "17:45:00")
	assert.Contains(t, lines[2], "forgot to check out")
	// Missing check-out stays empty, not zero.
	assert.Contains(t, lines[2], ",,0.00,")
}
