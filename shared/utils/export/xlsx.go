package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SalaryRow is one line of the salary report export.
type SalaryRow struct {
	EmployeeName string
	Email        string
	Month        string
	BaseSalary   float64
	Bonus        float64
	Deductions   float64
	Total        float64
	HoursWorked  float64
	Notes        string
}

var salaryHeaders = []string{
	"Employee", "Email", "Month", "Base Salary", "Bonus",
	"Deductions", "Total", "Hours Worked", "Notes",
}

// SalaryReportXLSX renders the rows as a single-sheet workbook and returns
// the serialized file.
func SalaryReportXLSX(rows []SalaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Salaries"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %v", err)
	}

	for i, header := range salaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %v", err)
		}
	}
	endCell, _ := excelize.CoordinatesToCellName(len(salaryHeaders), 1)
	if err := f.SetCellStyle(sheet, "A1", endCell, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %v", err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.EmployeeName, row.Email, row.Month, row.BaseSalary,
			row.Bonus, row.Deductions, row.Total, row.HoursWorked, row.Notes,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %v", i+1, err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("failed to set column width: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes(), nil
}
