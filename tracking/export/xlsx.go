package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"praxido.de/praxido/tracking/core"
)

// BuildWorkbook renders the report as a single-sheet XLSX workbook.
func BuildWorkbook(title string, rows []core.ReportRow, summary core.MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Zeiterfassung"
	f.SetSheetName("Sheet1", sheet)

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	for i, h := range csvHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		end := ""
		if row.EndTime != nil {
			end = row.EndTime.Format("15:04")
		}
		values := []any{
			row.Date,
			row.StartTime.Format("15:04"),
			end,
			formatHM(row.GrossMinutes),
			formatHM(row.BreakMinutes),
			formatHM(row.NetMinutes),
			germanLocation(row.LocationType),
			germanStatus(row.Status),
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+4)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	summaryRows := [][2]any{
		{"Arbeitstage", summary.TotalWorkDays},
		{"Netto gesamt", formatHM(summary.TotalNetMinutes)},
		{"Überstunden", formatHM(summary.OvertimeMinutes)},
		{"Homeoffice-Tage", summary.HomeofficeDays},
		{"Korrekturen", summary.CorrectionsCount},
		{"Plausibilitätswarnungen", summary.PlausibilityWarnings},
	}
	base := len(rows) + 5
	for i, sr := range summaryRows {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", base+i), sr[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", base+i), sr[1]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
