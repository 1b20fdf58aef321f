package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
)

// csvHeader matches what payroll imports; the separator is ";" because
// German Excel expects it.
var csvHeader = []string{"Datum", "Start", "Ende", "Brutto", "Pause", "Netto", "Ort", "Status"}

func germanLocation(l model.LocationType) string {
	switch l {
	case model.LocationOffice:
		return "Büro"
	case model.LocationHomeoffice:
		return "Homeoffice"
	case model.LocationMobile:
		return "Mobil"
	}
	return string(l)
}

func germanStatus(s model.BlockStatus) string {
	switch s {
	case model.BlockActive:
		return "offen"
	case model.BlockCompleted:
		return "abgeschlossen"
	case model.BlockCancelled:
		return "storniert"
	}
	return string(s)
}

// WriteCSV renders the report as semicolon-separated CSV with a summary
// footer.
func WriteCSV(rows []core.ReportRow, summary core.MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, row := range rows {
		end := ""
		if row.EndTime != nil {
			end = row.EndTime.Format("15:04")
		}
		record := []string{
			row.Date,
			row.StartTime.Format("15:04"),
			end,
			formatHM(row.GrossMinutes),
			formatHM(row.BreakMinutes),
			formatHM(row.NetMinutes),
			germanLocation(row.LocationType),
			germanStatus(row.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	footer := [][]string{
		{},
		{"Arbeitstage", fmt.Sprintf("%d", summary.TotalWorkDays)},
		{"Netto gesamt", formatHM(summary.TotalNetMinutes)},
		{"Überstunden", formatHM(summary.OvertimeMinutes)},
		{"Homeoffice-Tage", fmt.Sprintf("%d", summary.HomeofficeDays)},
		{"Korrekturen", fmt.Sprintf("%d", summary.CorrectionsCount)},
		{"Plausibilitätswarnungen", fmt.Sprintf("%d", summary.PlausibilityWarnings)},
	}
	for _, record := range footer {
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
