package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

func sampleRows() []core.ReportRow {
	start := utils.MustParseDate("2025-10-01").Add(8 * time.Hour)
	end := start.Add(8*time.Hour + 30*time.Minute)
	return []core.ReportRow{
		{
			Date:         "2025-10-01",
			StartTime:    start,
			EndTime:      &end,
			GrossMinutes: 510,
			BreakMinutes: 30,
			NetMinutes:   480,
			LocationType: model.LocationHomeoffice,
			Status:       model.BlockCompleted,
		},
		{
			Date:         "2025-10-02",
			StartTime:    start.AddDate(0, 0, 1),
			GrossMinutes: 0,
			BreakMinutes: 0,
			NetMinutes:   0,
			LocationType: model.LocationOffice,
			Status:       model.BlockActive,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	summary := core.MonthlyReport{
		TotalWorkDays:    2,
		TotalNetMinutes:  480,
		OvertimeMinutes:  -480,
		HomeofficeDays:   1,
		CorrectionsCount: 1,
	}

	data, err := WriteCSV(sampleRows(), summary)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Datum;Start;Ende;Brutto;Pause;Netto;Ort;Status", lines[0])
	assert.Equal(t, "2025-10-01;08:00;16:30;8:30;0:30;8:00;Homeoffice;abgeschlossen", lines[1])

	// Open block has no end time.
	assert.Contains(t, lines[2], "2025-10-02;08:00;;")
	assert.Contains(t, lines[2], "offen")

	// Summary footer, negative balance keeps its sign.
	joined := string(data)
	assert.Contains(t, joined, "Überstunden;-8:00")
	assert.Contains(t, joined, "Arbeitstage;2")
}

func TestFormatHM(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{480, "8:00"},
		{510, "8:30"},
		{-90, "-1:30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatHM(tt.minutes))
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	_, err := Generate(Format("docx"), "Zeiterfassung", "2025-10-01", "2025-10-31", nil, core.MonthlyReport{})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}

func TestGenerateCSVDocument(t *testing.T) {
	doc, err := Generate(FormatCSV, "Zeiterfassung", "2025-10-01", "2025-10-31", sampleRows(), core.MonthlyReport{})
	require.NoError(t, err)
	assert.Equal(t, "zeiterfassung_2025-10-01_2025-10-31.csv", doc.Name)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	assert.NotEmpty(t, doc.Data)
}
