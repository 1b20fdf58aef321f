package export

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"praxido.de/praxido/tracking/core"
)

// GeneratePDF renders the report as a printable PDF.
func GeneratePDF(title string, from, to string, rows []core.ReportRow, summary core.MonthlyReport) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(title, props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s - %s", from, to), props.Text{
					Top:   3,
					Align: consts.Center,
					Size:  12,
				})
			})
		})
	})

	contents := [][]string{}
	for _, row := range rows {
		end := ""
		if row.EndTime != nil {
			end = row.EndTime.Format("15:04")
		}
		contents = append(contents, []string{
			row.Date,
			row.StartTime.Format("15:04"),
			end,
			formatHM(row.BreakMinutes),
			formatHM(row.NetMinutes),
			germanLocation(row.LocationType),
			germanStatus(row.Status),
		})
	}

	m.TableList([]string{"Datum", "Start", "Ende", "Pause", "Netto", "Ort", "Status"}, contents, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: []uint{2, 1, 1, 1, 1, 3, 3},
		},
		ContentProp: props.TableListContent{
			Size:      9,
			GridSizes: []uint{2, 1, 1, 1, 1, 3, 3},
		},
		Align:                consts.Center,
		AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
		HeaderContentSpace:   1,
		Line:                 false,
	})

	summaryLines := [][2]string{
		{"Arbeitstage", fmt.Sprintf("%d", summary.TotalWorkDays)},
		{"Netto gesamt", formatHM(summary.TotalNetMinutes)},
		{"Überstunden", formatHM(summary.OvertimeMinutes)},
		{"Homeoffice-Tage", fmt.Sprintf("%d", summary.HomeofficeDays)},
		{"Korrekturen", fmt.Sprintf("%d", summary.CorrectionsCount)},
		{"Plausibilitätswarnungen", fmt.Sprintf("%d", summary.PlausibilityWarnings)},
	}

	m.Row(6, func() {})
	for _, line := range summaryLines {
		label, value := line[0], line[1]
		m.Row(6, func() {
			m.Col(6, func() {
				m.Text(label, props.Text{Size: 10, Style: consts.Bold, Align: consts.Left})
			})
			m.Col(6, func() {
				m.Text(value, props.Text{Size: 10, Align: consts.Left})
			})
		})
	}

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
