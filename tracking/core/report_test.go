package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

func flatTarget(minutes int) TargetResolver {
	return func(string) int { return minutes }
}

func completedBlock(date string, startHour, netMinutes, breakMinutes int, location model.LocationType) model.TimeBlock {
	start := utils.MustParseDate(date).Add(time.Duration(startHour) * time.Hour)
	end := start.Add(time.Duration(netMinutes+breakMinutes) * time.Minute)
	return model.TimeBlock{
		Date:            date,
		StartTime:       start,
		EndTime:         &end,
		BreakMinutes:    breakMinutes,
		NetMinutes:      netMinutes,
		OvertimeMinutes: OvertimeDelta(netMinutes, 480),
		LocationType:    location,
		Status:          model.BlockCompleted,
	}
}

func TestBuildMonthlyReport(t *testing.T) {
	blocks := []model.TimeBlock{
		completedBlock("2025-10-01", 8, 480, 30, model.LocationOffice),
		completedBlock("2025-10-02", 8, 510, 30, model.LocationHomeoffice),
		// Split day: two blocks on the same date count as one work day.
		completedBlock("2025-10-06", 8, 240, 0, model.LocationOffice),
		completedBlock("2025-10-06", 14, 180, 0, model.LocationOffice),
	}

	report := BuildMonthlyReport(blocks, 2, 1, flatTarget(480), nil)

	assert.Equal(t, 3, report.TotalWorkDays)
	assert.Equal(t, 480+510+420, report.TotalNetMinutes)
	assert.Equal(t, 0+30-60, report.OvertimeMinutes)
	assert.Equal(t, 1, report.HomeofficeDays)
	assert.Equal(t, 2, report.CorrectionsCount)
	assert.Equal(t, 1, report.PlausibilityWarnings)
}

func TestBuildMonthlyReportExcludesCancelled(t *testing.T) {
	cancelled := completedBlock("2025-10-03", 8, 480, 0, model.LocationOffice)
	cancelled.Status = model.BlockCancelled

	report := BuildMonthlyReport([]model.TimeBlock{
		completedBlock("2025-10-01", 8, 480, 0, model.LocationOffice),
		cancelled,
	}, 0, 0, flatTarget(480), nil)

	assert.Equal(t, 1, report.TotalWorkDays)
	assert.Equal(t, 480, report.TotalNetMinutes)
	assert.Equal(t, 0, report.OvertimeMinutes)
}

func TestBuildMonthlyReportValuesActiveBlockUpToAsOf(t *testing.T) {
	start := utils.MustParseDate("2025-10-07").Add(8 * time.Hour)
	active := model.TimeBlock{
		Date:         "2025-10-07",
		StartTime:    start,
		BreakMinutes: 30,
		LocationType: model.LocationOffice,
		Status:       model.BlockActive,
	}

	asOf := start.Add(5 * time.Hour)
	report := BuildMonthlyReport([]model.TimeBlock{active}, 0, 0, flatTarget(480), &asOf)

	assert.Equal(t, 1, report.TotalWorkDays)
	assert.Equal(t, 270, report.TotalNetMinutes)
	assert.Equal(t, 270-480, report.OvertimeMinutes)

	// Without asOf the open block counts as a work day with zero net.
	report = BuildMonthlyReport([]model.TimeBlock{active}, 0, 0, flatTarget(480), nil)
	assert.Equal(t, 0, report.TotalNetMinutes)
}

// The aggregator must not mutate its input.
func TestBuildMonthlyReportIsPure(t *testing.T) {
	blocks := []model.TimeBlock{
		completedBlock("2025-10-01", 8, 480, 30, model.LocationOffice),
	}
	original := blocks[0]

	_ = BuildMonthlyReport(blocks, 0, 0, flatTarget(480), nil)
	_ = BuildMonthlyReport(blocks, 0, 0, flatTarget(480), nil)

	assert.Equal(t, original, blocks[0])
}

func TestBuildReportRows(t *testing.T) {
	block := completedBlock("2025-10-01", 8, 480, 30, model.LocationHomeoffice)
	cancelled := completedBlock("2025-10-02", 8, 480, 0, model.LocationOffice)
	cancelled.Status = model.BlockCancelled

	rows := BuildReportRows([]model.TimeBlock{block, cancelled}, nil)
	require.Len(t, rows, 2)

	assert.Equal(t, "2025-10-01", rows[0].Date)
	assert.Equal(t, 510, rows[0].GrossMinutes)
	assert.Equal(t, 30, rows[0].BreakMinutes)
	assert.Equal(t, 480, rows[0].NetMinutes)
	assert.Equal(t, model.LocationHomeoffice, rows[0].LocationType)

	// Cancelled rows stay listed with a zero net.
	assert.Equal(t, model.BlockCancelled, rows[1].Status)
	assert.Equal(t, 0, rows[1].NetMinutes)
	assert.Equal(t, 480, rows[1].GrossMinutes)
}
