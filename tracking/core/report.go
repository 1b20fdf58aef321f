package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

// ReportRow is one block rendered for the report table and the exports.
type ReportRow struct {
	Date         string             `json:"date"`
	StartTime    time.Time          `json:"startTime"`
	EndTime      *time.Time         `json:"endTime,omitempty"`
	GrossMinutes int                `json:"grossMinutes"`
	BreakMinutes int                `json:"breakMinutes"`
	NetMinutes   int                `json:"netMinutes"`
	LocationType model.LocationType `json:"locationType"`
	Status       model.BlockStatus  `json:"status"`
}

// MonthlyReport matches the export contract consumed by payroll.
type MonthlyReport struct {
	TotalWorkDays        int `json:"total_work_days"`
	TotalNetMinutes      int `json:"total_net_minutes"`
	OvertimeMinutes      int `json:"overtime_minutes"`
	HomeofficeDays       int `json:"homeoffice_days"`
	CorrectionsCount     int `json:"corrections_count"`
	PlausibilityWarnings int `json:"plausibility_warnings"`
}

// blockNet values a block for reporting: completed blocks carry their
// stored net, active ones are valued up to asOf (closed breaks only),
// cancelled ones are worth nothing.
func blockNet(b model.TimeBlock, asOf *time.Time) int {
	switch b.Status {
	case model.BlockCompleted:
		return b.NetMinutes
	case model.BlockActive:
		if asOf == nil || asOf.Before(b.StartTime) {
			return 0
		}
		net, _ := NetMinutes(b.StartTime, *asOf, b.BreakMinutes)
		return net
	}
	return 0
}

// BuildReportRows renders blocks in input order. Cancelled blocks are
// kept with a zero net so the audit trail stays visible.
func BuildReportRows(blocks []model.TimeBlock, asOf *time.Time) []ReportRow {
	rows := make([]ReportRow, 0, len(blocks))
	for _, b := range blocks {
		gross := 0
		if b.EndTime != nil {
			gross = utils.MinutesBetween(b.StartTime, *b.EndTime)
		} else if b.Status == model.BlockActive && asOf != nil && asOf.After(b.StartTime) {
			gross = utils.MinutesBetween(b.StartTime, *asOf)
		}
		if gross < 0 {
			gross = 0
		}
		rows = append(rows, ReportRow{
			Date:         b.Date,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			GrossMinutes: gross,
			BreakMinutes: b.BreakMinutes,
			NetMinutes:   blockNet(b, asOf),
			LocationType: b.LocationType,
			Status:       b.Status,
		})
	}
	return rows
}

// BuildMonthlyReport aggregates blocks into the payroll summary. It is
// pure: counts for corrections and plausibility warnings are passed in.
// Overtime is recomputed from net vs. target per work day, so the
// summary stays consistent with the rows even while a block is open.
func BuildMonthlyReport(blocks []model.TimeBlock, correctionsCount, warningsCount int, target TargetResolver, asOf *time.Time) MonthlyReport {
	counted := utils.Filter(blocks, func(b model.TimeBlock) bool {
		return b.Status != model.BlockCancelled
	})

	byDate := utils.GroupBy(counted, func(b model.TimeBlock) string { return b.Date })

	report := MonthlyReport{
		CorrectionsCount:     correctionsCount,
		PlausibilityWarnings: warningsCount,
	}

	homeofficeDates := map[string]bool{}
	for date, dayBlocks := range byDate {
		report.TotalWorkDays++
		dayNet := 0
		for _, b := range dayBlocks {
			dayNet += blockNet(b, asOf)
			if b.LocationType == model.LocationHomeoffice {
				homeofficeDates[date] = true
			}
		}
		report.TotalNetMinutes += dayNet
		report.OvertimeMinutes += OvertimeDelta(dayNet, target(date))
	}
	report.HomeofficeDays = len(homeofficeDates)

	return report
}

// Report loads a user's month and aggregates it. from/to are inclusive
// "2006-01-02" bounds; asOf values any still-open block.
func Report(ctx context.Context, db *gorm.DB, userID, practiceID uuid.UUID, from, to string, target TargetResolver, asOf *time.Time) (*MonthlyReport, []ReportRow, error) {
	var blocks []model.TimeBlock
	err := db.WithContext(ctx).
		Where("user_id = ? AND practice_id = ? AND date >= ? AND date <= ?", userID, practiceID, from, to).
		Order("date, start_time").
		Find(&blocks).Error
	if err != nil {
		return nil, nil, wrapStorage("load report blocks", err)
	}

	var correctionsCount int64
	err = db.WithContext(ctx).Model(&model.TimeCorrectionRequest{}).
		Joins("JOIN time_blocks ON time_blocks.id = time_correction_requests.time_block_id").
		Where("time_correction_requests.user_id = ? AND time_blocks.date >= ? AND time_blocks.date <= ?", userID, from, to).
		Count(&correctionsCount).Error
	if err != nil {
		return nil, nil, wrapStorage("count corrections", err)
	}

	var warningsCount int64
	err = db.WithContext(ctx).Model(&model.PlausibilityIssue{}).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Count(&warningsCount).Error
	if err != nil {
		return nil, nil, wrapStorage("count plausibility issues", err)
	}

	summary := BuildMonthlyReport(blocks, int(correctionsCount), int(warningsCount), target, asOf)
	rows := BuildReportRows(blocks, asOf)
	return &summary, rows, nil
}

// PlausibilityIssues lists the feed entries for a user in a date range.
// The feed is produced elsewhere; this side only reads it.
func PlausibilityIssues(ctx context.Context, db *gorm.DB, userID uuid.UUID, from, to string) ([]model.PlausibilityIssue, error) {
	var issues []model.PlausibilityIssue
	err := db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date, created_at").
		Find(&issues).Error
	if err != nil {
		return nil, wrapStorage("load plausibility issues", err)
	}
	return issues, nil
}
