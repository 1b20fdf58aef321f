package timetracking

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/export"
	"praxido.de/praxido/utils"
	"praxido.de/praxido/web/common"
)

// dateRange reads ?from / ?to, or ?month=2025-10, defaulting to today.
func dateRange(c *gin.Context) (string, string, error) {
	if month := c.Query("month"); month != "" {
		first, err := time.ParseInLocation("2006-01", month, time.UTC)
		if err != nil {
			return "", "", fmt.Errorf("invalid month %q", month)
		}
		last := first.AddDate(0, 1, -1)
		return utils.DateOf(first), utils.DateOf(last), nil
	}

	today := utils.DateOf(time.Now())
	from := c.DefaultQuery("from", today)
	to := c.DefaultQuery("to", today)

	for _, d := range []string{from, to} {
		if _, err := time.ParseInLocation(utils.DateLayout, d, time.UTC); err != nil {
			return "", "", fmt.Errorf("invalid date %q", d)
		}
	}
	if from > to {
		return "", "", fmt.Errorf("from is after to")
	}
	return from, to, nil
}

// reportAsOf reads the ?asOfNow flag. By default an open block counts
// zero minutes; only an explicit opt-in values it up to now.
func reportAsOf(c *gin.Context, now time.Time) *time.Time {
	switch strings.ToLower(c.Query("asOfNow")) {
	case "1", "true", "yes":
		return &now
	}
	return nil
}

func (ep *Endpoint) loadReport(c *gin.Context) (*core.MonthlyReport, []core.ReportRow, string, string, bool) {
	id, ok := identity(c)
	if !ok {
		return nil, nil, "", "", false
	}

	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return nil, nil, "", "", false
	}

	asOf := reportAsOf(c, time.Now())
	var (
		summary *core.MonthlyReport
		rows    []core.ReportRow
	)
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		summary, rows, err = core.Report(c.Request.Context(), db, id.UserID, id.PracticeID, from, to, ep.Target, asOf)
		return err
	})
	if err != nil {
		respondError(c, err)
		return nil, nil, "", "", false
	}
	return summary, rows, from, to, true
}

// GetReport returns the aggregated report plus its rows for a range.
func (ep *Endpoint) GetReport(c *gin.Context) {
	summary, rows, from, to, ok := ep.loadReport(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"from":    from,
		"to":      to,
		"summary": summary,
		"rows":    rows,
	}))
}

// ExportReport streams the report as ?format=csv|xlsx|pdf and archives
// a copy when an archiver is configured.
func (ep *Endpoint) ExportReport(c *gin.Context) {
	summary, rows, from, to, ok := ep.loadReport(c)
	if !ok {
		return
	}

	format := export.Format(c.DefaultQuery("format", "csv"))
	doc, err := export.Generate(format, "Zeiterfassung", from, to, rows, *summary)
	if err != nil {
		respondError(c, err)
		return
	}

	if ep.Archiver != nil {
		if err := ep.Archiver.Archive(c.Request.Context(), doc.Name, doc.ContentType, doc.Data); err != nil {
			// The download still succeeds; the archive copy is best effort.
			log.Printf("time: failed to archive export %s: %v", doc.Name, err)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
