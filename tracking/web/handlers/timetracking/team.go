package timetracking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
	"praxido.de/praxido/web/common"
)

// GetTeam returns the live view of the caller's practice for
// ?date=... (default: today).
func (ep *Endpoint) GetTeam(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	now := time.Now()
	date := c.DefaultQuery("date", utils.DateOf(now))
	if _, err := time.ParseInLocation(utils.DateLayout, date, time.UTC); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid date"))
		return
	}

	var members []core.TeamMemberStatus
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		members, err = core.TeamLiveView(c.Request.Context(), db, id.PracticeID, date, now)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(members, int64(len(members))))
}

// GetPlausibility lists the caller's plausibility feed entries for a
// date range.
func (ep *Endpoint) GetPlausibility(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	var issues []model.PlausibilityIssue
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		issues, err = core.PlausibilityIssues(c.Request.Context(), db, id.UserID, from, to)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(issues, int64(len(issues))))
}
