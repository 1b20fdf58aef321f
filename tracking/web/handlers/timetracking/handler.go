package timetracking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	praxcore "praxido.de/praxido/core"
	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/export"
	"praxido.de/praxido/web/common"
	"praxido.de/praxido/web/middlewares"
)

type Endpoint struct {
	Dm       *praxcore.DatabaseManager
	Gate     core.PolicyGate
	Target   core.TargetResolver
	Archiver export.Archiver
}

func Register(r *gin.RouterGroup, endpoint *Endpoint) {
	r.POST("/time/stamps", endpoint.PostStamp)
	r.POST("/time/stamps/import", endpoint.ImportStamps)
	r.GET("/time/status", endpoint.GetStatus)
	r.GET("/time/blocks", endpoint.GetBlocks)
	r.GET("/time/report", endpoint.GetReport)
	r.GET("/time/report/export", endpoint.ExportReport)
	r.GET("/time/overtime", endpoint.GetOvertime)

	r.POST("/time/corrections", endpoint.PostCorrection)
	r.GET("/time/corrections", endpoint.ListCorrections)
	r.POST("/time/corrections/:id/approve", endpoint.ApproveCorrection)
	r.POST("/time/corrections/:id/reject", endpoint.RejectCorrection)

	r.GET("/time/team", endpoint.GetTeam)
	r.GET("/time/plausibility", endpoint.GetPlausibility)
	r.GET("/time/policies/homeoffice/check", endpoint.CheckHomeoffice)
	r.PUT("/time/policies/homeoffice", endpoint.PutHomeofficePolicy)
}

// respondError maps the error taxonomy onto HTTP: validation 400,
// policy 403, conflict 409, missing rows 404, everything else 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidation(err):
		status = http.StatusBadRequest
	case core.IsPolicyDenied(err):
		status = http.StatusForbidden
	case core.IsConflict(err):
		status = http.StatusConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse("not found"))
		return
	}
	c.JSON(status, common.NewErrorResponse(err.Error()))
}

func identity(c *gin.Context) (middlewares.Identity, bool) {
	id, ok := middlewares.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("missing identity"))
	}
	return id, ok
}

// reviewer-only operations; role management itself lives upstream.
func requireAdmin(c *gin.Context, id middlewares.Identity) bool {
	if id.Role != "admin" {
		c.JSON(http.StatusForbidden, common.NewErrorResponse("requires admin role"))
		return false
	}
	return true
}
