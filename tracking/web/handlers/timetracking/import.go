package timetracking

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/imports"
	"praxido.de/praxido/web/common"
)

// ImportStamps accepts a CSV upload of historical stamps (multipart
// field "file") and replays it through the regular stamping path.
func (ep *Endpoint) ImportStamps(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Missing file upload"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Cannot open upload"))
		return
	}
	defer file.Close()

	stamps, parseErrors, err := imports.ParseStampCSV(file)
	if err != nil {
		respondError(c, err)
		return
	}

	var result *imports.ImportResult
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		result, err = imports.ImportStamps(c.Request.Context(), db, ep.Target, id.UserID, id.PracticeID, stamps)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result.ParseErrs = parseErrors
	c.JSON(http.StatusOK, common.NewSuccessResponse(result))
}
