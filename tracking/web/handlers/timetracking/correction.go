package timetracking

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/web/common"
)

type CorrectionDTO struct {
	TimeBlockID    string                `json:"timeBlockId" binding:"required,uuid"`
	CorrectionType string                `json:"correctionType" binding:"required,oneof=modify_time cancel_block"`
	NewStart       *common.LocalDateTime `json:"newStart,omitempty"`
	NewEnd         *common.LocalDateTime `json:"newEnd,omitempty"`
	Reason         string                `json:"reason" binding:"required"`
}

type ReviewDTO struct {
	Comment *string `json:"comment,omitempty"`
}

// PostCorrection files a correction request against one of the
// caller's own completed blocks.
func (ep *Endpoint) PostCorrection(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var dto CorrectionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	blockID, err := uuid.Parse(dto.TimeBlockID)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid timeBlockId"))
		return
	}

	input := core.SubmitCorrectionInput{
		UserID:         id.UserID,
		PracticeID:     id.PracticeID,
		TimeBlockID:    blockID,
		CorrectionType: model.CorrectionType(dto.CorrectionType),
		Reason:         dto.Reason,
	}

	if dto.NewStart != nil {
		input.NewStart = &dto.NewStart.Time
	}
	if dto.NewEnd != nil {
		input.NewEnd = &dto.NewEnd.Time
	}

	var request *model.TimeCorrectionRequest
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		request, err = core.SubmitCorrection(c.Request.Context(), db, input)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(request))
}

// ListCorrections returns the caller's requests, optionally filtered
// by ?status=pending|approved|rejected.
func (ep *Endpoint) ListCorrections(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	status := model.CorrectionStatus(c.Query("status"))
	switch status {
	case "", model.CorrectionPending, model.CorrectionApproved, model.CorrectionRejected:
	default:
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid status"))
		return
	}

	var requests []model.TimeCorrectionRequest
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		requests, err = core.ListCorrections(c.Request.Context(), db, id.UserID, status)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(requests, int64(len(requests))))
}

func (ep *Endpoint) reviewCorrection(c *gin.Context, approve bool) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if !requireAdmin(c, id) {
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	// The comment body is optional.
	var dto ReviewDTO
	if err := c.ShouldBindJSON(&dto); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var request *model.TimeCorrectionRequest
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		if approve {
			request, err = core.ApproveCorrection(c.Request.Context(), db, requestID, id.UserID, dto.Comment, ep.Target)
		} else {
			request, err = core.RejectCorrection(c.Request.Context(), db, requestID, id.UserID, dto.Comment)
		}
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(request))
}

func (ep *Endpoint) ApproveCorrection(c *gin.Context) {
	ep.reviewCorrection(c, true)
}

func (ep *Endpoint) RejectCorrection(c *gin.Context) {
	ep.reviewCorrection(c, false)
}
