package timetracking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
	"praxido.de/praxido/web/common"
)

type StampDTO struct {
	Kind         string                `json:"kind" binding:"required,oneof=start stop pause_start pause_end"`
	LocationType string                `json:"locationType" binding:"required,oneof=office homeoffice mobile"`
	Timestamp    *common.LocalDateTime `json:"timestamp,omitempty"`
	Note         *string               `json:"note,omitempty"`

	ClientStampID *string `json:"clientStampId,omitempty" binding:"omitempty,uuid"`

	DeviceFingerprint *string  `json:"deviceFingerprint,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
}

// PostStamp records one clock event for the caller. Omitting the
// timestamp stamps now; supplying one marks the stamp as manual.
func (ep *Endpoint) PostStamp(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var dto StampDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	req := core.StampRequest{
		UserID:            id.UserID,
		PracticeID:        id.PracticeID,
		Kind:              model.StampKind(dto.Kind),
		Timestamp:         time.Now(),
		LocationType:      model.LocationType(dto.LocationType),
		Note:              dto.Note,
		DeviceFingerprint: dto.DeviceFingerprint,
		Latitude:          dto.Latitude,
		Longitude:         dto.Longitude,
	}

	if dto.Timestamp != nil && !dto.Timestamp.IsZero() {
		req.Timestamp = dto.Timestamp.Time
		req.IsManual = true
	}

	if dto.ClientStampID != nil {
		clientID, err := uuid.Parse(*dto.ClientStampID)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid clientStampId"))
			return
		}
		req.ClientStampID = &clientID
	}

	if ip := c.ClientIP(); ip != "" {
		req.IPAddress = utils.Ptr(ip)
	}

	var result *core.StampResult
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		result, err = core.RecordStamp(c.Request.Context(), db, ep.Gate, ep.Target, req)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result))
}

// GetStatus returns the caller's live stamping state.
func (ep *Endpoint) GetStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var result *core.StampResult
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		result, err = core.Status(c.Request.Context(), db, id.UserID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result))
}

// GetBlocks lists the caller's blocks for ?from=...&to=... (inclusive
// dates, default: today).
func (ep *Endpoint) GetBlocks(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	var blocks []model.TimeBlock
	err = ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		blocks, err = core.BlocksInRange(c.Request.Context(), db, id.UserID, from, to)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(blocks, int64(len(blocks))))
}

// GetOvertime returns the caller's running overtime balance.
func (ep *Endpoint) GetOvertime(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var balance int
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		balance, err = core.Balance(c.Request.Context(), db, id.UserID, id.PracticeID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{"balanceMinutes": balance}))
}
