package timetracking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/tracking/policy"
	"praxido.de/praxido/utils"
	"praxido.de/praxido/web/common"
)

// CheckHomeoffice answers whether the caller may start in homeoffice
// on ?date=... (default: today), without stamping anything.
func (ep *Endpoint) CheckHomeoffice(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	date := c.DefaultQuery("date", utils.DateOf(time.Now()))
	if _, err := time.ParseInLocation(utils.DateLayout, date, time.UTC); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid date"))
		return
	}

	decision, err := ep.Gate.CheckAllowed(c.Request.Context(), id.PracticeID, id.UserID, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(decision))
}

type HomeofficePolicyDTO struct {
	UserID         *string  `json:"userId,omitempty" binding:"omitempty,uuid"`
	IsAllowed      bool     `json:"isAllowed"`
	AllowedDays    []string `json:"allowedDays"`
	MaxDaysPerWeek int      `json:"maxDaysPerWeek" binding:"min=0,max=7"`
}

// PutHomeofficePolicy creates or replaces a policy row. Omitting
// userId targets the practice-wide default.
func (ep *Endpoint) PutHomeofficePolicy(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	if !requireAdmin(c, id) {
		return
	}

	var dto HomeofficePolicyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	input := policy.UpsertPolicyInput{
		PracticeID:     id.PracticeID,
		IsAllowed:      dto.IsAllowed,
		AllowedDays:    dto.AllowedDays,
		MaxDaysPerWeek: dto.MaxDaysPerWeek,
	}
	if dto.UserID != nil {
		userID, err := uuid.Parse(*dto.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid userId"))
			return
		}
		input.UserID = &userID
	}

	var saved *model.HomeofficePolicy
	err := ep.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		saved, err = policy.UpsertPolicy(c.Request.Context(), db, input)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(saved))
}
