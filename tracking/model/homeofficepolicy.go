package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HomeofficePolicy backs the policy gate. A row with UserID null is the
// practice-wide default; a user-specific row overrides it.
type HomeofficePolicy struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	PracticeID uuid.UUID  `gorm:"type:char(36);not null;index" json:"practiceId"`
	UserID     *uuid.UUID `gorm:"type:char(36);index" json:"userId,omitempty"`

	IsAllowed bool `gorm:"not null" json:"isAllowed"`
	// AllowedDays is a JSON array of lowercase English weekday names,
	// e.g. ["monday","wednesday"]. Empty means every day.
	AllowedDays    string `gorm:"type:json" json:"allowedDays"`
	MaxDaysPerWeek int    `gorm:"not null;default:0" json:"maxDaysPerWeek"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (HomeofficePolicy) TableName() string {
	return "homeoffice_policies"
}

func (p *HomeofficePolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
