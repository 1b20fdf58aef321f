package model

import (
	"time"

	"github.com/google/uuid"
)

// PlausibilityIssue is a flagged anomaly produced by an external checker.
// This core only reads and counts them; it never writes this table.
type PlausibilityIssue struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index" json:"userId"`
	PracticeID  uuid.UUID `gorm:"type:char(36);not null;index" json:"practiceId"`
	Date        string    `gorm:"type:char(10);not null" json:"date"`
	Description string    `gorm:"type:text;not null" json:"description"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (PlausibilityIssue) TableName() string {
	return "plausibility_issues"
}
