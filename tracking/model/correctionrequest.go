package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApproved CorrectionStatus = "approved"
	CorrectionRejected CorrectionStatus = "rejected"
)

type CorrectionType string

const (
	CorrectionModifyTime  CorrectionType = "modify_time"
	CorrectionCancelBlock CorrectionType = "cancel_block"
)

// TimeCorrectionRequest is a proposed retroactive edit to a completed
// block. Rows are never deleted; together with the untouched stamps they
// form the audit trail of what changed and why.
type TimeCorrectionRequest struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index" json:"userId"`
	PracticeID  uuid.UUID `gorm:"type:char(36);not null;index" json:"practiceId"`
	TimeBlockID uuid.UUID `gorm:"type:char(36);not null;index" json:"timeBlockId"`

	CorrectionType CorrectionType `gorm:"type:varchar(30);not null" json:"correctionType"`
	// RequestedChanges is the JSON payload for the correction type, e.g.
	// {"old_start":...,"old_end":...,"new_start":...,"new_end":...} for
	// modify_time.
	RequestedChanges string `gorm:"type:json;not null" json:"requestedChanges"`
	Reason           string `gorm:"type:text;not null" json:"reason"`

	Status        CorrectionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ReviewedBy    *uuid.UUID       `gorm:"type:char(36)" json:"reviewedBy,omitempty"`
	ReviewComment *string          `gorm:"type:text" json:"reviewComment,omitempty"`
	ReviewedAt    *time.Time       `json:"reviewedAt,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (TimeCorrectionRequest) TableName() string {
	return "time_correction_requests"
}

func (r *TimeCorrectionRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
