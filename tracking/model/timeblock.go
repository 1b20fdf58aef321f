package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BlockStatus string

const (
	BlockActive    BlockStatus = "active"
	BlockCompleted BlockStatus = "completed"
	BlockCancelled BlockStatus = "cancelled"
)

// TimeBlock is one continuous work session, derived from stamps.
// Invariant: at most one block per user has status 'active'.
type TimeBlock struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;index:idx_time_blocks_user_date" json:"userId"`
	PracticeID uuid.UUID `gorm:"type:char(36);not null;index" json:"practiceId"`
	Date       string    `gorm:"type:char(10);not null;index:idx_time_blocks_user_date" json:"date"`

	StartTime time.Time  `gorm:"not null" json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`

	BreakMinutes int `gorm:"not null;default:0" json:"breakMinutes"`
	NetMinutes   int `gorm:"not null;default:0" json:"netMinutes"`
	// OvertimeMinutes is this block's applied delta against the daily
	// target; it is what a correction has to reverse.
	OvertimeMinutes int `gorm:"not null;default:0" json:"overtimeMinutes"`

	LocationType LocationType `gorm:"type:varchar(20);not null" json:"locationType"`
	Status       BlockStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	Note         *string      `gorm:"type:text" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (TimeBlock) TableName() string {
	return "time_blocks"
}

func (b *TimeBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TimeBreak is a pause inside a block. Invariant: at most one break per
// block has a null EndTime.
type TimeBreak struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	TimeBlockID uuid.UUID  `gorm:"type:char(36);not null;index" json:"timeBlockId"`
	StartTime   time.Time  `gorm:"not null" json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`

	DurationMinutes int `gorm:"not null;default:0" json:"durationMinutes"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (TimeBreak) TableName() string {
	return "time_block_breaks"
}

func (b *TimeBreak) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
