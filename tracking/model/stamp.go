package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StampKind string

const (
	StampStart      StampKind = "start"
	StampStop       StampKind = "stop"
	StampPauseStart StampKind = "pause_start"
	StampPauseEnd   StampKind = "pause_end"
)

func (k StampKind) Valid() bool {
	switch k {
	case StampStart, StampStop, StampPauseStart, StampPauseEnd:
		return true
	}
	return false
}

type LocationType string

// Database constraint: location_type IN ('office', 'homeoffice', 'mobile')
const (
	LocationOffice     LocationType = "office"
	LocationHomeoffice LocationType = "homeoffice"
	LocationMobile     LocationType = "mobile"
)

func (l LocationType) Valid() bool {
	switch l {
	case LocationOffice, LocationHomeoffice, LocationMobile:
		return true
	}
	return false
}

// TimeStamp is one raw clock event. Rows are append-only: corrections
// operate on derived TimeBlocks, never on stamps.
type TimeStamp struct {
	ID           uuid.UUID    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:char(36);not null;index:idx_time_stamps_user_date" json:"userId"`
	PracticeID   uuid.UUID    `gorm:"type:char(36);not null;index" json:"practiceId"`
	Kind         StampKind    `gorm:"type:varchar(20);not null" json:"kind"`
	Timestamp    time.Time    `gorm:"not null" json:"timestamp"`
	Date         string       `gorm:"type:char(10);not null;index:idx_time_stamps_user_date" json:"date"`
	LocationType LocationType `gorm:"type:varchar(20);not null" json:"locationType"`
	Note         *string      `gorm:"type:text" json:"note,omitempty"`
	IsManual     bool         `gorm:"not null" json:"isManual"`

	// Acknowledged inputs only; no verification logic lives here.
	DeviceFingerprint *string  `gorm:"type:varchar(255)" json:"deviceFingerprint,omitempty"`
	IPAddress         *string  `gorm:"type:varchar(64)" json:"ipAddress,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (TimeStamp) TableName() string {
	return "time_stamps"
}

func (s *TimeStamp) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
