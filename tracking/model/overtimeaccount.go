package model

import (
	"time"

	"github.com/google/uuid"
)

// OvertimeAccount is the running balance per user. It doubles as the
// per-user lock row: every stamp/correction transaction takes a row lock
// on it before touching blocks.
type OvertimeAccount struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_overtime_user_practice" json:"userId"`
	PracticeID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_overtime_user_practice" json:"practiceId"`
	BalanceMinutes int       `gorm:"not null;default:0" json:"balanceMinutes"`

	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (OvertimeAccount) TableName() string {
	return "overtime_accounts"
}
