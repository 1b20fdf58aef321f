package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"praxido.de/praxido/tracking/model"
)

// OvertimeDelta is the signed difference a closed block contributes to
// the balance: net minutes minus that day's target.
func OvertimeDelta(netMinutes, targetMinutes int) int {
	return netMinutes - targetMinutes
}

// lockAccount takes a FOR UPDATE lock on the user's overtime account
// row, creating it with a zero balance on first contact. Every mutating
// transaction goes through here first, so two concurrent stamps for the
// same user serialize on this row.
func lockAccount(tx *gorm.DB, userID, practiceID uuid.UUID) (*model.OvertimeAccount, error) {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})

	var account model.OvertimeAccount
	err := locked.Where("user_id = ? AND practice_id = ?", userID, practiceID).First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = model.OvertimeAccount{UserID: userID, PracticeID: practiceID}
	if err := tx.Create(&account).Error; err != nil {
		// Lost the race against another first stamp; the row exists now.
		err = locked.Where("user_id = ? AND practice_id = ?", userID, practiceID).First(&account).Error
		if err != nil {
			return nil, err
		}
	}
	return &account, nil
}

// ApplyBalanceDelta increments the balance in place and returns the new
// value. Callers hold the account lock already, the atomic expression
// keeps the update safe regardless.
func ApplyBalanceDelta(tx *gorm.DB, userID, practiceID uuid.UUID, delta int) (int, error) {
	err := tx.Model(&model.OvertimeAccount{}).
		Where("user_id = ? AND practice_id = ?", userID, practiceID).
		UpdateColumn("balance_minutes", gorm.Expr("balance_minutes + ?", delta)).Error
	if err != nil {
		return 0, err
	}

	var account model.OvertimeAccount
	err = tx.Where("user_id = ? AND practice_id = ?", userID, practiceID).First(&account).Error
	if err != nil {
		return 0, err
	}
	return account.BalanceMinutes, nil
}

// Balance reads the current overtime balance; a user who never stamped
// has zero.
func Balance(ctx context.Context, db *gorm.DB, userID, practiceID uuid.UUID) (int, error) {
	var account model.OvertimeAccount
	err := db.WithContext(ctx).Where("user_id = ? AND practice_id = ?", userID, practiceID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapStorage("load overtime balance", err)
	}
	return account.BalanceMinutes, nil
}
