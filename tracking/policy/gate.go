package policy

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

// Gate is the database-backed homeoffice gate. A user-specific policy
// row overrides the practice-wide default (the row with a null user).
type Gate struct {
	DB *gorm.DB
}

var _ core.PolicyGate = (*Gate)(nil)

func NewGate(db *gorm.DB) *Gate {
	return &Gate{DB: db}
}

func (g *Gate) CheckAllowed(ctx context.Context, practiceID, userID uuid.UUID, date string) (core.PolicyDecision, error) {
	db := g.DB.WithContext(ctx)

	policy, err := loadPolicy(db, practiceID, userID)
	if err != nil {
		return core.PolicyDecision{}, err
	}

	day := utils.MustParseDate(date)

	used := 0
	if policy != nil && policy.IsAllowed && policy.MaxDaysPerWeek > 0 {
		used, err = usedHomeofficeDays(db, userID, day, date)
		if err != nil {
			return core.PolicyDecision{}, err
		}
	}

	return EvaluatePolicy(policy, day.Weekday(), used), nil
}

func loadPolicy(db *gorm.DB, practiceID, userID uuid.UUID) (*model.HomeofficePolicy, error) {
	var policy model.HomeofficePolicy
	err := db.Where("practice_id = ? AND user_id = ?", practiceID, userID).First(&policy).Error
	if err == nil {
		return &policy, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("practice_id = ? AND user_id IS NULL", practiceID).First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// usedHomeofficeDays counts distinct homeoffice days in the week of
// day, the requested date itself excluded so re-stamping the same day
// does not eat the quota twice.
func usedHomeofficeDays(db *gorm.DB, userID uuid.UUID, day time.Time, date string) (int, error) {
	monday, sunday := WeekBounds(day)

	var count int64
	err := db.Model(&model.TimeBlock{}).
		Distinct("date").
		Where("user_id = ? AND location_type = ? AND status <> ? AND date >= ? AND date <= ? AND date <> ?",
			userID, model.LocationHomeoffice, model.BlockCancelled, monday, sunday, date).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// UpsertPolicyInput configures one policy row; a nil UserID targets the
// practice default.
type UpsertPolicyInput struct {
	PracticeID     uuid.UUID
	UserID         *uuid.UUID
	IsAllowed      bool
	AllowedDays    []string
	MaxDaysPerWeek int
}

// UpsertPolicy creates or replaces the policy row for its scope.
func UpsertPolicy(ctx context.Context, db *gorm.DB, in UpsertPolicyInput) (*model.HomeofficePolicy, error) {
	for _, name := range in.AllowedDays {
		if _, ok := weekdayNames[name]; !ok {
			return nil, &core.ValidationError{Field: "allowedDays", Message: "unknown weekday " + name}
		}
	}
	raw, err := encodeAllowedDays(in.AllowedDays)
	if err != nil {
		return nil, err
	}

	var policy model.HomeofficePolicy
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("practice_id = ?", in.PracticeID)
		if in.UserID == nil {
			q = q.Where("user_id IS NULL")
		} else {
			q = q.Where("user_id = ?", *in.UserID)
		}

		err := q.First(&policy).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		policy.PracticeID = in.PracticeID
		policy.UserID = in.UserID
		policy.IsAllowed = in.IsAllowed
		policy.AllowedDays = raw
		policy.MaxDaysPerWeek = in.MaxDaysPerWeek
		return tx.Save(&policy).Error
	})
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func encodeAllowedDays(days []string) (string, error) {
	if len(days) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
