package core

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

// StampRequest is one clock event to record. ClientStampID is an
// optional client-generated UUID used for replay detection: retrying a
// request with the same id returns the original outcome instead of
// applying the stamp twice.
type StampRequest struct {
	UserID       uuid.UUID
	PracticeID   uuid.UUID
	Kind         model.StampKind
	Timestamp    time.Time
	LocationType model.LocationType
	Note         *string
	IsManual     bool

	ClientStampID *uuid.UUID

	DeviceFingerprint *string
	IPAddress         *string
	Latitude          *float64
	Longitude         *float64
}

// StampResult is the post-stamp view handed back to the client.
type StampResult struct {
	Stamp model.TimeStamp  `json:"stamp"`
	Block *model.TimeBlock `json:"block,omitempty"`
	State string           `json:"state"`

	Replayed        bool `json:"replayed,omitempty"`
	BreakAutoClosed bool `json:"breakAutoClosed,omitempty"`
	NetClamped      bool `json:"netClamped,omitempty"`
}

func validateStamp(req *StampRequest) error {
	if req.UserID == uuid.Nil {
		return &ValidationError{Field: "userId", Message: "is required"}
	}
	if req.PracticeID == uuid.Nil {
		return &ValidationError{Field: "practiceId", Message: "is required"}
	}
	if !req.Kind.Valid() {
		return &ValidationError{Field: "kind", Message: "must be one of start, stop, pause_start, pause_end"}
	}
	if !req.LocationType.Valid() {
		return &ValidationError{Field: "locationType", Message: "must be one of office, homeoffice, mobile"}
	}
	if req.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Message: "is required"}
	}
	return nil
}

// RecordStamp validates and applies one stamp. The homeoffice gate is
// consulted before anything is written; all writes happen in a single
// transaction that starts by locking the user's overtime account row,
// which serializes concurrent stamps for the same user.
func RecordStamp(ctx context.Context, db *gorm.DB, gate PolicyGate, target TargetResolver, req StampRequest) (*StampResult, error) {
	if err := validateStamp(&req); err != nil {
		return nil, err
	}

	date := utils.DateOf(req.Timestamp)

	if gate != nil && req.Kind == model.StampStart && req.LocationType == model.LocationHomeoffice {
		decision, err := gate.CheckAllowed(ctx, req.PracticeID, req.UserID, date)
		if err != nil {
			return nil, wrapStorage("homeoffice policy check", err)
		}
		if !decision.Allowed {
			return nil, &PolicyDeniedError{Reason: decision.Reason}
		}
	}

	var result *StampResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.ClientStampID != nil {
			replayed, err := findReplayedStamp(tx, req.UserID, *req.ClientStampID)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}

		if _, err := lockAccount(tx, req.UserID, req.PracticeID); err != nil {
			return err
		}

		block, openBreak, err := loadActiveBlock(tx, req.UserID)
		if err != nil {
			return err
		}

		transition, err := NextTransition(CurrentState(block, openBreak), req.Kind)
		if err != nil {
			return err
		}

		stamp := model.TimeStamp{
			UserID:            req.UserID,
			PracticeID:        req.PracticeID,
			Kind:              req.Kind,
			Timestamp:         req.Timestamp,
			Date:              date,
			LocationType:      req.LocationType,
			Note:              req.Note,
			IsManual:          req.IsManual,
			DeviceFingerprint: req.DeviceFingerprint,
			IPAddress:         req.IPAddress,
			Latitude:          req.Latitude,
			Longitude:         req.Longitude,
		}
		if req.ClientStampID != nil {
			stamp.ID = *req.ClientStampID
		}
		if err := tx.Create(&stamp).Error; err != nil {
			return err
		}

		block, clamped, err := applyTransition(tx, transition, block, openBreak, target, &req, date)
		if err != nil {
			return err
		}

		if transition.BreakAutoClosed {
			log.Printf("time: stop during break, auto-closed break for user %s at %s", req.UserID, req.Timestamp.Format(time.RFC3339))
		}
		if clamped {
			log.Printf("time: net minutes clamped to 0 for user %s on %s", req.UserID, date)
		}

		state := StateIdle
		if block != nil && block.Status == model.BlockActive {
			state = StateWorking
			if transition.OpenBreak {
				state = StateOnBreak
			}
		}

		result = &StampResult{
			Stamp:           stamp,
			Block:           block,
			State:           state.String(),
			BreakAutoClosed: transition.BreakAutoClosed,
			NetClamped:      clamped,
		}
		return nil
	})
	if err != nil {
		// Two concurrent submissions of the same client id can both pass
		// the replay check; the loser hits the stamp primary key. Answer
		// it with the winner's outcome instead of failing.
		if isReplayRace(req.ClientStampID, err) {
			var replayed *StampResult
			lookupErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				var lookupErr error
				replayed, lookupErr = findReplayedStamp(tx, req.UserID, *req.ClientStampID)
				return lookupErr
			})
			if lookupErr == nil && replayed != nil {
				return replayed, nil
			}
		}
		return nil, wrapStorage("record stamp", err)
	}
	return result, nil
}

// isReplayRace reports whether err is a duplicate-key violation on a
// client-supplied stamp id, i.e. a concurrent replay rather than real
// storage trouble.
func isReplayRace(clientStampID *uuid.UUID, err error) bool {
	return clientStampID != nil && errors.Is(err, gorm.ErrDuplicatedKey)
}

// findReplayedStamp answers a retry: if the client id was already
// recorded, rebuild the current view for that user without writing.
func findReplayedStamp(tx *gorm.DB, userID, clientStampID uuid.UUID) (*StampResult, error) {
	var existing model.TimeStamp
	err := tx.Where("id = ? AND user_id = ?", clientStampID, userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	block, openBreak, err := loadActiveBlock(tx, userID)
	if err != nil {
		return nil, err
	}
	return &StampResult{
		Stamp:    existing,
		Block:    block,
		State:    CurrentState(block, openBreak).String(),
		Replayed: true,
	}, nil
}

// loadActiveBlock fetches the user's active block, if any, together
// with its open break.
func loadActiveBlock(tx *gorm.DB, userID uuid.UUID) (*model.TimeBlock, *model.TimeBreak, error) {
	var block model.TimeBlock
	err := tx.Where("user_id = ? AND status = ?", userID, model.BlockActive).First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var openBreak model.TimeBreak
	err = tx.Where("time_block_id = ? AND end_time IS NULL", block.ID).First(&openBreak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &block, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &block, &openBreak, nil
}

func applyTransition(tx *gorm.DB, tr Transition, block *model.TimeBlock, openBreak *model.TimeBreak, target TargetResolver, req *StampRequest, date string) (*model.TimeBlock, bool, error) {
	if tr.OpenBlock {
		opened := model.TimeBlock{
			UserID:       req.UserID,
			PracticeID:   req.PracticeID,
			Date:         date,
			StartTime:    req.Timestamp,
			LocationType: req.LocationType,
			Status:       model.BlockActive,
			Note:         req.Note,
		}
		if err := tx.Create(&opened).Error; err != nil {
			return nil, false, err
		}
		return &opened, false, nil
	}

	if tr.OpenBreak {
		created := model.TimeBreak{
			TimeBlockID: block.ID,
			StartTime:   req.Timestamp,
		}
		if err := tx.Create(&created).Error; err != nil {
			return nil, false, err
		}
		return block, false, nil
	}

	if tr.CloseBreak {
		duration := BreakDuration(openBreak.StartTime, req.Timestamp)
		updates := map[string]any{
			"end_time":         req.Timestamp,
			"duration_minutes": duration,
		}
		if err := tx.Model(&model.TimeBreak{}).Where("id = ?", openBreak.ID).Updates(updates).Error; err != nil {
			return nil, false, err
		}
		block.BreakMinutes += duration
	}

	clamped := false
	if tr.CloseBlock {
		if req.Timestamp.Before(block.StartTime) {
			return nil, false, &ValidationError{Field: "timestamp", Message: "stop must not precede the block start"}
		}
		net, c := NetMinutes(block.StartTime, req.Timestamp, block.BreakMinutes)
		clamped = c
		block.EndTime = &req.Timestamp
		block.Status = model.BlockCompleted
		block.NetMinutes = net
		block.OvertimeMinutes = OvertimeDelta(net, target(block.Date))
		if _, err := ApplyBalanceDelta(tx, req.UserID, req.PracticeID, block.OvertimeMinutes); err != nil {
			return nil, false, err
		}
	}

	if err := tx.Save(block).Error; err != nil {
		return nil, false, err
	}
	return block, clamped, nil
}

// Status returns the live machine state plus today's block for a user,
// without writing anything.
func Status(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*StampResult, error) {
	var result *StampResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		block, openBreak, err := loadActiveBlock(tx, userID)
		if err != nil {
			return err
		}
		result = &StampResult{
			Block: block,
			State: CurrentState(block, openBreak).String(),
		}
		return nil
	})
	if err != nil {
		return nil, wrapStorage("load status", err)
	}
	return result, nil
}

// BlocksInRange lists a user's blocks between two dates inclusive,
// cancelled ones included so the client can grey them out.
func BlocksInRange(ctx context.Context, db *gorm.DB, userID uuid.UUID, from, to string) ([]model.TimeBlock, error) {
	var blocks []model.TimeBlock
	err := db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date, start_time").
		Find(&blocks).Error
	if err != nil {
		return nil, wrapStorage("list blocks", err)
	}
	return blocks, nil
}
