package core

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"praxido.de/praxido/tracking/model"
)

// ModifyTimeChanges is the requested_changes payload for modify_time.
// Old values are snapshotted at submission for the audit trail.
type ModifyTimeChanges struct {
	OldStart time.Time  `json:"old_start"`
	OldEnd   *time.Time `json:"old_end"`
	NewStart time.Time  `json:"new_start"`
	NewEnd   time.Time  `json:"new_end"`
}

// CancelBlockChanges is the requested_changes payload for cancel_block.
type CancelBlockChanges struct {
	OldStart time.Time  `json:"old_start"`
	OldEnd   *time.Time `json:"old_end"`
}

type SubmitCorrectionInput struct {
	UserID      uuid.UUID
	PracticeID  uuid.UUID
	TimeBlockID uuid.UUID

	CorrectionType model.CorrectionType
	NewStart       *time.Time
	NewEnd         *time.Time
	Reason         string
}

// SubmitCorrection files a pending correction against one of the
// requester's own completed blocks. Nothing on the block changes until
// a reviewer approves.
func SubmitCorrection(ctx context.Context, db *gorm.DB, in SubmitCorrectionInput) (*model.TimeCorrectionRequest, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, &ValidationError{Field: "reason", Message: "is required"}
	}
	switch in.CorrectionType {
	case model.CorrectionModifyTime:
		if in.NewStart == nil || in.NewEnd == nil {
			return nil, &ValidationError{Field: "newStart/newEnd", Message: "are required for modify_time"}
		}
		if !in.NewEnd.After(*in.NewStart) {
			return nil, &ValidationError{Field: "newEnd", Message: "must be after newStart"}
		}
	case model.CorrectionCancelBlock:
	default:
		return nil, &ValidationError{Field: "correctionType", Message: "must be modify_time or cancel_block"}
	}

	var request *model.TimeCorrectionRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var block model.TimeBlock
		err := tx.Where("id = ? AND user_id = ? AND practice_id = ?", in.TimeBlockID, in.UserID, in.PracticeID).First(&block).Error
		if err != nil {
			return err
		}
		if block.Status != model.BlockCompleted {
			return &ConflictError{Message: "only completed time blocks can be corrected"}
		}

		var payload any
		switch in.CorrectionType {
		case model.CorrectionModifyTime:
			payload = ModifyTimeChanges{
				OldStart: block.StartTime,
				OldEnd:   block.EndTime,
				NewStart: *in.NewStart,
				NewEnd:   *in.NewEnd,
			}
		case model.CorrectionCancelBlock:
			payload = CancelBlockChanges{
				OldStart: block.StartTime,
				OldEnd:   block.EndTime,
			}
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		request = &model.TimeCorrectionRequest{
			UserID:           in.UserID,
			PracticeID:       in.PracticeID,
			TimeBlockID:      block.ID,
			CorrectionType:   in.CorrectionType,
			RequestedChanges: string(raw),
			Reason:           reason,
			Status:           model.CorrectionPending,
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return nil, wrapStorage("submit correction", err)
	}
	return request, nil
}

// ApproveCorrection applies a pending correction and settles the
// overtime balance in the same transaction. The block's stored
// OvertimeMinutes is the previously applied delta; approval books the
// difference between the recomputed delta and that.
func ApproveCorrection(ctx context.Context, db *gorm.DB, requestID, reviewerID uuid.UUID, comment *string, target TargetResolver) (*model.TimeCorrectionRequest, error) {
	var request model.TimeCorrectionRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&request).Error
		if err != nil {
			return err
		}
		if request.Status != model.CorrectionPending {
			return &ConflictError{Message: "correction request is not pending"}
		}

		if _, err := lockAccount(tx, request.UserID, request.PracticeID); err != nil {
			return err
		}

		var block model.TimeBlock
		if err := tx.Where("id = ?", request.TimeBlockID).First(&block).Error; err != nil {
			return err
		}

		previousDelta := block.OvertimeMinutes

		switch request.CorrectionType {
		case model.CorrectionModifyTime:
			if block.Status != model.BlockCompleted {
				return &ConflictError{Message: "time block is no longer completed"}
			}
			var changes ModifyTimeChanges
			if err := json.Unmarshal([]byte(request.RequestedChanges), &changes); err != nil {
				return err
			}
			net, _ := NetMinutes(changes.NewStart, changes.NewEnd, block.BreakMinutes)
			newDelta := OvertimeDelta(net, target(block.Date))

			block.StartTime = changes.NewStart
			block.EndTime = &changes.NewEnd
			block.NetMinutes = net
			block.OvertimeMinutes = newDelta
			if err := tx.Save(&block).Error; err != nil {
				return err
			}
			if _, err := ApplyBalanceDelta(tx, request.UserID, request.PracticeID, newDelta-previousDelta); err != nil {
				return err
			}

		case model.CorrectionCancelBlock:
			if block.Status == model.BlockCancelled {
				return &ConflictError{Message: "time block is already cancelled"}
			}
			block.Status = model.BlockCancelled
			block.NetMinutes = 0
			block.OvertimeMinutes = 0
			if err := tx.Save(&block).Error; err != nil {
				return err
			}
			if _, err := ApplyBalanceDelta(tx, request.UserID, request.PracticeID, -previousDelta); err != nil {
				return err
			}
		}

		now := time.Now()
		request.Status = model.CorrectionApproved
		request.ReviewedBy = &reviewerID
		request.ReviewComment = comment
		request.ReviewedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, wrapStorage("approve correction", err)
	}
	return &request, nil
}

// RejectCorrection closes a pending request without touching the block.
func RejectCorrection(ctx context.Context, db *gorm.DB, requestID, reviewerID uuid.UUID, comment *string) (*model.TimeCorrectionRequest, error) {
	var request model.TimeCorrectionRequest
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", requestID).First(&request).Error
		if err != nil {
			return err
		}
		if request.Status != model.CorrectionPending {
			return &ConflictError{Message: "correction request is not pending"}
		}

		now := time.Now()
		request.Status = model.CorrectionRejected
		request.ReviewedBy = &reviewerID
		request.ReviewComment = comment
		request.ReviewedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, wrapStorage("reject correction", err)
	}
	return &request, nil
}

// ListCorrections returns a user's requests, newest first; pass an
// empty status for all of them.
func ListCorrections(ctx context.Context, db *gorm.DB, userID uuid.UUID, status model.CorrectionStatus) ([]model.TimeCorrectionRequest, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []model.TimeCorrectionRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, wrapStorage("list corrections", err)
	}
	return requests, nil
}
