package core

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

// TeamMemberStatus is one colleague's live entry: working, on break or
// absent, with today's minutes so far.
type TeamMemberStatus struct {
	UserID       uuid.UUID           `json:"userId"`
	Status       string              `json:"status"`
	Location     *model.LocationType `json:"location,omitempty"`
	TodayMinutes int                 `json:"todayMinutes"`
}

// TeamLiveView aggregates the practice's blocks for one date. Only
// users who stamped that day appear; the client fills in the rest of
// the roster as absent.
func TeamLiveView(ctx context.Context, db *gorm.DB, practiceID uuid.UUID, date string, now time.Time) ([]TeamMemberStatus, error) {
	var blocks []model.TimeBlock
	err := db.WithContext(ctx).
		Where("practice_id = ? AND date = ? AND status <> ?", practiceID, date, model.BlockCancelled).
		Order("start_time").
		Find(&blocks).Error
	if err != nil {
		return nil, wrapStorage("load team blocks", err)
	}

	activeIDs := []uuid.UUID{}
	for _, b := range blocks {
		if b.Status == model.BlockActive {
			activeIDs = append(activeIDs, b.ID)
		}
	}

	onBreak := map[uuid.UUID]bool{}
	if len(activeIDs) > 0 {
		var openBreaks []model.TimeBreak
		err := db.WithContext(ctx).
			Where("time_block_id IN ? AND end_time IS NULL", activeIDs).
			Find(&openBreaks).Error
		if err != nil {
			return nil, wrapStorage("load team breaks", err)
		}
		for _, br := range openBreaks {
			onBreak[br.TimeBlockID] = true
		}
	}

	byUser := utils.GroupBy(blocks, func(b model.TimeBlock) uuid.UUID { return b.UserID })

	members := make([]TeamMemberStatus, 0, len(byUser))
	for userID, userBlocks := range byUser {
		member := TeamMemberStatus{UserID: userID, Status: "absent"}
		for i := range userBlocks {
			b := userBlocks[i]
			member.TodayMinutes += blockNet(b, &now)
			if b.Status == model.BlockActive {
				member.Location = &userBlocks[i].LocationType
				if onBreak[b.ID] {
					member.Status = StateOnBreak.String()
				} else {
					member.Status = StateWorking.String()
				}
			}
		}
		members = append(members, member)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].UserID.String() < members[j].UserID.String()
	})
	return members, nil
}
