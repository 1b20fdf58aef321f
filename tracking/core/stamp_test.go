package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// A duplicate-key failure on a client-supplied stamp id means a
// concurrent submission won the race; anything else stays an error.
func TestIsReplayRace(t *testing.T) {
	clientID := uuid.New()

	assert.True(t, isReplayRace(&clientID, gorm.ErrDuplicatedKey))
	assert.True(t, isReplayRace(&clientID, fmt.Errorf("create stamp: %w", gorm.ErrDuplicatedKey)))

	// Without a client id a duplicate key is a genuine storage fault.
	assert.False(t, isReplayRace(nil, gorm.ErrDuplicatedKey))
	assert.False(t, isReplayRace(&clientID, gorm.ErrRecordNotFound))
	assert.False(t, isReplayRace(&clientID, fmt.Errorf("connection reset")))
}

func TestValidateStamp(t *testing.T) {
	valid := func() StampRequest {
		return StampRequest{
			UserID:       uuid.New(),
			PracticeID:   uuid.New(),
			Kind:         "start",
			Timestamp:    time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC),
			LocationType: "office",
		}
	}

	req := valid()
	assert.NoError(t, validateStamp(&req))

	req = valid()
	req.UserID = uuid.Nil
	assert.True(t, IsValidation(validateStamp(&req)))

	req = valid()
	req.Kind = "lunch"
	assert.True(t, IsValidation(validateStamp(&req)))

	req = valid()
	req.LocationType = "moon"
	assert.True(t, IsValidation(validateStamp(&req)))

	req = valid()
	req.Timestamp = time.Time{}
	assert.True(t, IsValidation(validateStamp(&req)))
}
