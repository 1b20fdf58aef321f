package core

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxido.de/praxido/tracking/model"
)

func TestNextTransition(t *testing.T) {
	tests := []struct {
		name     string
		state    MachineState
		kind     model.StampKind
		expected Transition
		conflict bool
	}{
		{
			name:     "start from idle opens a block",
			state:    StateIdle,
			kind:     model.StampStart,
			expected: Transition{OpenBlock: true},
		},
		{
			name:     "start while working conflicts",
			state:    StateWorking,
			kind:     model.StampStart,
			conflict: true,
		},
		{
			name:     "start while on break conflicts",
			state:    StateOnBreak,
			kind:     model.StampStart,
			conflict: true,
		},
		{
			name:     "pause_start while working opens a break",
			state:    StateWorking,
			kind:     model.StampPauseStart,
			expected: Transition{OpenBreak: true},
		},
		{
			name:     "pause_start while idle conflicts",
			state:    StateIdle,
			kind:     model.StampPauseStart,
			conflict: true,
		},
		{
			name:     "pause_start while on break conflicts",
			state:    StateOnBreak,
			kind:     model.StampPauseStart,
			conflict: true,
		},
		{
			name:     "pause_end on break closes the break",
			state:    StateOnBreak,
			kind:     model.StampPauseEnd,
			expected: Transition{CloseBreak: true},
		},
		{
			name:     "pause_end while working conflicts",
			state:    StateWorking,
			kind:     model.StampPauseEnd,
			conflict: true,
		},
		{
			name:     "stop while working closes the block",
			state:    StateWorking,
			kind:     model.StampStop,
			expected: Transition{CloseBlock: true},
		},
		{
			name:     "stop on break auto-closes the break first",
			state:    StateOnBreak,
			kind:     model.StampStop,
			expected: Transition{CloseBreak: true, CloseBlock: true, BreakAutoClosed: true},
		},
		{
			name:     "stop while idle conflicts",
			state:    StateIdle,
			kind:     model.StampStop,
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NextTransition(tt.state, tt.kind)
			if tt.conflict {
				require.Error(t, err)
				assert.True(t, IsConflict(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tr)
		})
	}
}

func TestNextTransitionUnknownKind(t *testing.T) {
	_, err := NextTransition(StateIdle, model.StampKind("lunch"))
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// Replaying any stamp sequence through the state machine must never
// leave more than one block open, whatever order the kinds arrive in.
func TestStateMachineSingleActiveBlock(t *testing.T) {
	kinds := []model.StampKind{model.StampStart, model.StampStop, model.StampPauseStart, model.StampPauseEnd}
	rng := rand.New(rand.NewSource(1))

	for run := 0; run < 50; run++ {
		state := StateIdle
		openBlocks := 0
		for step := 0; step < 200; step++ {
			kind := kinds[rng.Intn(len(kinds))]
			tr, err := NextTransition(state, kind)
			if err != nil {
				assert.True(t, IsConflict(err))
				continue
			}
			if tr.OpenBlock {
				openBlocks++
				state = StateWorking
			}
			if tr.OpenBreak {
				state = StateOnBreak
			}
			if tr.CloseBreak && !tr.CloseBlock {
				state = StateWorking
			}
			if tr.CloseBlock {
				openBlocks--
				state = StateIdle
			}
			require.LessOrEqual(t, openBlocks, 1)
			require.GreaterOrEqual(t, openBlocks, 0)
		}
	}
}

func TestNetMinutes(t *testing.T) {
	start := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		end          time.Time
		breakMinutes int
		expectedNet  int
		clamped      bool
	}{
		{
			name:         "plain eight hour day with lunch",
			end:          start.Add(8*time.Hour + 30*time.Minute),
			breakMinutes: 30,
			expectedNet:  480,
		},
		{
			name:         "no break",
			end:          start.Add(4 * time.Hour),
			breakMinutes: 0,
			expectedNet:  240,
		},
		{
			name:         "breaks exceed gross clamps to zero",
			end:          start.Add(20 * time.Minute),
			breakMinutes: 45,
			expectedNet:  0,
			clamped:      true,
		},
		{
			name:         "break equals gross is not an anomaly",
			end:          start.Add(30 * time.Minute),
			breakMinutes: 30,
			expectedNet:  0,
		},
		{
			name:         "seconds truncate towards zero",
			end:          start.Add(59 * time.Second),
			breakMinutes: 0,
			expectedNet:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, clamped := NetMinutes(start, tt.end, tt.breakMinutes)
			assert.Equal(t, tt.expectedNet, net)
			assert.Equal(t, tt.clamped, clamped)
		})
	}
}

// Scenario: 08:00 start, 12:00-12:30 break, 16:30 stop is 510 gross,
// 30 break, 450 net, half an hour under the default target.
func TestFullDayScenario(t *testing.T) {
	day := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	start := day.Add(8 * time.Hour)
	pauseStart := day.Add(12 * time.Hour)
	pauseEnd := day.Add(12*time.Hour + 30*time.Minute)
	stop := day.Add(16*time.Hour + 30*time.Minute)

	breakMinutes := BreakDuration(pauseStart, pauseEnd)
	assert.Equal(t, 30, breakMinutes)

	net, clamped := NetMinutes(start, stop, breakMinutes)
	require.False(t, clamped)
	assert.Equal(t, 450, net)
	assert.Equal(t, -30, OvertimeDelta(net, 480))
}

func TestBreakDurationNeverNegative(t *testing.T) {
	later := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, BreakDuration(later, later.Add(-10*time.Minute)))
}

func TestCurrentState(t *testing.T) {
	active := &model.TimeBlock{Status: model.BlockActive}
	completed := &model.TimeBlock{Status: model.BlockCompleted}
	br := &model.TimeBreak{}

	assert.Equal(t, StateIdle, CurrentState(nil, nil))
	assert.Equal(t, StateIdle, CurrentState(completed, nil))
	assert.Equal(t, StateWorking, CurrentState(active, nil))
	assert.Equal(t, StateOnBreak, CurrentState(active, br))
}
