package core

import (
	"fmt"
	"time"

	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

// MachineState is the stamping state per user: Idle (no active block),
// Working (active block, no open break), OnBreak (active block with an
// open break).
type MachineState int

const (
	StateIdle MachineState = iota
	StateWorking
	StateOnBreak
)

func (s MachineState) String() string {
	switch s {
	case StateWorking:
		return "working"
	case StateOnBreak:
		return "break"
	}
	return "idle"
}

// CurrentState derives the machine state from the loaded rows.
func CurrentState(block *model.TimeBlock, openBreak *model.TimeBreak) MachineState {
	if block == nil || block.Status != model.BlockActive {
		return StateIdle
	}
	if openBreak != nil {
		return StateOnBreak
	}
	return StateWorking
}

// Transition is the set of mutations a stamp causes. Exactly the flags
// set here are applied, in one transaction.
type Transition struct {
	OpenBlock  bool
	CloseBlock bool
	OpenBreak  bool
	CloseBreak bool
	// BreakAutoClosed marks the stop-while-on-break case: the open break
	// is closed at the stop timestamp before the block closes.
	BreakAutoClosed bool
}

// NextTransition is the block state machine. Invalid pairs come back as
// ConflictError so a duplicate or out-of-order stamp is rejected instead
// of double-applied.
func NextTransition(state MachineState, kind model.StampKind) (Transition, error) {
	switch kind {
	case model.StampStart:
		if state != StateIdle {
			return Transition{}, &ConflictError{Message: "an active time block already exists"}
		}
		return Transition{OpenBlock: true}, nil

	case model.StampPauseStart:
		switch state {
		case StateIdle:
			return Transition{}, &ConflictError{Message: "no active time block to pause"}
		case StateOnBreak:
			return Transition{}, &ConflictError{Message: "a break is already open"}
		}
		return Transition{OpenBreak: true}, nil

	case model.StampPauseEnd:
		switch state {
		case StateIdle:
			return Transition{}, &ConflictError{Message: "no active time block"}
		case StateWorking:
			return Transition{}, &ConflictError{Message: "no open break to end"}
		}
		return Transition{CloseBreak: true}, nil

	case model.StampStop:
		switch state {
		case StateIdle:
			return Transition{}, &ConflictError{Message: "no active time block to stop"}
		case StateOnBreak:
			// Policy: stop during a break closes the break at the stop
			// timestamp rather than rejecting the stamp.
			return Transition{CloseBreak: true, CloseBlock: true, BreakAutoClosed: true}, nil
		}
		return Transition{CloseBlock: true}, nil
	}

	return Transition{}, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown stamp kind %q", kind)}
}

// BreakDuration returns whole break minutes, never negative.
func BreakDuration(start, end time.Time) int {
	d := utils.MinutesBetween(start, end)
	if d < 0 {
		return 0
	}
	return d
}

// NetMinutes computes worked minutes for a block: gross minus breaks,
// clamped at zero. The second return reports the clamp as an anomaly.
func NetMinutes(start, end time.Time, breakMinutes int) (int, bool) {
	gross := utils.MinutesBetween(start, end)
	if gross < 0 {
		gross = 0
	}
	net := gross - breakMinutes
	if net < 0 {
		return 0, true
	}
	return net, false
}
