package core

import (
	"context"

	"github.com/google/uuid"
)

// PolicyDecision is what the homeoffice gate answers. Reason is
// user-facing and passed through verbatim.
type PolicyDecision struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	MaxDaysPerWeek int    `json:"maxDaysPerWeek,omitempty"`
}

// PolicyGate decides homeoffice eligibility per user and date. It is
// read-only from this core's point of view: a failing check must leave
// no trace in the ledger.
type PolicyGate interface {
	CheckAllowed(ctx context.Context, practiceID, userID uuid.UUID, date string) (PolicyDecision, error)
}

// TargetResolver yields the target work minutes for a calendar date
// ("2006-01-02"). The default resolver returns a flat 480.
type TargetResolver func(date string) int
