package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"praxido.de/praxido/tracking/model"
)

func TestEvaluatePolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   *model.HomeofficePolicy
		weekday  time.Weekday
		used     int
		allowed  bool
		contains string
	}{
		{
			name:    "no policy configured allows",
			policy:  nil,
			weekday: time.Monday,
			allowed: true,
		},
		{
			name:     "homeoffice disabled",
			policy:   &model.HomeofficePolicy{IsAllowed: false},
			weekday:  time.Monday,
			contains: "nicht freigegeben",
		},
		{
			name: "weekday not in allowed list",
			policy: &model.HomeofficePolicy{
				IsAllowed:   true,
				AllowedDays: `["monday","wednesday"]`,
			},
			weekday:  time.Friday,
			contains: "Freitag",
		},
		{
			name: "weekday in allowed list",
			policy: &model.HomeofficePolicy{
				IsAllowed:   true,
				AllowedDays: `["monday","wednesday"]`,
			},
			weekday: time.Wednesday,
			allowed: true,
		},
		{
			name: "empty allowed list means every day",
			policy: &model.HomeofficePolicy{
				IsAllowed:   true,
				AllowedDays: `[]`,
			},
			weekday: time.Sunday,
			allowed: true,
		},
		{
			name: "weekly quota exhausted",
			policy: &model.HomeofficePolicy{
				IsAllowed:      true,
				MaxDaysPerWeek: 2,
			},
			weekday:  time.Thursday,
			used:     2,
			contains: "Kontingent",
		},
		{
			name: "weekly quota still open",
			policy: &model.HomeofficePolicy{
				IsAllowed:      true,
				MaxDaysPerWeek: 2,
			},
			weekday: time.Thursday,
			used:    1,
			allowed: true,
		},
		{
			name: "zero quota means unlimited",
			policy: &model.HomeofficePolicy{
				IsAllowed:      true,
				MaxDaysPerWeek: 0,
			},
			weekday: time.Monday,
			used:    4,
			allowed: true,
		},
		{
			name: "malformed allowed days column does not block",
			policy: &model.HomeofficePolicy{
				IsAllowed:   true,
				AllowedDays: `{broken`,
			},
			weekday: time.Tuesday,
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := EvaluatePolicy(tt.policy, tt.weekday, tt.used)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if tt.contains != "" {
				assert.Contains(t, decision.Reason, tt.contains)
			}
		})
	}
}

func TestWeekBounds(t *testing.T) {
	// 2025-10-15 is a Wednesday.
	monday, sunday := WeekBounds(time.Date(2025, 10, 15, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-10-13", monday)
	assert.Equal(t, "2025-10-19", sunday)

	// Sunday belongs to the week that started the previous Monday.
	monday, sunday = WeekBounds(time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-10-13", monday)
	assert.Equal(t, "2025-10-19", sunday)

	monday, _ = WeekBounds(time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-10-13", monday)
}
