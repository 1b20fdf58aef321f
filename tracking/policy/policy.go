package policy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
)

// Reasons are user-facing and rendered verbatim in the client.
var germanWeekdays = map[time.Weekday]string{
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
	time.Sunday:    "Sonntag",
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// EvaluatePolicy decides one homeoffice request against a policy row.
// A nil policy means the practice never configured one, which allows.
// usedDaysThisWeek counts distinct homeoffice days already taken in the
// same week, the requested day excluded.
func EvaluatePolicy(p *model.HomeofficePolicy, weekday time.Weekday, usedDaysThisWeek int) core.PolicyDecision {
	if p == nil {
		return core.PolicyDecision{Allowed: true}
	}
	if !p.IsAllowed {
		return core.PolicyDecision{
			Reason: "Homeoffice ist für Sie nicht freigegeben.",
		}
	}

	if days := parseAllowedDays(p.AllowedDays); len(days) > 0 && !days[weekday] {
		return core.PolicyDecision{
			MaxDaysPerWeek: p.MaxDaysPerWeek,
			Reason:         fmt.Sprintf("Homeoffice ist am %s nicht vorgesehen.", germanWeekdays[weekday]),
		}
	}

	if p.MaxDaysPerWeek > 0 && usedDaysThisWeek >= p.MaxDaysPerWeek {
		return core.PolicyDecision{
			MaxDaysPerWeek: p.MaxDaysPerWeek,
			Reason:         fmt.Sprintf("Das wöchentliche Homeoffice-Kontingent (%d Tage) ist ausgeschöpft.", p.MaxDaysPerWeek),
		}
	}

	return core.PolicyDecision{Allowed: true, MaxDaysPerWeek: p.MaxDaysPerWeek}
}

// parseAllowedDays tolerates broken JSON by treating it as "no
// restriction"; a policy row should never block stamping outright
// because of a malformed column.
func parseAllowedDays(raw string) map[time.Weekday]bool {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" || raw == "null" {
		return nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil
	}

	days := map[time.Weekday]bool{}
	for _, name := range names {
		if wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]; ok {
			days[wd] = true
		}
	}
	if len(days) == 0 {
		return nil
	}
	return days
}

// WeekBounds returns the Monday and Sunday date strings of the ISO week
// containing t.
func WeekBounds(t time.Time) (string, string) {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("2006-01-02"), sunday.Format("2006-01-02")
}
