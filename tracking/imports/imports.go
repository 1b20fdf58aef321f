package imports

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"praxido.de/praxido/tracking/core"
	"praxido.de/praxido/tracking/model"
	"praxido.de/praxido/utils"
)

// ParsedStamp is one row of an import file, not yet applied. Line is
// the 1-based file line it came from, kept so rejections can point at
// the right row even after sorting.
type ParsedStamp struct {
	Line         int
	Timestamp    time.Time
	Kind         model.StampKind
	LocationType model.LocationType
	Note         *string
}

// RowError ties a rejected row to its 1-based line number.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseStampCSV reads rows of "timestamp,kind,location[,note]". A
// header line is skipped when present. Bad rows are collected, not
// fatal: migrations routinely carry a few broken lines.
func ParseStampCSV(r io.Reader) ([]ParsedStamp, []RowError, error) {
	records, err := utils.ParseCSV(r)
	if err != nil {
		return nil, nil, &core.ValidationError{Field: "file", Message: "not parseable as CSV"}
	}

	stamps := []ParsedStamp{}
	rowErrors := []RowError{}

	for i, record := range records {
		line := i + 1
		if i == 0 && len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if len(record) < 3 {
			rowErrors = append(rowErrors, RowError{Line: line, Message: "expected timestamp, kind, location"})
			continue
		}

		ts, err := utils.ParseISOTime(strings.TrimSpace(record[0]))
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: line, Message: fmt.Sprintf("bad timestamp %q", record[0])})
			continue
		}

		kind := model.StampKind(strings.TrimSpace(record[1]))
		if !kind.Valid() {
			rowErrors = append(rowErrors, RowError{Line: line, Message: fmt.Sprintf("unknown kind %q", record[1])})
			continue
		}

		location := model.LocationType(strings.TrimSpace(record[2]))
		if !location.Valid() {
			rowErrors = append(rowErrors, RowError{Line: line, Message: fmt.Sprintf("unknown location %q", record[2])})
			continue
		}

		stamp := ParsedStamp{Line: line, Timestamp: *ts, Kind: kind, LocationType: location}
		if len(record) > 3 {
			if note := strings.TrimSpace(record[3]); note != "" {
				stamp.Note = &note
			}
		}
		stamps = append(stamps, stamp)
	}

	return stamps, rowErrors, nil
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Applied   int        `json:"applied"`
	ParseErrs []RowError `json:"parseErrors,omitempty"`
	Rejected  []RowError `json:"rejected,omitempty"`
}

// ImportStamps replays parsed stamps through the regular stamping path
// in timestamp order, marked as manual. The homeoffice gate is not
// consulted: imported data is historical fact, not a new request.
// Conflicting rows are reported and skipped; storage failures abort.
func ImportStamps(ctx context.Context, db *gorm.DB, target core.TargetResolver, userID, practiceID uuid.UUID, stamps []ParsedStamp) (*ImportResult, error) {
	ordered := sortedByTimestamp(stamps)

	result := &ImportResult{}
	for _, stamp := range ordered {
		_, err := core.RecordStamp(ctx, db, nil, target, core.StampRequest{
			UserID:       userID,
			PracticeID:   practiceID,
			Kind:         stamp.Kind,
			Timestamp:    stamp.Timestamp,
			LocationType: stamp.LocationType,
			Note:         stamp.Note,
			IsManual:     true,
		})
		if err != nil {
			if core.IsConflict(err) || core.IsValidation(err) {
				result.Rejected = append(result.Rejected, RowError{Line: stamp.Line, Message: err.Error()})
				continue
			}
			return nil, err
		}
		result.Applied++
	}
	return result, nil
}

func sortedByTimestamp(stamps []ParsedStamp) []ParsedStamp {
	ordered := make([]ParsedStamp, len(stamps))
	copy(ordered, stamps)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})
	return ordered
}
