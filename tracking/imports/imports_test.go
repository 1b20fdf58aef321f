package imports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxido.de/praxido/tracking/model"
)

func TestParseStampCSV(t *testing.T) {
	input := strings.Join([]string{
		"timestamp,kind,location,note",
		"2025-10-13T08:00:00Z,start,office,",
		"2025-10-13T12:00:00Z,pause_start,office,Mittag",
		"2025-10-13T12:30:00Z,pause_end,office",
		"2025-10-13T17:00:00Z,stop,office",
	}, "\n")

	stamps, rowErrors, err := ParseStampCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, stamps, 4)

	assert.Equal(t, model.StampStart, stamps[0].Kind)
	assert.Equal(t, time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC), stamps[0].Timestamp)
	assert.Nil(t, stamps[0].Note)

	require.NotNil(t, stamps[1].Note)
	assert.Equal(t, "Mittag", *stamps[1].Note)
	assert.Equal(t, model.StampPauseEnd, stamps[2].Kind)
}

func TestParseStampCSVCollectsRowErrors(t *testing.T) {
	input := strings.Join([]string{
		"2025-10-13T08:00:00Z,start,office",
		"not-a-time,start,office",
		"2025-10-13T09:00:00Z,teleport,office",
		"2025-10-13T10:00:00Z,stop,moon",
	}, "\n")

	stamps, rowErrors, err := ParseStampCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, stamps, 1)
	require.Len(t, rowErrors, 3)

	assert.Equal(t, 2, rowErrors[0].Line)
	assert.Contains(t, rowErrors[0].Message, "timestamp")
	assert.Contains(t, rowErrors[1].Message, "teleport")
	assert.Contains(t, rowErrors[2].Message, "moon")
}

// Rejections must point at file lines, so the parsed line number has
// to survive both bad-row filtering and the timestamp sort.
func TestParsedLinesSurviveSorting(t *testing.T) {
	input := strings.Join([]string{
		"timestamp,kind,location",
		"2025-10-13T17:00:00Z,stop,office",
		"broken,start,office",
		"2025-10-13T08:00:00Z,start,office",
	}, "\n")

	stamps, rowErrors, err := ParseStampCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 3, rowErrors[0].Line)

	require.Len(t, stamps, 2)
	assert.Equal(t, 2, stamps[0].Line)
	assert.Equal(t, 4, stamps[1].Line)

	ordered := sortedByTimestamp(stamps)
	assert.Equal(t, model.StampStart, ordered[0].Kind)
	assert.Equal(t, 4, ordered[0].Line)
	assert.Equal(t, model.StampStop, ordered[1].Kind)
	assert.Equal(t, 2, ordered[1].Line)
}

func TestParseStampCSVWithoutHeader(t *testing.T) {
	stamps, rowErrors, err := ParseStampCSV(strings.NewReader("2025-10-13T08:00:00Z,start,homeoffice\n"))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, stamps, 1)
	assert.Equal(t, model.LocationHomeoffice, stamps[0].LocationType)
}
