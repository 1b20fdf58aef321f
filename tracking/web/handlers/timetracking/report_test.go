package timetracking

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestContext(t *testing.T, url string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

// Open blocks count zero minutes unless the caller opts in; the report
// must not silently include in-progress time.
func TestReportAsOf(t *testing.T) {
	now := time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		url     string
		expectd bool
	}{
		{name: "no flag defaults to nil", url: "/time/report?month=2025-10"},
		{name: "explicit false", url: "/time/report?asOfNow=false"},
		{name: "zero", url: "/time/report?asOfNow=0"},
		{name: "garbage value", url: "/time/report?asOfNow=banana"},
		{name: "true opts in", url: "/time/report?asOfNow=true", expectd: true},
		{name: "one opts in", url: "/time/report?asOfNow=1", expectd: true},
		{name: "case insensitive", url: "/time/report?asOfNow=TRUE", expectd: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reportAsOf(requestContext(t, tt.url), now)
			if !tt.expectd {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, now, *got)
		})
	}
}

func TestDateRange(t *testing.T) {
	from, to, err := dateRange(requestContext(t, "/time/report?month=2025-10"))
	require.NoError(t, err)
	assert.Equal(t, "2025-10-01", from)
	assert.Equal(t, "2025-10-31", to)

	from, to, err = dateRange(requestContext(t, "/time/report?from=2025-10-06&to=2025-10-12"))
	require.NoError(t, err)
	assert.Equal(t, "2025-10-06", from)
	assert.Equal(t, "2025-10-12", to)

	_, _, err = dateRange(requestContext(t, "/time/report?from=2025-10-12&to=2025-10-06"))
	require.Error(t, err)

	_, _, err = dateRange(requestContext(t, "/time/report?from=12.10.2025&to=2025-10-13"))
	require.Error(t, err)

	_, _, err = dateRange(requestContext(t, "/time/report?month=October"))
	require.Error(t, err)
}
