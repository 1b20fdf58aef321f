package utils

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csvData := `userId,kind,timestamp
a3f1,start,2025-03-03T08:00:00Z
a3f1,stop,2025-03-03T16:30:00Z`

	reader := strings.NewReader(csvData)

	got, err := ParseCSV(reader)
	if err != nil {
		t.Fatalf("ParseCSV returned error: %v", err)
	}

	want := [][]string{
		{"userId", "kind", "timestamp"},
		{"a3f1", "start", "2025-03-03T08:00:00Z"},
		{"a3f1", "stop", "2025-03-03T16:30:00Z"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV returned %+v, want %+v", got, want)
	}
}
