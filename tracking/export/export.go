package export

import (
	"context"
	"fmt"

	"praxido.de/praxido/tracking/core"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

func (f Format) Valid() bool {
	switch f {
	case FormatCSV, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Archiver stores a copy of every generated export, keyed by file name.
// Wired to S3 in production, nil disables archiving.
type Archiver interface {
	Archive(ctx context.Context, name string, contentType string, data []byte) error
}

// Document is one rendered export ready for download.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Generate renders the report rows and summary in the requested format.
func Generate(format Format, title string, from, to string, rows []core.ReportRow, summary core.MonthlyReport) (*Document, error) {
	if !format.Valid() {
		return nil, &core.ValidationError{Field: "format", Message: "must be csv, xlsx or pdf"}
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = WriteCSV(rows, summary)
	case FormatXLSX:
		data, err = BuildWorkbook(title, rows, summary)
	case FormatPDF:
		data, err = GeneratePDF(title, from, to, rows, summary)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	return &Document{
		Name:        fmt.Sprintf("zeiterfassung_%s_%s.%s", from, to, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// formatHM renders minutes as "H:MM"; negative values keep one sign.
func formatHM(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}
