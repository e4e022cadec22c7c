// Package export serializes search result rows to tabular formats. All
// formats share the canonical column list from pkg/tweet, so an export
// with zero rows still carries the full header.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/xuri/excelize/v2"

	"github.com/spotterhq/spotter/pkg/tweet"
)

// Format selects an export serialization.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatCSVGzip Format = "csvgz"
	FormatTSV     Format = "tsv"
	FormatXLSX    Format = "xlsx"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatCSVGzip, FormatTSV, FormatXLSX:
		return Format(s), nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type to serve the format with.
func (f Format) ContentType() string {
	switch f {
	case FormatCSVGzip:
		return "application/gzip"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Filename returns base with the format's file extension.
func (f Format) Filename(base string) string {
	switch f {
	case FormatCSVGzip:
		return base + ".csv.gz"
	case FormatTSV:
		return base + ".tsv"
	case FormatXLSX:
		return base + ".xlsx"
	default:
		return base + ".csv"
	}
}

// Write serializes rows to w in the given format.
func Write(w io.Writer, f Format, rows []tweet.Row) error {
	switch f {
	case FormatCSVGzip:
		return WriteCSVGzip(w, rows)
	case FormatTSV:
		return writeDelimited(w, rows, '\t')
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return WriteCSV(w, rows)
	}
}

// WriteCSV writes rows as comma-separated values, header first.
func WriteCSV(w io.Writer, rows []tweet.Row) error {
	return writeDelimited(w, rows, ',')
}

// WriteCSVGzip writes the CSV serialization through a gzip stream.
func WriteCSVGzip(w io.Writer, rows []tweet.Row) error {
	gz := gzip.NewWriter(w)
	if err := WriteCSV(gz, rows); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("closing gzip stream: %w", err)
	}
	return nil
}

func writeDelimited(w io.Writer, rows []tweet.Row, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(tweet.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.Strings()); err != nil {
			return fmt.Errorf("writing row %s: %w", row.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// WriteXLSX writes rows as a single-sheet spreadsheet. Engagement counters
// are written as numbers so spreadsheet tooling can aggregate them.
func WriteXLSX(w io.Writer, rows []tweet.Row) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(tweet.Columns))
	for i, col := range tweet.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell name: %w", err)
		}
		values := []interface{}{
			row.ID,
			row.URL,
			row.Text,
			row.CreatedAt,
			row.AuthorHandle,
			row.AuthorName,
			row.AuthorID,
			row.AuthorAvatar,
			row.LikeCount,
			row.RetweetCount,
			row.ReplyCount,
			row.QuoteCount,
			row.ViewCount,
			row.Lang,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %s: %w", row.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
