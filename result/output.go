package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes the scan results as a formatted JSON array to the writer.
func WriteJSON(w io.Writer, results []*ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// csvHeader mirrors the spreadsheet's "PDF Report" columns, prefixed by the site.
var csvHeader = []string{"site", "source_page", "pdf_url", "pages", "bytes", "has_tags", "has_alt", "status"}

// WriteCSV writes one row per PDF record across all results.
// Always includes a header row, even if no PDFs were found.
func WriteCSV(w io.Writer, results []*ScanResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, res := range results {
		for _, rec := range res.PDFs {
			record := []string{
				res.Host,
				rec.SourcePage,
				rec.URL,
				strconv.Itoa(rec.Pages),
				strconv.FormatInt(rec.Bytes, 10),
				strconv.FormatBool(rec.HasTags),
				strconv.FormatBool(rec.HasAlt),
				string(rec.Status),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv record for %s: %w", rec.URL, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
