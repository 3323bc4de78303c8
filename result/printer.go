package result

import (
	"fmt"
	"io"
)

// PrintResults writes a plain-text summary of one site's scan to w.
func PrintResults(w io.Writer, res *ScanResult) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("=== %s ===\n", res.SeedURL)
	if len(res.PDFs) == 0 {
		writef("No PDFs found.\n")
	} else {
		for _, rec := range res.PDFs {
			writef("  [%s] %s\n", rec.Status, rec.URL)
			writef("    pages=%d bytes=%d tags=%t alt=%t\n", rec.Pages, rec.Bytes, rec.HasTags, rec.HasAlt)
			writef("    found on: %s\n", rec.SourcePage)
		}
	}
	writef("Crawled %d pages (%d errors), found %d PDFs (%d pages): %d inaccessible, %d likely inaccessible, %d accessible\n",
		res.PagesCrawled, res.ErrorPages, res.PDFCount, res.TotalPDFPages,
		res.CountInaccessible, res.CountLikely, res.CountAccessible)
	if res.Outcome == OutcomeBoundReached {
		writef("Stopped at the page limit; some pages were not crawled.\n")
	}
}
