// Package pdftest builds small, valid PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Options controls the generated document.
type Options struct {
	Pages  int  // number of blank pages, at least 1
	Tagged bool // reference a structure tree from the catalog
	Alt    bool // put an /Alt entry in the catalog
}

// Build returns the bytes of a PDF with a correct cross-reference table.
func Build(opts Options) []byte {
	if opts.Pages < 1 {
		opts.Pages = 1
	}

	const firstPage = 4
	kids := make([]string, opts.Pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", firstPage+i)
	}

	catalog := "<< /Type /Catalog /Pages 2 0 R"
	if opts.Tagged {
		catalog += " /StructTreeRoot 3 0 R /MarkInfo << /Marked true >>"
	}
	if opts.Alt {
		catalog += " /PieceInfo << /Alt (cover figure) >>"
	}
	catalog += " >>"

	objects := []string{
		catalog,
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), opts.Pages),
		"<< /Type /StructTreeRoot /K [] >>",
	}
	for range opts.Pages {
		objects = append(objects, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}
