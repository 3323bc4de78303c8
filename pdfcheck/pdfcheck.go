// Package pdfcheck reads the structural accessibility signals of a PDF.
//
// Two signals are extracted: whether the document catalog references a
// structure tree (a tagged PDF), and whether the "/Alt" marker appears in the
// textual rendering of the trailer or catalog. The second is a coarse text
// scan, not a walk of the structure tree: incidental matches such as
// "/Alternate" count as alt text, and alt text stored deeper in the object
// graph is not seen. Callers should treat it as a heuristic.
package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrMalformed wraps every failure to read a document.
var ErrMalformed = errors.New("malformed pdf")

const altMarker = "/Alt"

// Document holds what Inspect learned about a PDF.
type Document struct {
	Pages  int
	Tagged bool // catalog has a /StructTreeRoot entry
	HasAlt bool // "/Alt" found in the trailer or catalog rendering
}

// Inspect parses data as a PDF and extracts its page count and accessibility signals.
func Inspect(data []byte) (doc Document, err error) {
	// The reader panics on some corrupt object graphs.
	defer func() {
		if r := recover(); r != nil {
			doc = Document{}
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	trailer := reader.Trailer()
	root := trailer.Key("Root")
	if root.Kind() != pdf.Dict {
		return Document{}, fmt.Errorf("%w: missing document catalog", ErrMalformed)
	}
	pages := root.Key("Pages")
	if pages.Kind() != pdf.Dict {
		return Document{}, fmt.Errorf("%w: missing page tree", ErrMalformed)
	}

	doc.Pages = int(pages.Key("Count").Int64())
	doc.Tagged = root.Key("StructTreeRoot").Kind() != pdf.Null
	doc.HasAlt = strings.Contains(trailer.String(), altMarker) || strings.Contains(root.String(), altMarker)
	return doc, nil
}
