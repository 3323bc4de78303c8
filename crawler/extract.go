package crawler

import (
	"io"
	"iter"
	"net/url"

	"golang.org/x/net/html"

	"github.com/lukemcguire/pdfsweep/urlutil"
)

// ExtractLinks returns the absolute http(s) URL of every anchor href in the
// HTML read from body, resolved against baseURL with fragments stripped.
//
// The sequence is lazy and single-use: it consumes body as it is iterated.
// Malformed markup never fails; tokenizing stops at the first unrecoverable
// error and the sequence simply ends. Duplicates are yielded as found.
func ExtractLinks(body io.Reader, baseURL *url.URL) iter.Seq[string] {
	return func(yield func(string) bool) {
		tokenizer := html.NewTokenizer(body)
		for {
			switch tokenizer.Next() {
			case html.ErrorToken:
				// io.EOF or a read error; either way there is nothing more to yield.
				return
			case html.StartTagToken, html.SelfClosingTagToken:
				name, hasAttr := tokenizer.TagName()
				if string(name) != "a" || !hasAttr {
					continue
				}
				for {
					key, val, more := tokenizer.TagAttr()
					if string(key) == "href" {
						if link, ok := urlutil.Resolve(baseURL, string(val)); ok && !yield(link) {
							return
						}
						// Browsers honor the first href only.
						break
					}
					if !more {
						break
					}
				}
			}
		}
	}
}
