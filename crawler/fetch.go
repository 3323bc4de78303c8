package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lukemcguire/pdfsweep/pdfcheck"
	"github.com/lukemcguire/pdfsweep/result"
)

var errTooLarge = errors.New("response body exceeds size limit")

// pageResult is the outcome of fetching one frontier page.
type pageResult struct {
	StatusCode int
	Err        error    // transport or read failure
	Links      []string // in-page links, HTML responses only
	Base       *url.URL // resolution base for Links
}

// failed reports whether the page counts as an error page.
func (p pageResult) failed() bool {
	return p.Err != nil || p.StatusCode >= 400
}

// get issues a GET bounded by the per-request timeout. The returned cancel
// func must be called once the body has been consumed.
func (s *Scanner) get(ctx context.Context, rawURL string) (*http.Response, context.CancelFunc, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.cfg.Client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	return resp, cancel, nil
}

// fetchPage GETs a frontier page and, for successful HTML responses,
// extracts its links. The post-redirect URL is the base only while it stays
// on scopeHost; a redirect off the host keeps the requested URL as base, so
// an apex seed redirecting to its www host still crawls the apex.
func (s *Scanner) fetchPage(ctx context.Context, rawURL, scopeHost string) (res pageResult) {
	resp, cancel, err := s.get(ctx, rawURL)
	if err != nil {
		res.Err = err
		return res
	}
	defer cancel()
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && res.Err == nil {
			s.cfg.Logger.WithField("url", rawURL).WithError(closeErr).Debug("close response body")
		}
	}()

	res.StatusCode = resp.StatusCode
	res.Base = linkBase(rawURL, resp.Request.URL, scopeHost)
	if res.StatusCode >= 400 {
		return res
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") {
		return res
	}

	// Read fully first so a mid-body failure counts as a fetch error.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxPageBytes))
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", rawURL, err)
		return res
	}

	for link := range ExtractLinks(bytes.NewReader(body), res.Base) {
		res.Links = append(res.Links, link)
	}
	return res
}

func linkBase(requested string, final *url.URL, scopeHost string) *url.URL {
	if final != nil && final.Host == scopeHost {
		return final
	}
	base, err := url.Parse(requested)
	if err != nil {
		return final
	}
	return base
}

// fetchPDF downloads and classifies one PDF. Any failure means the PDF is skipped.
func (s *Scanner) fetchPDF(ctx context.Context, pdfURL, sourcePage string) (result.PDFRecord, error) {
	resp, cancel, err := s.get(ctx, pdfURL)
	if err != nil {
		return result.PDFRecord{}, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return result.PDFRecord{}, fmt.Errorf("get %s: status %d", pdfURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxPDFBytes+1))
	if err != nil {
		return result.PDFRecord{}, fmt.Errorf("read %s: %w", pdfURL, err)
	}
	if int64(len(data)) > s.cfg.MaxPDFBytes {
		return result.PDFRecord{}, fmt.Errorf("read %s: %w", pdfURL, errTooLarge)
	}

	doc, err := pdfcheck.Inspect(data)
	if err != nil {
		return result.PDFRecord{}, fmt.Errorf("inspect %s: %w", pdfURL, err)
	}

	return result.PDFRecord{
		URL:        pdfURL,
		SourcePage: sourcePage,
		Pages:      doc.Pages,
		Bytes:      int64(len(data)),
		HasTags:    doc.Tagged,
		HasAlt:     doc.HasAlt,
		Status:     result.Classify(doc.Tagged, doc.HasAlt),
	}, nil
}
