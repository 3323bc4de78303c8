package report

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lukemcguire/pdfsweep/result"
)

// ArchiveName is the file name of the bundle for a run.
func ArchiveName(runID string) string {
	return "pdf_reports_" + runID + ".zip"
}

// Archive bundles the workbooks of results into a ZIP at path. Each entry
// is stored as <site label>/<workbook file name>. Results whose workbook does not
// exist are skipped. It returns the number of entries written.
func Archive(path string, results []*result.ScanResult) (n int, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close archive: %w", closeErr)
		}
	}()

	zw := zip.NewWriter(out)
	for _, res := range results {
		if res == nil || res.ReportPath == "" {
			continue
		}
		name := result.SiteLabel(res.SeedURL, res.Host) + "/" + filepath.Base(res.ReportPath)
		added, err := addFile(zw, name, res.ReportPath)
		if err != nil {
			return n, err
		}
		if added {
			n++
		}
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("finish archive: %w", err)
	}
	return n, nil
}

func addFile(zw *zip.Writer, name, src string) (bool, error) {
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return false, fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return false, fmt.Errorf("copy %s: %w", name, err)
	}
	return true, nil
}
