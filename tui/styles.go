package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/pdfsweep/result"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	successStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
	urlStyle       = lipgloss.NewStyle()
	inaccessibleFg = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	likelyFg       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	accessibleFg   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const statusCol = 4

// RenderSummary produces a Lip Gloss styled summary of every site's results.
func RenderSummary(results []*result.ScanResult) string {
	if len(results) == 0 {
		return errorStyle.Render("No results available.") + "\n"
	}

	var builder strings.Builder
	totals := result.ScanResult{}
	for _, res := range results {
		if res == nil {
			continue
		}
		renderSite(&builder, res)
		totals.PagesCrawled += res.PagesCrawled
		totals.PDFCount += res.PDFCount
		totals.CountInaccessible += res.CountInaccessible
		totals.CountLikely += res.CountLikely
		totals.CountAccessible += res.CountAccessible
	}

	if len(results) > 1 {
		builder.WriteString(titleStyle.Render(fmt.Sprintf(
			"All sites: %d pages, %d PDFs (%d inaccessible, %d likely inaccessible, %d accessible)",
			totals.PagesCrawled, totals.PDFCount,
			totals.CountInaccessible, totals.CountLikely, totals.CountAccessible,
		)))
		builder.WriteString("\n")
	}
	return builder.String()
}

func renderSite(builder *strings.Builder, res *result.ScanResult) {
	builder.WriteString(titleStyle.Render("=== " + res.SeedURL + " ==="))
	builder.WriteString("\n")

	if len(res.PDFs) == 0 {
		builder.WriteString(successStyle.Render("No PDFs found."))
		builder.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(res.PDFs))
		for _, rec := range res.PDFs {
			rows = append(rows, []string{
				rec.URL,
				strconv.Itoa(rec.Pages),
				yesNo(rec.HasTags),
				yesNo(rec.HasAlt),
				string(rec.Status),
			})
		}

		pdfTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("PDF", "Pages", "Tags", "Alt", "Status").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == statusCol && row >= 0 && row < len(rows) {
					return statusStyle(result.Status(rows[row][statusCol]))
				}
				return urlStyle
			}).
			Rows(rows...)

		builder.WriteString(pdfTable.Render())
		builder.WriteString("\n")
	}

	for _, cat := range result.Categories {
		if n := res.ErrorsByCategory[cat]; n > 0 {
			builder.WriteString(categoryStyle.Render(fmt.Sprintf("  %s: %d", result.FormatCategory(cat), n)))
			builder.WriteString("\n")
		}
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Crawled %d pages (%d errors), found %d PDFs (%d pages): %d inaccessible, %d likely inaccessible, %d accessible (%s)",
		res.PagesCrawled, res.ErrorPages, res.PDFCount, res.TotalPDFPages,
		res.CountInaccessible, res.CountLikely, res.CountAccessible,
		res.Duration.Round(1_000_000), // round to ms
	)))
	builder.WriteString("\n")
	if res.Outcome == result.OutcomeBoundReached {
		builder.WriteString(categoryStyle.Render("Page limit reached; some pages were not crawled."))
		builder.WriteString("\n")
	}
	if res.ReportPath != "" {
		builder.WriteString(dimStyle.Render("Report: " + res.ReportPath))
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
}

func statusStyle(s result.Status) lipgloss.Style {
	switch s {
	case result.StatusInaccessible:
		return inaccessibleFg
	case result.StatusLikelyInaccessible:
		return likelyFg
	default:
		return accessibleFg
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
