package jobs

import (
	"strings"
	"time"
	"unicode"

	"github.com/lukemcguire/pdfsweep/urlutil"
)

// ParseSeeds splits free-form input into normalized seed addresses.
// Whitespace and commas separate entries.
func ParseSeeds(text string) []string {
	return NormalizeSeeds(strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}))
}

// NormalizeSeeds normalizes every seed the way the scanner does, so seeds
// match the Seed field of progress events. Empty entries and duplicates
// after normalization are dropped keeping first-seen order.
func NormalizeSeeds(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	seeds := make([]string, 0, len(raw))
	for _, r := range raw {
		seed := urlutil.NormalizeSeed(r)
		if seed == "" || seen[seed] {
			continue
		}
		seen[seed] = true
		seeds = append(seeds, seed)
	}
	return seeds
}

// runIDLayout formats run timestamps as 20060102_150405.
const runIDLayout = "20060102_150405"

// NewRunID derives a run identifier from the start time of a batch.
func NewRunID(t time.Time) string {
	return t.Format(runIDLayout)
}
