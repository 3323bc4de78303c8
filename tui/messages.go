package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/pdfsweep/crawler"
	"github.com/lukemcguire/pdfsweep/result"
)

// ScanProgressMsg carries one progress event from a running site scan.
type ScanProgressMsg struct {
	Event crawler.Event
}

// ScanDoneMsg signals the batch has finished.
type ScanDoneMsg struct {
	Results []*result.ScanResult
	Err     error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields no message; completion is reported by
// the scan command itself.
func waitForProgress(ch <-chan crawler.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return ScanProgressMsg{Event: evt}
	}
}
