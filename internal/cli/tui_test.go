package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/labelsheet/pkg/compose"
)

func TestExportModelProgress(t *testing.T) {
	m := NewExportModel(nil)
	if !strings.Contains(m.View(), "Preparing") {
		t.Errorf("idle view = %q", m.View())
	}

	next, _ := m.Update(progressMsg{State: compose.StateExporting, Page: 1, Pages: 4})
	m = next.(ExportModel)
	view := m.View()
	if !strings.Contains(view, "25%") || !strings.Contains(view, "page 1 of 4") {
		t.Errorf("exporting view = %q", view)
	}

	next, cmd := m.Update(doneMsg{})
	m = next.(ExportModel)
	if !m.Done || cmd == nil {
		t.Error("done message should quit")
	}
	if m.View() != "" {
		t.Errorf("done view = %q, want empty", m.View())
	}
}

func TestExportModelCancel(t *testing.T) {
	calls := 0
	m := NewExportModel(func() { calls++ })

	for i := 0; i < 2; i++ {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		m = next.(ExportModel)
	}
	if calls != 1 {
		t.Errorf("cancel called %d times, want 1", calls)
	}
	if !m.Canceling || !strings.Contains(m.View(), "Canceling") {
		t.Errorf("view = %q, want canceling", m.View())
	}
}

func TestExportModelTick(t *testing.T) {
	m := NewExportModel(nil)
	next, cmd := m.Update(tickMsg{})
	if next.(ExportModel).frame != 1 || cmd == nil {
		t.Error("tick should advance the frame and schedule another tick")
	}
}
