package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/labelsheet/pkg/compose"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

const progressWidth = 32

var (
	barFullStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
	percentStyle  = lipgloss.NewStyle().Foreground(colorWhite).Width(5).Align(lipgloss.Right)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// =============================================================================
// ExportModel - PDF export progress
// =============================================================================

type progressMsg compose.Progress

type doneMsg struct{}

type tickMsg time.Time

// ExportModel is the bubbletea model shown while the print export runs.
// Pressing q or ctrl+c cancels the export; the model then waits for the
// export to report back before quitting.
type ExportModel struct {
	Progress  compose.Progress
	Canceling bool
	Done      bool

	frame  int
	cancel context.CancelFunc
}

// NewExportModel creates an export model. cancel aborts the export.
func NewExportModel(cancel context.CancelFunc) ExportModel {
	return ExportModel{cancel: cancel}
}

func (m ExportModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Canceling && m.cancel != nil {
				m.cancel()
			}
			m.Canceling = true
		}
	case progressMsg:
		m.Progress = compose.Progress(msg)
	case doneMsg:
		m.Done = true
		return m, tea.Quit
	case tickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m ExportModel) View() string {
	if m.Done {
		return ""
	}
	var b strings.Builder
	frame := styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)])

	switch {
	case m.Canceling:
		b.WriteString(frame + " " + StyleWarning.Render("Canceling export..."))
	case m.Progress.State != compose.StateExporting:
		b.WriteString(frame + " " + StyleDim.Render("Preparing labels..."))
	default:
		frac := m.Progress.Fraction()
		full := int(frac * progressWidth)
		b.WriteString(frame + " ")
		b.WriteString(barFullStyle.Render(strings.Repeat("█", full)))
		b.WriteString(barEmptyStyle.Render(strings.Repeat("░", progressWidth-full)))
		b.WriteString(percentStyle.Render(fmt.Sprintf("%d%%", int(frac*100))))
		b.WriteString(StyleDim.Render(fmt.Sprintf("  page %d of %d", m.Progress.Page, m.Progress.Pages)))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  q cancel"))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// Runner
// =============================================================================

type runResult struct {
	res *pipeline.Result
	err error
}

// runWithProgress runs fn while showing an [ExportModel] on stderr. fn
// receives a context the user can cancel from the keyboard and a progress
// callback to hand to the exporter.
func runWithProgress(ctx context.Context, fn func(context.Context, func(compose.Progress)) (*pipeline.Result, error)) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewExportModel(cancel), tea.WithOutput(os.Stderr))
	out := make(chan runResult, 1)
	go func() {
		res, err := fn(ctx, func(pr compose.Progress) { p.Send(progressMsg(pr)) })
		out <- runResult{res, err}
		p.Send(doneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		loggerFromContext(ctx).Debug("progress display failed", "error", err)
	}
	r := <-out
	return r.res, r.err
}
