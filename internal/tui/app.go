// Package tui is the interactive terminal front end. It drives a session.Machine
// with a file picker, a loader, an error banner and a scrollable plan view.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"quickcore/internal/extractor"
	"quickcore/internal/session"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// header (title, subtitle, blank line), footer and status bar
const chromeHeight = 6

const footerText = "Study plans are generated by a language model. Double-check them against your course material."

// attemptSettledMsg carries the machine state once an attempt finishes.
type attemptSettledMsg struct {
	snapshot session.Snapshot
}

// ReadDocumentFunc loads the selected file. It can be replaced in tests.
type ReadDocumentFunc func(path string) (extractor.Document, error)

// Model is the root bubbletea model
type Model struct {
	ctx      context.Context
	machine  *session.Machine
	picker   filepicker.Model
	spinner  spinner.Model
	viewport viewport.Model
	snapshot session.Snapshot
	notice   string
	width    int
	height   int

	readDocument ReadDocumentFunc
}

// New creates the TUI model. startDir is where the file picker opens.
func New(ctx context.Context, machine *session.Machine, startDir string) Model {
	fp := filepicker.New()
	fp.CurrentDirectory = startDir
	fp.AllowedTypes = []string{".pdf", ".PDF"}
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.DirAllowed = false
	fp.FileAllowed = true

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SelectedStyle

	return Model{
		ctx:          ctx,
		machine:      machine,
		picker:       fp,
		spinner:      s,
		viewport:     viewport.New(0, 0),
		snapshot:     machine.Snapshot(),
		readDocument: extractor.ReadDocument,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.picker.Init(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case attemptSettledMsg:
		m.snapshot = msg.snapshot
		if m.snapshot.State() == session.StateResult {
			m.viewport.SetContent(renderPlan(m.snapshot.Plan, m.snapshot.FileName, m.viewport.Width))
			m.viewport.GotoTop()
		}
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleKeyPress(msg); handled {
			return model, cmd
		}
	}

	switch m.snapshot.State() {
	case session.StateIdle:
		return m.updatePicker(msg)
	case session.StateResult:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress handles the global keys; everything else goes to the active component.
func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "r":
		switch m.snapshot.State() {
		case session.StateIdle:
			return m, nil, false
		case session.StateLoading:
			// the upload control stays disabled until the attempt settles
			return m, nil, true
		}
		if err := m.machine.Reset(); err != nil {
			return m, nil, true
		}
		m.snapshot = m.machine.Snapshot()
		m.notice = ""
		m.viewport.SetContent("")
		return m, m.picker.Init(), true
	}
	return m, nil, false
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		return m.startAttempt(path)
	}

	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.notice = fmt.Sprintf("%s is not a PDF", filepath.Base(path))
	}

	return m, cmd
}

// startAttempt reads the file, moves the machine to Loading and runs the attempt in the background.
func (m Model) startAttempt(path string) (Model, tea.Cmd) {
	doc, err := m.readDocument(path)
	if err != nil {
		m.notice = fmt.Sprintf("Could not open %s: %v", filepath.Base(path), err)
		return m, nil
	}

	attempt, err := m.machine.Begin(doc)
	if err != nil {
		if errors.Is(err, session.ErrAttemptInFlight) {
			m.notice = "Please wait for the current document to finish."
		}
		return m, nil
	}

	m.notice = ""
	m.snapshot = m.machine.Snapshot()

	ctx := m.ctx
	return m, func() tea.Msg {
		return attemptSettledMsg{snapshot: attempt.Run(ctx)}
	}
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	bodyHeight := height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	// the picker sits under a one-line prompt
	m.picker.Height = bodyHeight - 2
	m.viewport.Width = width
	m.viewport.Height = bodyHeight
	if m.snapshot.State() == session.StateResult {
		m.viewport.SetContent(renderPlan(m.snapshot.Plan, m.snapshot.FileName, width))
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, TitleStyle.Render("QuickCore")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, SubtleStyle.Render("Upload a PDF and get a focused study plan")))
	b.WriteString("\n\n")

	var statusItems []string
	switch m.snapshot.State() {
	case session.StateLoading:
		b.WriteString(m.renderLoading())
		statusItems = []string{"Please wait...", "Ctrl+C Quit"}
	case session.StateError:
		b.WriteString(m.renderError())
		statusItems = []string{"r Try Another PDF", "q Quit"}
	case session.StateResult:
		b.WriteString(m.viewport.View())
		statusItems = []string{"↑↓ Scroll", "r Analyze Another PDF", "q Quit"}
	default:
		b.WriteString(m.renderUpload())
		statusItems = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	}

	lines := strings.Count(b.String(), "\n") + 1
	if remaining := m.height - lines - 2; remaining > 0 {
		b.WriteString(strings.Repeat("\n", remaining))
	} else {
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, SubtleStyle.Render(footerText)))
	b.WriteString("\n")
	b.WriteString(renderStatusBar(m.width, statusItems))
	return b.String()
}

func (m Model) renderUpload() string {
	var b strings.Builder
	b.WriteString(SelectedStyle.Render("Select a PDF"))
	if m.notice != "" {
		b.WriteString("  " + ErrorStyle.Render(m.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	return b.String()
}

func (m Model) renderLoading() string {
	line := m.spinner.View() + " " + m.snapshot.LoaderMessage()
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line)
}

func (m Model) renderError() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	banner := BoxStyle.Width(width).Render(ErrorStyle.Render("✗ ") + m.snapshot.Error)
	options := SelectedStyle.Render("[r]") + " Try Another PDF"
	return banner + "\n\n" + options
}

// Snapshot returns the state the model is currently showing.
func (m Model) Snapshot() session.Snapshot {
	return m.snapshot
}

// Notice returns the transient message shown above the file picker.
func (m Model) Notice() string {
	return m.notice
}
