package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quickcore/internal/extractor"
	"quickcore/internal/mocks"
	"quickcore/internal/models"
	"quickcore/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPlan() *models.StudyPlanData {
	hours := 2.0
	return &models.StudyPlanData{
		Title:        "Algebra Mastery Plan",
		Introduction: "Three steps to algebra.",
		Topics: []models.StudyTopic{
			{TopicName: "Linear Equations", Priority: models.PriorityHigh, EstimatedTimeHours: &hours, LearningStrategies: []string{"Drill problems"}},
			{TopicName: "Quadratics", Priority: models.PriorityMedium, KeyQuestions: []string{"How do you factor?"}},
			{TopicName: "Polynomials", Priority: models.PriorityLow},
		},
		GeneralTips: []string{"Sleep well"},
	}
}

type harness struct {
	model     Model
	extractor *mocks.MockExtractor
	generator *mocks.MockGenerator
	dir       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ext := mocks.NewMockExtractor(t)
	gen := mocks.NewMockGenerator(t)
	dir := t.TempDir()

	m := New(context.Background(), session.NewMachine(ext, gen, nil), dir)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})

	return &harness{model: updated.(Model), extractor: ext, generator: gen, dir: dir}
}

func (h *harness) writePDF(t *testing.T, name string) (string, extractor.Document) {
	t.Helper()
	path := filepath.Join(h.dir, name)
	content := []byte("%PDF-1.4 test")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path, extractor.Document{Name: name, Content: content}
}

// settle runs the attempt command and feeds its message back into the model.
func (h *harness) settle(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, attemptSettledMsg{}, msg)
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
}

func TestModel_View_EmptyDimensions(t *testing.T) {
	m := New(context.Background(), session.NewMachine(mocks.NewMockExtractor(t), mocks.NewMockGenerator(t), nil), t.TempDir())

	assert.Equal(t, "", m.View())
}

func TestModel_InitialViewShowsUpload(t *testing.T) {
	h := newHarness(t)

	view := h.model.View()

	assert.Equal(t, session.StateIdle, h.model.Snapshot().State())
	assert.Contains(t, view, "QuickCore")
	assert.Contains(t, view, "Select a PDF")
	assert.Contains(t, view, "Enter Select")
	assert.NotNil(t, h.model.Init())
}

func TestModel_ViewKeepsFooterOnEveryScreen(t *testing.T) {
	h := newHarness(t)
	path, doc := h.writePDF(t, "notes.pdf")

	assert.Contains(t, h.model.View(), footerText)

	h.extractor.On("ExtractText", mock.Anything, doc).Return("", nil).Once()
	m, cmd := h.model.startAttempt(path)
	h.model = m
	h.settle(t, cmd)

	view := h.model.View()
	require.Equal(t, session.StateError, h.model.Snapshot().State())
	assert.Contains(t, view, footerText)
	assert.Greater(t, strings.Index(view, footerText), strings.Index(view, "Try Another PDF"), "footer sits below the screen body")
}

func TestModel_SuccessfulAttempt(t *testing.T) {
	h := newHarness(t)
	path, doc := h.writePDF(t, "syllabus.pdf")
	h.extractor.On("ExtractText", mock.Anything, doc).Return("Chapter 1: Algebra...", nil).Once()
	h.generator.On("GenerateStudyPlan", mock.Anything, "Chapter 1: Algebra...").Return(testPlan(), nil).Once()

	var cmd tea.Cmd
	h.model, cmd = h.model.startAttempt(path)

	assert.Equal(t, session.StateLoading, h.model.Snapshot().State())
	assert.Contains(t, h.model.View(), "Analyzing syllabus.pdf and crafting your plan...")

	h.settle(t, cmd)

	require.Equal(t, session.StateResult, h.model.Snapshot().State())
	view := h.model.View()
	assert.Contains(t, view, "Algebra Mastery Plan")
	assert.Contains(t, view, "Analyze Another PDF")

	first := strings.Index(view, "1. Linear Equations")
	second := strings.Index(view, "2. Quadratics")
	third := strings.Index(view, "3. Polynomials")
	require.True(t, first >= 0 && second >= 0 && third >= 0, "all topics rendered")
	assert.True(t, first < second && second < third, "topics keep their order")
	assert.Contains(t, view, "[High]")
	assert.Contains(t, view, "~2 hours")
}

func TestModel_EmptyDocumentShowsErrorAndResets(t *testing.T) {
	h := newHarness(t)
	path, doc := h.writePDF(t, "scanned-image.pdf")
	h.extractor.On("ExtractText", mock.Anything, doc).Return("", nil).Once()

	var cmd tea.Cmd
	h.model, cmd = h.model.startAttempt(path)
	h.settle(t, cmd)

	require.Equal(t, session.StateError, h.model.Snapshot().State())
	view := h.model.View()
	assert.Contains(t, view, "appears to be empty")
	assert.Contains(t, view, "Try Another PDF")
	h.generator.AssertNumberOfCalls(t, "GenerateStudyPlan", 0)

	updated, resetCmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	h.model = updated.(Model)

	assert.NotNil(t, resetCmd)
	assert.Equal(t, session.Snapshot{}, h.model.Snapshot())
	assert.Contains(t, h.model.View(), "Select a PDF")
}

func TestModel_GenerationFailureShowsMessage(t *testing.T) {
	h := newHarness(t)
	path, doc := h.writePDF(t, "notes.pdf")
	h.extractor.On("ExtractText", mock.Anything, doc).Return("notes", nil).Once()
	h.generator.On("GenerateStudyPlan", mock.Anything, "notes").Return(nil, errors.New("quota exceeded")).Once()

	var cmd tea.Cmd
	h.model, cmd = h.model.startAttempt(path)
	h.settle(t, cmd)

	assert.Equal(t, session.StateError, h.model.Snapshot().State())
	assert.Contains(t, h.model.View(), "An error occurred: quota exceeded")
}

func TestModel_ResetIgnoredWhileLoading(t *testing.T) {
	h := newHarness(t)
	path, _ := h.writePDF(t, "syllabus.pdf")

	var cmd tea.Cmd
	h.model, cmd = h.model.startAttempt(path)
	require.NotNil(t, cmd)

	updated, resetCmd := h.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	h.model = updated.(Model)

	assert.Nil(t, resetCmd)
	assert.Equal(t, session.StateLoading, h.model.Snapshot().State())
}

func TestModel_ReadFailureLeavesMachineIdle(t *testing.T) {
	h := newHarness(t)
	h.model.readDocument = func(string) (extractor.Document, error) {
		return extractor.Document{}, errors.New("permission denied")
	}

	var cmd tea.Cmd
	h.model, cmd = h.model.startAttempt(filepath.Join(h.dir, "locked.pdf"))

	assert.Nil(t, cmd)
	assert.Equal(t, session.StateIdle, h.model.Snapshot().State())
	assert.Equal(t, "Could not open locked.pdf: permission denied", h.model.Notice())
	assert.Contains(t, h.model.View(), "Could not open locked.pdf")
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		h := newHarness(t)
		_, cmd := h.model.Update(key)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "expected quit for %s", key.String())
	}
}

func TestRenderPlan(t *testing.T) {
	out := renderPlan(testPlan(), "syllabus.pdf", 80)

	assert.Contains(t, out, "Algebra Mastery Plan")
	assert.Contains(t, out, "Generated from syllabus.pdf")
	assert.Contains(t, out, "• Drill problems")
	assert.Contains(t, out, "? How do you factor?")
	assert.Contains(t, out, "[Low]")
	assert.Contains(t, out, "General tips")
	assert.Contains(t, out, "Total estimated time: 2 hours")
}
