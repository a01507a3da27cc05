// Package session holds the application state machine shared by every front end.
//
// A Machine moves between four states: Idle, Loading, Error and Result. Each upload
// is one attempt: the document is extracted, and only non-empty text is handed to
// the generator. Collaborator failures always settle the machine in Error; nothing
// is retried and nothing escapes to the caller.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"quickcore/internal/extractor"
	"quickcore/internal/models"

	"go.uber.org/zap"
)

// ErrAttemptInFlight is returned when an upload or reset arrives while an attempt is running.
var ErrAttemptInFlight = errors.New("a document is already being analyzed")

// errNoPlan is reported when a generator returns neither a plan nor an error.
var errNoPlan = errors.New("the generator returned no study plan")

// Extractor produces the text layer of a document
type Extractor interface {
	ExtractText(ctx context.Context, doc extractor.Document) (string, error)
}

// Generator turns document text into a study plan
type Generator interface {
	GenerateStudyPlan(ctx context.Context, text string) (*models.StudyPlanData, error)
}

// State is the display state of a session
type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
	StateResult
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateResult:
		return "result"
	default:
		return "idle"
	}
}

// Snapshot is a read-only copy of the session fields
type Snapshot struct {
	Loading  bool
	FileName string
	Error    string
	Plan     *models.StudyPlanData
}

// State resolves which screen to show: loading, then error, then result, then the upload prompt.
func (s Snapshot) State() State {
	switch {
	case s.Loading:
		return StateLoading
	case s.Error != "":
		return StateError
	case s.Plan != nil:
		return StateResult
	default:
		return StateIdle
	}
}

// LoaderMessage returns the loading status line for this snapshot.
func (s Snapshot) LoaderMessage() string {
	return LoaderMessage(s.FileName)
}

// Machine owns one session's state
type Machine struct {
	extractor Extractor
	generator Generator
	logger    *zap.Logger

	mu         sync.Mutex
	sourceText *string
	plan       *models.StudyPlanData
	loading    bool
	errMsg     string
	fileName   string
	observer   func(Snapshot)
}

// NewMachine creates an idle Machine
func NewMachine(extractor Extractor, generator Generator, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Machine{
		extractor: extractor,
		generator: generator,
		logger:    logger.Named("session"),
	}
}

// SetObserver registers a callback invoked after every state change.
func (m *Machine) SetObserver(fn func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = fn
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// SourceText returns the text extracted by the latest attempt, if any.
// It is kept after a generation failure but never displayed.
func (m *Machine) SourceText() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sourceText == nil {
		return "", false
	}
	return *m.sourceText, true
}

// Attempt is one upload-to-result-or-error cycle
type Attempt struct {
	machine *Machine
	doc     extractor.Document
	started atomic.Bool
}

// Begin clears the previous result, error and text and moves the machine to Loading.
func (m *Machine) Begin(doc extractor.Document) (*Attempt, error) {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return nil, ErrAttemptInFlight
	}
	m.sourceText = nil
	m.plan = nil
	m.errMsg = ""
	m.fileName = doc.Name
	m.loading = true
	snap, observer := m.snapshotLocked(), m.observer
	m.mu.Unlock()

	m.logger.Info("Attempt started", zap.String("file", doc.Name), zap.Int("bytes", len(doc.Content)))
	notify(observer, snap)
	return &Attempt{machine: m, doc: doc}, nil
}

// Submit runs a full attempt and returns the settled state.
func (m *Machine) Submit(ctx context.Context, doc extractor.Document) (Snapshot, error) {
	attempt, err := m.Begin(doc)
	if err != nil {
		return m.Snapshot(), err
	}
	return attempt.Run(ctx), nil
}

// FileName returns the name of the document this attempt analyzes.
func (a *Attempt) FileName() string {
	return a.doc.Name
}

// Run extracts the document, then generates the plan, and settles the machine.
// Calling Run a second time only returns the current state.
func (a *Attempt) Run(ctx context.Context) (snap Snapshot) {
	m := a.machine
	if !a.started.CompareAndSwap(false, true) {
		return m.Snapshot()
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Attempt panicked", zap.String("file", a.doc.Name), zap.Any("panic", r))
			snap = m.fail(formatRecovered(r))
		}
	}()

	text, err := m.extractor.ExtractText(ctx, a.doc)
	if err != nil {
		m.logger.Error("Error extracting PDF text", zap.String("file", a.doc.Name), zap.Error(err))
		return m.fail(FormatError(err))
	}

	m.mu.Lock()
	m.sourceText = &text
	m.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		m.logger.Warn("PDF has no extractable text", zap.String("file", a.doc.Name))
		return m.fail(EmptyDocumentMessage)
	}

	plan, err := m.generator.GenerateStudyPlan(ctx, text)
	if err == nil && plan == nil {
		err = errNoPlan
	}
	if err != nil {
		m.logger.Error("Error generating study plan", zap.String("file", a.doc.Name), zap.Error(err))
		return m.fail(FormatError(err))
	}

	m.logger.Info("Study plan ready",
		zap.String("file", a.doc.Name),
		zap.String("title", plan.Title),
		zap.Int("topics", len(plan.Topics)),
	)
	return m.settle(func() { m.plan = plan })
}

// Reset returns the machine to Idle, clearing every field.
// It is refused while an attempt is in flight.
func (m *Machine) Reset() error {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return ErrAttemptInFlight
	}
	m.sourceText = nil
	m.plan = nil
	m.errMsg = ""
	m.fileName = ""
	snap, observer := m.snapshotLocked(), m.observer
	m.mu.Unlock()

	notify(observer, snap)
	return nil
}

func (m *Machine) fail(message string) Snapshot {
	return m.settle(func() { m.errMsg = message })
}

// settle applies the outcome and leaves Loading.
func (m *Machine) settle(apply func()) Snapshot {
	m.mu.Lock()
	apply()
	m.loading = false
	snap, observer := m.snapshotLocked(), m.observer
	m.mu.Unlock()

	notify(observer, snap)
	return snap
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Loading:  m.loading,
		FileName: m.fileName,
		Error:    m.errMsg,
		Plan:     m.plan,
	}
}

func notify(observer func(Snapshot), snap Snapshot) {
	if observer != nil {
		observer(snap)
	}
}
