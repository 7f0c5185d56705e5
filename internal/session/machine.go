package session

import (
	"sync"
	"time"

	"github.com/Pushpak2001/quzicam/internal/models"
)

type State int

const (
	StateIdle State = iota
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// DefaultAdvanceDelay is how long correctness feedback stays on screen before
// the machine moves to the next question.
const DefaultAdvanceDelay = time.Second

// Machine drives one quiz session through Idle -> Active(i) -> Finished.
// Misuse (answering out of state, double-answering) is a silent no-op, not an
// error: duplicate UI events are benign and must not corrupt state.
type Machine struct {
	mu sync.Mutex

	state       State
	questions   []models.AnsweredQuestion
	language    string
	index       int
	completedAt time.Time

	advanceDelay time.Duration
	timer        *time.Timer
	// timerGen invalidates pending auto-advances: a fired timer whose
	// generation no longer matches is stale and does nothing.
	timerGen uint64
}

func NewMachine(advanceDelay time.Duration) *Machine {
	if advanceDelay <= 0 {
		advanceDelay = DefaultAdvanceDelay
	}
	return &Machine{state: StateIdle, advanceDelay: advanceDelay}
}

// Start loads a payload and moves Idle -> Active(0). Every question begins
// unanswered. Starting over an existing session cancels any pending
// auto-advance so a stale timer never fires against the new quiz.
func (m *Machine) Start(payload *models.QuizPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelTimerLocked()

	m.questions = make([]models.AnsweredQuestion, len(payload.Questions))
	for i, q := range payload.Questions {
		m.questions[i] = models.AnsweredQuestion{
			Question:        q,
			UserOptionIndex: models.Unanswered,
		}
	}
	m.language = payload.DetectedLanguage
	m.index = 0
	m.state = StateActive
	m.completedAt = time.Time{}
	return nil
}

// Answer records the user's pick for the current question. The first answer
// is final: re-invocations on an answered question, answers for a question
// other than the current one, and answers outside Active are all ignored.
// Recording an answer schedules a single delayed advance to the next question.
func (m *Machine) Answer(questionIndex, optionIndex int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive || questionIndex != m.index {
		return
	}
	if optionIndex < 0 || optionIndex >= models.OptionsPerQuestion {
		return
	}

	q := &m.questions[m.index]
	if q.Answered() {
		return
	}

	q.UserOptionIndex = optionIndex
	q.IsCorrect = optionIndex == q.CorrectOptionIndex

	m.scheduleAdvanceLocked()
}

// Finish moves any Active state straight to Finished. Unanswered questions
// stay unanswered and count as incorrect.
func (m *Machine) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finishLocked()
}

func (m *Machine) finishLocked() {
	if m.state != StateActive {
		return
	}
	m.cancelTimerLocked()
	m.state = StateFinished
	m.completedAt = time.Now().UTC()
}

// scheduleAdvanceLocked arms the single pending auto-advance. At most one
// timer exists at a time: cancel before replace.
func (m *Machine) scheduleAdvanceLocked() {
	m.cancelTimerLocked()
	gen := m.timerGen
	m.timer = time.AfterFunc(m.advanceDelay, func() {
		m.advance(gen)
	})
}

func (m *Machine) cancelTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) advance(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.timerGen || m.state != StateActive {
		return
	}
	m.timer = nil

	if m.index+1 < len(m.questions) {
		m.index++
	} else {
		m.finishLocked()
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentIndex returns the active question index, or -1 outside Active.
func (m *Machine) CurrentIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return -1
	}
	return m.index
}

// CurrentQuestion returns a copy of the question being presented, or nil
// outside Active.
func (m *Machine) CurrentQuestion() *models.AnsweredQuestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return nil
	}
	q := m.questions[m.index]
	q.Options = append([]string(nil), q.Options...)
	return &q
}

// Score counts correct answers committed so far. It is computed on demand,
// never cached, so reads during Active reflect exactly the answers recorded.
func (m *Machine) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreLocked()
}

func (m *Machine) scoreLocked() int {
	score := 0
	for i := range m.questions {
		if m.questions[i].Answered() && m.questions[i].IsCorrect {
			score++
		}
	}
	return score
}

// QuestionCount reports how many questions the loaded quiz has.
func (m *Machine) QuestionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

// Result builds the immutable SessionResult. It is only available once the
// machine has reached Finished.
func (m *Machine) Result() (*models.SessionResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateFinished {
		return nil, false
	}

	questions := make([]models.AnsweredQuestion, len(m.questions))
	for i, q := range m.questions {
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
	}

	return &models.SessionResult{
		Questions:   questions,
		Score:       m.scoreLocked(),
		Language:    m.language,
		CompletedAt: m.completedAt,
	}, true
}
