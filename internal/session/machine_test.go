package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/Pushpak2001/quzicam/internal/models"
)

const testDelay = 10 * time.Millisecond

func testPayload(count int) *models.QuizPayload {
	questions := make([]models.Question, count)
	for i := range questions {
		questions[i] = models.Question{
			Text:               fmt.Sprintf("question %d", i),
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: i % models.OptionsPerQuestion,
		}
	}
	return &models.QuizPayload{Questions: questions, DetectedLanguage: "en"}
}

// waitForIndex polls until the machine reaches the wanted index or the
// deadline passes.
func waitForIndex(t *testing.T, m *Machine, want int) {
	t.Helper()
	deadline := time.Now().Add(50 * testDelay)
	for time.Now().Before(deadline) {
		if m.CurrentIndex() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("machine never reached index %d, stuck at %d (state %s)", want, m.CurrentIndex(), m.State())
}

func waitForState(t *testing.T, m *Machine, want State) {
	t.Helper()
	deadline := time.Now().Add(50 * testDelay)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("machine never reached state %s, stuck at %s", want, m.State())
}

func TestStartMovesIdleToActiveZero(t *testing.T) {
	m := NewMachine(testDelay)
	if m.State() != StateIdle {
		t.Fatalf("fresh machine should be idle, got %s", m.State())
	}

	if err := m.Start(testPayload(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.State() != StateActive {
		t.Errorf("expected active, got %s", m.State())
	}
	if m.CurrentIndex() != 0 {
		t.Errorf("expected index 0, got %d", m.CurrentIndex())
	}

	q := m.CurrentQuestion()
	if q == nil {
		t.Fatal("expected a current question")
	}
	if q.Answered() {
		t.Error("questions must start unanswered")
	}
}

func TestStartRejectsInvalidPayload(t *testing.T) {
	m := NewMachine(testDelay)
	if err := m.Start(&models.QuizPayload{DetectedLanguage: "en"}); err == nil {
		t.Error("expected error for empty payload")
	}
	if m.State() != StateIdle {
		t.Errorf("failed start must leave the machine idle, got %s", m.State())
	}
}

func TestAnswerFirstPickIsFinal(t *testing.T) {
	m := NewMachine(time.Hour) // advance never fires during this test
	if err := m.Start(testPayload(3)); err != nil {
		t.Fatal(err)
	}

	m.Answer(0, 2)
	m.Answer(0, 1) // second pick must not overwrite
	m.Answer(0, 3)

	q := m.CurrentQuestion()
	if q.UserOptionIndex != 2 {
		t.Errorf("expected first answer 2 to stick, got %d", q.UserOptionIndex)
	}
	if m.Score() != 0 {
		t.Errorf("option 2 vs correct 0 should score 0, got %d", m.Score())
	}
}

func TestAnswerOutOfStateIsNoOp(t *testing.T) {
	m := NewMachine(time.Hour)

	// Idle: nothing to answer.
	m.Answer(0, 1)
	if m.State() != StateIdle {
		t.Errorf("answer in idle changed state to %s", m.State())
	}

	if err := m.Start(testPayload(2)); err != nil {
		t.Fatal(err)
	}

	// Wrong question index and out-of-range options are ignored.
	m.Answer(1, 0)
	m.Answer(0, -1)
	m.Answer(0, 4)
	if q := m.CurrentQuestion(); q.Answered() {
		t.Error("invalid answer events must not mark the question answered")
	}

	m.Finish()
	m.Answer(0, 0)
	if m.Score() != 0 {
		t.Errorf("answer after finish must not score, got %d", m.Score())
	}
}

func TestAutoAdvanceExactlyOnce(t *testing.T) {
	m := NewMachine(testDelay)
	if err := m.Start(testPayload(3)); err != nil {
		t.Fatal(err)
	}

	// Duplicate answer events during the delay window must not stack
	// advances.
	m.Answer(0, 0)
	m.Answer(0, 0)
	m.Answer(0, 1)

	waitForIndex(t, m, 1)

	// Give any stray duplicate timer a chance to fire, then confirm we did
	// not skip to question 2.
	time.Sleep(5 * testDelay)
	if got := m.CurrentIndex(); got != 1 {
		t.Errorf("expected to stay on index 1, got %d", got)
	}
}

func TestAutoAdvanceThroughLastQuestionFinishes(t *testing.T) {
	m := NewMachine(testDelay)
	if err := m.Start(testPayload(2)); err != nil {
		t.Fatal(err)
	}

	m.Answer(0, 0) // correct (index 0)
	waitForIndex(t, m, 1)
	m.Answer(1, 1) // correct (index 1)
	waitForState(t, m, StateFinished)

	result, ok := m.Result()
	if !ok {
		t.Fatal("expected a result at finished")
	}
	if result.Score != 2 {
		t.Errorf("expected score 2, got %d", result.Score)
	}
	if result.CompletedAt.IsZero() {
		t.Error("expected completion timestamp")
	}
}

func TestRestartCancelsPendingAdvance(t *testing.T) {
	m := NewMachine(testDelay)
	if err := m.Start(testPayload(3)); err != nil {
		t.Fatal(err)
	}
	m.Answer(0, 0)

	// Reset before the timer fires; the stale advance must not move the
	// new quiz off question 0.
	if err := m.Start(testPayload(3)); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * testDelay)

	if got := m.CurrentIndex(); got != 0 {
		t.Errorf("stale timer advanced the new quiz to index %d", got)
	}
	if q := m.CurrentQuestion(); q.Answered() {
		t.Error("new quiz must start unanswered")
	}
}

func TestFinishCancelsPendingAdvance(t *testing.T) {
	m := NewMachine(testDelay)
	if err := m.Start(testPayload(3)); err != nil {
		t.Fatal(err)
	}
	m.Answer(0, 0)
	m.Finish()

	completedAt := func() time.Time {
		result, ok := m.Result()
		if !ok {
			t.Fatal("expected result after finish")
		}
		return result.CompletedAt
	}()

	time.Sleep(5 * testDelay)
	result, _ := m.Result()
	if !result.CompletedAt.Equal(completedAt) {
		t.Error("stale timer mutated a finished session")
	}
}

// The reference walkthrough: 3-question easy quiz, question 1 answered
// correctly, question 2 incorrectly, manual finish before question 3.
func TestEarlyFinishScenario(t *testing.T) {
	m := NewMachine(testDelay)
	payload := testPayload(3)
	payload.Questions[0].CorrectOptionIndex = 2
	payload.Questions[1].CorrectOptionIndex = 1
	if err := m.Start(payload); err != nil {
		t.Fatal(err)
	}

	m.Answer(0, 2) // correct
	waitForIndex(t, m, 1)
	m.Answer(1, 0) // incorrect
	waitForIndex(t, m, 2)

	m.Finish()

	result, ok := m.Result()
	if !ok {
		t.Fatal("expected a result")
	}
	if result.Score != 1 {
		t.Errorf("expected score 1, got %d", result.Score)
	}
	if len(result.Questions) != 3 {
		t.Fatalf("expected 3 answered questions, got %d", len(result.Questions))
	}
	if result.Questions[2].UserOptionIndex != models.Unanswered {
		t.Errorf("question 3 should stay unanswered, got %d", result.Questions[2].UserOptionIndex)
	}
	if result.Questions[2].IsCorrect {
		t.Error("unanswered question must count as incorrect")
	}
	if result.Language != "en" {
		t.Errorf("expected language en, got %q", result.Language)
	}
}

func TestScoreMatchesCommittedAnswers(t *testing.T) {
	m := NewMachine(testDelay)
	if err := m.Start(testPayload(4)); err != nil {
		t.Fatal(err)
	}

	if m.Score() != 0 {
		t.Errorf("fresh session should score 0, got %d", m.Score())
	}

	m.Answer(0, 0) // correct
	if m.Score() != 1 {
		t.Errorf("score should reflect committed answers mid-session, got %d", m.Score())
	}

	waitForIndex(t, m, 1)
	m.Answer(1, 3) // incorrect (correct is 1)
	waitForIndex(t, m, 2)
	m.Answer(2, 2) // correct
	m.Finish()

	result, _ := m.Result()
	want := 0
	for _, q := range result.Questions {
		if q.UserOptionIndex == q.CorrectOptionIndex && q.Answered() {
			want++
		}
	}
	if result.Score != want {
		t.Errorf("score %d does not match recomputed %d", result.Score, want)
	}
	if result.Score != 2 {
		t.Errorf("expected score 2, got %d", result.Score)
	}
}

func TestResultUnavailableBeforeFinished(t *testing.T) {
	m := NewMachine(testDelay)
	if _, ok := m.Result(); ok {
		t.Error("idle machine must not produce a result")
	}
	if err := m.Start(testPayload(2)); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Result(); ok {
		t.Error("active machine must not produce a result")
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(testDelay)

	m := r.Create("s1")
	if err := m.Start(testPayload(2)); err != nil {
		t.Fatal(err)
	}

	got, ok := r.Get("s1")
	if !ok || got != m {
		t.Fatal("expected to retrieve the created machine")
	}

	r.Remove("s1")
	if _, ok := r.Get("s1"); ok {
		t.Error("removed session still retrievable")
	}
}
