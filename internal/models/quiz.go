package models

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const (
	MinQuestionCount   = 1
	MaxQuestionCount   = 10
	OptionsPerQuestion = 4

	// Unanswered marks a question the user never picked an option for.
	Unanswered = -1
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuizRequest is the input to the generation pipeline. The image travels as
// base64 payload plus its MIME type, so the caller can feed it from a file
// picker or a camera frame alike.
type QuizRequest struct {
	ImageMIME     string     `json:"image_mime" binding:"required"`
	ImageData     string     `json:"image_data" binding:"required"`
	QuestionCount int        `json:"question_count"`
	Difficulty    Difficulty `json:"difficulty"`
}

// Validate rejects malformed requests before any network call is made.
// Out-of-range question counts are an error, not silently clamped.
func (r *QuizRequest) Validate() error {
	if r.QuestionCount < MinQuestionCount || r.QuestionCount > MaxQuestionCount {
		return &ValidationError{
			Field:  "question_count",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinQuestionCount, MaxQuestionCount, r.QuestionCount),
		}
	}
	if !r.Difficulty.Valid() {
		return &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("unknown difficulty %q", r.Difficulty)}
	}
	if !strings.HasPrefix(r.ImageMIME, "image/") {
		return &ValidationError{Field: "image_mime", Reason: fmt.Sprintf("not an image MIME type: %q", r.ImageMIME)}
	}
	if r.ImageData == "" {
		return &ValidationError{Field: "image_data", Reason: "empty image payload"}
	}
	if _, err := base64.StdEncoding.DecodeString(r.ImageData); err != nil {
		return &ValidationError{Field: "image_data", Reason: "not valid base64"}
	}
	return nil
}

// DataURI renders the image as a self-contained data URI for vision prompts.
func (r *QuizRequest) DataURI() string {
	return "data:" + r.ImageMIME + ";base64," + r.ImageData
}

// Question is immutable once produced by the pipeline.
type Question struct {
	Text               string   `bson:"text" json:"text"`
	Options            []string `bson:"options" json:"options"`
	CorrectOptionIndex int      `bson:"correct_option_index" json:"correct_option_index"`
}

// Validate checks the shape the generator must guarantee: exactly four
// options and a correct index pointing at one of them.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("empty question text")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("expected %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("option %d is empty", i)
		}
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= OptionsPerQuestion {
		return fmt.Errorf("correct option index %d out of range", q.CorrectOptionIndex)
	}
	return nil
}

// AnsweredQuestion wraps a Question with the user's pick. UserOptionIndex is
// Unanswered until the first Answer call; IsCorrect is computed at answer
// time and never recomputed.
type AnsweredQuestion struct {
	Question        `bson:",inline"`
	UserOptionIndex int  `bson:"user_option_index" json:"user_option_index"`
	IsCorrect       bool `bson:"is_correct" json:"is_correct"`
}

func (a *AnsweredQuestion) Answered() bool {
	return a.UserOptionIndex != Unanswered
}

// QuizPayload is the pipeline's output and the session machine's input.
type QuizPayload struct {
	Questions        []Question `json:"questions"`
	DetectedLanguage string     `json:"detected_language"`
}

func (p *QuizPayload) Validate() error {
	if len(p.Questions) == 0 {
		return fmt.Errorf("payload has no questions")
	}
	if p.DetectedLanguage == "" {
		return fmt.Errorf("payload has no detected language")
	}
	for i := range p.Questions {
		if err := p.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// SessionResult is created exactly once when a session reaches Finished.
type SessionResult struct {
	ID          string             `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string             `bson:"user_id" json:"user_id,omitempty"`
	Questions   []AnsweredQuestion `bson:"questions" json:"questions"`
	Score       int                `bson:"score" json:"score"`
	Language    string             `bson:"language" json:"language"`
	CompletedAt time.Time          `bson:"completed_at" json:"completed_at"`
}
