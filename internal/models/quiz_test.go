package models

import (
	"encoding/base64"
	"testing"
)

func validRequest() *QuizRequest {
	return &QuizRequest{
		ImageMIME:     "image/jpeg",
		ImageData:     base64.StdEncoding.EncodeToString([]byte("fake image bytes")),
		QuestionCount: 3,
		Difficulty:    DifficultyEasy,
	}
}

func TestQuizRequestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*QuizRequest)
		wantErr bool
	}{
		{"valid easy", func(r *QuizRequest) {}, false},
		{"valid medium", func(r *QuizRequest) { r.Difficulty = DifficultyMedium }, false},
		{"min count", func(r *QuizRequest) { r.QuestionCount = 1 }, false},
		{"max count", func(r *QuizRequest) { r.QuestionCount = 10 }, false},
		{"count zero", func(r *QuizRequest) { r.QuestionCount = 0 }, true},
		{"count eleven", func(r *QuizRequest) { r.QuestionCount = 11 }, true},
		{"count negative", func(r *QuizRequest) { r.QuestionCount = -2 }, true},
		{"unknown difficulty", func(r *QuizRequest) { r.Difficulty = "brutal" }, true},
		{"non-image mime", func(r *QuizRequest) { r.ImageMIME = "application/pdf" }, true},
		{"empty image", func(r *QuizRequest) { r.ImageData = "" }, true},
		{"bad base64", func(r *QuizRequest) { r.ImageData = "!!not-base64!!" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)

			err := req.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
			if tc.wantErr {
				if _, ok := err.(*ValidationError); !ok {
					t.Errorf("expected *ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestQuizRequestDataURI(t *testing.T) {
	req := validRequest()
	uri := req.DataURI()
	want := "data:image/jpeg;base64," + req.ImageData
	if uri != want {
		t.Errorf("expected %q, got %q", want, uri)
	}
}

func TestQuestionValidate(t *testing.T) {
	testCases := []struct {
		name     string
		question Question
		wantErr  bool
	}{
		{
			"valid",
			Question{Text: "What is shown?", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 2},
			false,
		},
		{
			"three options",
			Question{Text: "q", Options: []string{"a", "b", "c"}, CorrectOptionIndex: 0},
			true,
		},
		{
			"five options",
			Question{Text: "q", Options: []string{"a", "b", "c", "d", "e"}, CorrectOptionIndex: 0},
			true,
		},
		{
			"empty text",
			Question{Text: "  ", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 0},
			true,
		},
		{
			"empty option",
			Question{Text: "q", Options: []string{"a", "", "c", "d"}, CorrectOptionIndex: 0},
			true,
		},
		{
			"index too high",
			Question{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: 4},
			true,
		},
		{
			"index negative",
			Question{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectOptionIndex: -1},
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.question.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAnsweredQuestionAnswered(t *testing.T) {
	q := AnsweredQuestion{UserOptionIndex: Unanswered}
	if q.Answered() {
		t.Error("expected fresh question to be unanswered")
	}
	q.UserOptionIndex = 0
	if !q.Answered() {
		t.Error("expected question with option 0 to count as answered")
	}
}
