package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Pushpak2001/quzicam/internal/models"
)

// Generator turns an image into quiz questions already written in the target
// language. Implementations are injected into the pipeline so tests can
// substitute doubles.
type Generator interface {
	GenerateQuiz(ctx context.Context, in GenerationInput) ([]models.Question, error)
}

// GenerationInput carries everything the structured generation call needs.
type GenerationInput struct {
	ImageDataURI  string
	QuestionCount int
	Difficulty    models.Difficulty
	Language      string
}

// ChatGenerator calls an OpenAI-compatible /chat/completions endpoint with a
// vision message and a JSON-constrained prompt.
type ChatGenerator struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Model   string
}

func NewChatGenerator(baseURL, apiKey, model string) *ChatGenerator {
	return &ChatGenerator{
		Client: &http.Client{
			Timeout: 120 * time.Second, // LLM responses can be slow
		},
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generatedQuiz is the schema the model is instructed to emit.
type generatedQuiz struct {
	Questions []struct {
		Text               string   `json:"text"`
		Options            []string `json:"options"`
		CorrectOptionIndex int      `json:"correct_option_index"`
	} `json:"questions"`
}

const quizSystemPrompt = `You are a quiz author. Given a photograph, produce multiple-choice questions about its visible content. Respond with JSON only, matching exactly:
{"questions":[{"text":"...","options":["...","...","...","..."],"correct_option_index":0}]}
Every question has exactly 4 options and correct_option_index is an integer from 0 to 3.`

func (g *ChatGenerator) GenerateQuiz(ctx context.Context, in GenerationInput) ([]models.Question, error) {
	userPrompt := fmt.Sprintf(
		"Create exactly %d %s-difficulty questions about this image. Write all question text and options in the language with code %q.",
		in.QuestionCount, in.Difficulty, in.Language,
	)

	request := chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: []contentPart{{Type: "text", Text: quizSystemPrompt}}},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: in.ImageDataURI}},
			}},
		},
		Stream:         false,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	content, err := g.sendChatRequest(ctx, request)
	if err != nil {
		return nil, &models.GenerationError{Reason: "model request failed", Err: err}
	}

	questions, err := decodeQuizJSON(content)
	if err != nil {
		return nil, &models.GenerationError{Reason: "model output failed schema validation", Err: err}
	}
	return questions, nil
}

func (g *ChatGenerator) sendChatRequest(ctx context.Context, request chatRequest) (string, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" && g.APIKey != "none" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("LLM API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty choices in model response")
	}

	log.Printf("LLM response received (%d bytes)", len(response.Choices[0].Message.Content))
	return response.Choices[0].Message.Content, nil
}

// decodeQuizJSON parses the model's JSON answer and enforces the question
// schema. Some models wrap JSON in markdown fences even when told not to.
func decodeQuizJSON(content string) ([]models.Question, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw generatedQuiz
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("not valid JSON: %v", err)
	}
	if len(raw.Questions) == 0 {
		return nil, fmt.Errorf("no questions in model output")
	}

	questions := make([]models.Question, 0, len(raw.Questions))
	for i, q := range raw.Questions {
		question := models.Question{
			Text:               q.Text,
			Options:            q.Options,
			CorrectOptionIndex: q.CorrectOptionIndex,
		}
		if err := question.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %v", i, err)
		}
		questions = append(questions, question)
	}
	return questions, nil
}
