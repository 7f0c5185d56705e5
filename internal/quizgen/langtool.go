package quizgen

import (
	"context"
	"fmt"
	"strings"
)

// LanguageTools are the two narrow tools the pipeline interleaves with
// generation: script detection on the image, and text translation.
type LanguageTools interface {
	DetectLanguage(ctx context.Context, imageDataURI string) (string, error)
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// ChatLanguageTools implements both tools against the same chat-completions
// endpoint the generator uses, with plain-text prompts.
type ChatLanguageTools struct {
	gen *ChatGenerator
}

func NewChatLanguageTools(gen *ChatGenerator) *ChatLanguageTools {
	return &ChatLanguageTools{gen: gen}
}

func (t *ChatLanguageTools) DetectLanguage(ctx context.Context, imageDataURI string) (string, error) {
	request := chatRequest{
		Model: t.gen.Model,
		Messages: []chatMessage{
			{Role: "system", Content: []contentPart{{Type: "text", Text: "Identify the dominant language of any text visible in the image. Answer with a single ISO 639-1 code, nothing else. If the image contains no text, answer \"en\"."}}},
			{Role: "user", Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: imageDataURI}},
			}},
		},
	}

	content, err := t.gen.sendChatRequest(ctx, request)
	if err != nil {
		return "", err
	}

	code := strings.ToLower(strings.Trim(strings.TrimSpace(content), `"'.`))
	if len(code) < 2 || len(code) > 8 {
		return "", fmt.Errorf("unusable language code %q", code)
	}
	return code, nil
}

func (t *ChatLanguageTools) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	request := chatRequest{
		Model: t.gen.Model,
		Messages: []chatMessage{
			{Role: "system", Content: []contentPart{{Type: "text", Text: fmt.Sprintf("Translate the user's text into the language with ISO 639-1 code %q. Answer with the translation only, no commentary.", targetLanguage)}}},
			{Role: "user", Content: []contentPart{{Type: "text", Text: text}}},
		},
	}

	content, err := t.gen.sendChatRequest(ctx, request)
	if err != nil {
		return "", err
	}

	translated := strings.TrimSpace(content)
	if translated == "" {
		return "", fmt.Errorf("empty translation for %q", text)
	}
	return translated, nil
}
