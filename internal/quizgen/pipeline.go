package quizgen

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/Pushpak2001/quzicam/internal/models"
)

// DefaultNativeLanguages are the two codes the generator handles reliably
// without a translation pass: English and Hindi.
var DefaultNativeLanguages = []string{"en", "hi"}

// Pipeline orchestrates detection, structured generation and the conditional
// translation pass into one all-or-nothing Generate call.
type Pipeline struct {
	Generator Generator
	Tools     LanguageTools

	// nativeLanguages is the allowlist of codes that skip translation.
	nativeLanguages map[string]bool
}

func NewPipeline(gen Generator, tools LanguageTools, nativeLanguages []string) *Pipeline {
	if len(nativeLanguages) == 0 {
		nativeLanguages = DefaultNativeLanguages
	}
	native := make(map[string]bool, len(nativeLanguages))
	for _, code := range nativeLanguages {
		native[code] = true
	}
	return &Pipeline{Generator: gen, Tools: tools, nativeLanguages: native}
}

// Generate runs the full image-to-quiz pipeline. Detection always precedes
// generation; generation is never attempted without a known target language.
// Any failure aborts the whole call: no partial payload is ever returned.
func (p *Pipeline) Generate(ctx context.Context, req *models.QuizRequest) (*models.QuizPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	imageURI := req.DataURI()

	language, err := p.Tools.DetectLanguage(ctx, imageURI)
	if err != nil {
		return nil, &models.ToolError{Tool: "detect_language", Err: err}
	}
	log.Printf("detected language %q for quiz generation", language)

	questions, err := p.Generator.GenerateQuiz(ctx, GenerationInput{
		ImageDataURI:  imageURI,
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
		Language:      language,
	})
	if err != nil {
		return nil, err
	}
	if len(questions) != req.QuestionCount {
		return nil, &models.GenerationError{
			Reason: "question count mismatch",
			Err:    fmt.Errorf("expected %d questions, model returned %d", req.QuestionCount, len(questions)),
		}
	}

	if !p.nativeLanguages[language] {
		questions, err = p.translateAll(ctx, questions, language)
		if err != nil {
			return nil, err
		}
	}

	return &models.QuizPayload{Questions: questions, DetectedLanguage: language}, nil
}

// translateAll re-translates every question text and option into the target
// language. The generator is unreliable at producing non-native scripts
// directly, so this pass patches its output rather than trusting it.
// Per-question work runs concurrently; the first failure aborts everything
// because a mixed-language payload is worse than an outright failure.
func (p *Pipeline) translateAll(ctx context.Context, questions []models.Question, language string) ([]models.Question, error) {
	translated := make([]models.Question, len(questions))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i := range questions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			q := questions[i]
			text, err := p.Tools.Translate(ctx, q.Text, language)
			if err != nil {
				setErr(&models.ToolError{Tool: "translate", Err: err})
				return
			}

			options := make([]string, len(q.Options))
			for j, opt := range q.Options {
				out, err := p.Tools.Translate(ctx, opt, language)
				if err != nil {
					setErr(&models.ToolError{Tool: "translate", Err: err})
					return
				}
				options[j] = out
			}

			translated[i] = models.Question{
				Text:               text,
				Options:            options,
				CorrectOptionIndex: q.CorrectOptionIndex,
			}
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return translated, nil
}
