// Package advice fetches a short calming phrase to show next to the
// breathing circle
package advice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/ayoisaiah/zenbreath/internal/apperr"
)

// DefaultModel is the Gemini model asked for advice.
const DefaultModel = "gemini-2.5-flash"

const prompt = `Write a short, calming phrase for a breathing meditation in ` +
	`English (at most 20 words). Respond with JSON of the form ` +
	`{"text": "phrase", "mood": "one-word mood"}.`

var (
	errMissingAPIKey = &apperr.Error{
		Message: "a Gemini API key is required",
	}

	errEmptyAdvice = &apperr.Error{
		Message: "the model returned no advice",
	}

	errMalformedAdvice = &apperr.Error{
		Message: "the model returned malformed advice",
	}
)

var (
	// Offline is shown when no advisor is configured.
	Offline = Advice{
		Text: "Breathe deeply. The present moment is all you have.",
		Mood: "Calm",
	}

	// Unavailable is shown when the advisor fails.
	Unavailable = Advice{
		Text: "Focus on your breath. Breathe in calm, breathe out stress.",
		Mood: "Balance",
	}
)

// Advice is a phrase and the mood it evokes.
type Advice struct {
	Text string `json:"text"`
	Mood string `json:"mood"`
}

// Advisor produces advice.
type Advisor interface {
	Advise(ctx context.Context) (Advice, error)
}

// Fetch returns advice from a, or a static phrase when a is nil or fails.
// It never returns an error because advice is decorative.
func Fetch(ctx context.Context, a Advisor) Advice {
	if a == nil {
		return Offline
	}

	adv, err := a.Advise(ctx)
	if err != nil {
		slog.Warn("advice unavailable", slog.Any("error", err))
		return Unavailable
	}

	return adv
}

type generator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GenAI asks a Gemini model for advice.
type GenAI struct {
	models generator
	model  string
}

// NewGenAI returns an advisor backed by the Gemini API.
func NewGenAI(ctx context.Context, apiKey, model string) (*GenAI, error) {
	if apiKey == "" {
		return nil, errMissingAPIKey
	}

	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GenAI{
		models: client.Models,
		model:  model,
	}, nil
}

func (g *GenAI) Advise(ctx context.Context) (Advice, error) {
	resp, err := g.models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return Advice{}, err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Advice{}, errEmptyAdvice
	}

	var adv Advice

	if err := json.Unmarshal([]byte(text), &adv); err != nil {
		return Advice{}, errMalformedAdvice.Wrap(err)
	}

	if strings.TrimSpace(adv.Text) == "" {
		return Advice{}, errEmptyAdvice
	}

	return adv, nil
}
