package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"

	"github.com/auralis-music/auralis-api/internal/logger"
)

const (
	providerNameGemini = "gemini"
	mimeTypeJSON       = "application/json"
)

// GeminiProvider implements the Provider interface using Google's
// Gemini API.
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// NextTurn runs one interview turn with JSON structured output.
func (p *GeminiProvider) NextTurn(ctx context.Context, request *InterviewRequest) (*InterviewResponse, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "gemini.interview_turn")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameGemini)

	contents := p.buildContents(request.Exchanges)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		},
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema:   interviewGeminiSchema(),
	}

	span := transaction.StartChild("gemini.api_call")
	result, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	parsed, err := ParseInterviewOutput(result.Text())
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}
	parsed.Usage = result.UsageMetadata

	logger.Debug("Gemini interview turn completed", logger.Fields{
		"model":       request.Model,
		"duration_ms": time.Since(startTime).Milliseconds(),
		"done":        parsed.Done,
	})

	transaction.SetTag("success", "true")
	return parsed, nil
}

func (p *GeminiProvider) buildContents(exchanges []Exchange) []*genai.Content {
	var contents []*genai.Content
	for _, ex := range exchanges {
		if ex.Question != "" {
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: ex.Question}},
			})
		}
		if ex.Answer != "" {
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: ex.Answer}},
			})
		}
	}
	return contents
}

// interviewGeminiSchema mirrors InterviewSchema in Gemini's native
// schema type. Gemini does not accept raw JSON Schema maps.
func interviewGeminiSchema() *genai.Schema {
	updateProps := make(map[string]*genai.Schema, len(fieldBounds))
	for _, fb := range fieldBounds {
		updateProps[fb.name] = &genai.Schema{Type: genai.TypeInteger}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"updates": {
				Type:       genai.TypeObject,
				Properties: updateProps,
			},
			"done": {Type: genai.TypeBoolean},
		},
		Required: []string{"question", "updates", "done"},
	}
}
