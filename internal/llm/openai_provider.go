package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/auralis-music/auralis-api/internal/logger"
)

const (
	providerNameOpenAI = "openai"

	// Reasoning effort levels
	reasoningNone    = "none"
	reasoningMinimal = "minimal"
	reasoningLow     = "low"
	reasoningMedium  = "medium"
	reasoningHigh    = "high"
)

// modelsWithReasoning lists models that accept a reasoning parameter.
// Models like gpt-4.1-mini reject it.
var modelsWithReasoning = map[string]bool{
	"gpt-5":      true,
	"gpt-5-mini": true,
	"gpt-5-nano": true,
	"gpt-5.1":    true,
	"gpt-5.2":    true,
}

// OpenAIProvider implements the Provider interface using OpenAI's
// Responses API with JSON Schema structured output.
type OpenAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// NextTurn runs one interview turn against the Responses API.
func (p *OpenAIProvider) NextTurn(ctx context.Context, request *InterviewRequest) (*InterviewResponse, error) {
	startTime := time.Now()

	transaction := sentry.StartTransaction(ctx, "openai.interview_turn")
	defer transaction.Finish()
	transaction.SetTag("model", request.Model)
	transaction.SetTag("provider", providerNameOpenAI)

	params := p.buildRequestParams(request)

	span := transaction.StartChild("openai.api_call")
	resp, err := p.client.Responses.New(ctx, params)
	span.Finish()

	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	parsed, err := ParseInterviewOutput(resp.OutputText())
	if err != nil {
		transaction.SetTag("success", "false")
		sentry.CaptureException(err)
		return nil, err
	}
	parsed.Usage = resp.Usage

	logger.Debug("OpenAI interview turn completed", logger.Fields{
		"model":       request.Model,
		"duration_ms": time.Since(startTime).Milliseconds(),
		"done":        parsed.Done,
	})

	transaction.SetTag("success", "true")
	return parsed, nil
}

func (p *OpenAIProvider) buildRequestParams(request *InterviewRequest) responses.ResponseNewParams {
	var inputItems responses.ResponseInputParam
	for _, ex := range request.Exchanges {
		if ex.Question != "" {
			inputItems = append(inputItems,
				responses.ResponseInputItemParamOfMessage(ex.Question, responses.EasyInputMessageRoleAssistant),
			)
		}
		if ex.Answer != "" {
			inputItems = append(inputItems,
				responses.ResponseInputItemParamOfMessage(ex.Answer, responses.EasyInputMessageRoleUser),
			)
		}
	}

	schema := InterviewSchema()
	params := responses.ResponseNewParams{
		Model: request.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
		Instructions: openai.String(request.SystemPrompt),
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(schema.Name, schema.Schema),
		},
	}

	if modelsWithReasoning[request.Model] {
		params.Reasoning = shared.ReasoningParam{
			Effort: reasoningEffortFor(request.ReasoningMode),
		}
	}

	return params
}

func reasoningEffortFor(mode string) shared.ReasoningEffort {
	switch mode {
	case reasoningMinimal, reasoningLow:
		return responses.ReasoningEffortLow
	case reasoningMedium:
		return responses.ReasoningEffortMedium
	case reasoningHigh:
		return responses.ReasoningEffortHigh
	case reasoningNone:
		return shared.ReasoningEffort(reasoningNone)
	default:
		// Interview turns are latency sensitive.
		return shared.ReasoningEffort(reasoningNone)
	}
}
