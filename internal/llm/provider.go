package llm

import (
	"context"

	"github.com/auralis-music/auralis-api/internal/models"
)

// Provider runs one interview turn against an LLM backend.
// All providers MUST support structured output (JSON Schema) so the
// extracted profile updates parse reliably.
type Provider interface {
	// NextTurn takes the conversation so far plus the listener's latest
	// answer and returns the next question together with any profile
	// fields the answer revealed.
	NextTurn(ctx context.Context, request *InterviewRequest) (*InterviewResponse, error)

	// Name returns the provider name (e.g. "openai", "gemini").
	Name() string
}

// InterviewRequest contains all parameters needed for one turn.
type InterviewRequest struct {
	Model         string
	SystemPrompt  string
	ReasoningMode string

	// Exchanges is the conversation history, oldest first. The final
	// entry holds the listener's latest answer with an empty Question.
	Exchanges []Exchange

	// Profile is the interview state so far. Providers use it to avoid
	// re-asking answered dimensions.
	Profile *models.Profile

	QuestionsAsked int
}

// Exchange is one question/answer pair.
type Exchange struct {
	Question string
	Answer   string
}

// InterviewResponse is the parsed result of one turn.
type InterviewResponse struct {
	// Question is the next question to put to the listener. Empty when
	// the provider judged the interview complete.
	Question string

	// Updates holds the profile fields extracted from the latest
	// answer. Fields the answer did not touch stay Unknown.
	Updates *models.Profile

	// Done is set when the provider decided no further questions are
	// worth asking.
	Done bool

	RawOutput string `json:"-"`
	Usage     any    `json:"usage"`
}
