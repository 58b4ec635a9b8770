// Package services holds the application services that orchestrate
// the interview and recommendation pipelines over the lower layers.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/responses"

	"github.com/auralis-music/auralis-api/internal/llm"
	"github.com/auralis-music/auralis-api/internal/logger"
	"github.com/auralis-music/auralis-api/internal/metrics"
	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/observability"
	"github.com/auralis-music/auralis-api/internal/prompt"
	"github.com/auralis-music/auralis-api/internal/session"
)

// InterviewService conducts preference interviews: it asks the next
// question through an LLM provider, extracts profile updates from each
// answer, and records every turn on the session.
type InterviewService struct {
	tracker  *session.Tracker
	provider llm.Provider
	builder  *prompt.Builder
	model    string
	cw       *metrics.Client
}

// NewInterviewService wires the interview conductor.
func NewInterviewService(tracker *session.Tracker, provider llm.Provider, model string, cw *metrics.Client) *InterviewService {
	return &InterviewService{
		tracker:  tracker,
		provider: provider,
		builder:  prompt.NewPromptBuilder(),
		model:    model,
		cw:       cw,
	}
}

// TurnResult is what one interview turn produced.
type TurnResult struct {
	Session  *models.ConversationSession `json:"session"`
	Question string                      `json:"question"`
	Done     bool                        `json:"done"`
}

// Start creates a session and asks the opening question.
func (s *InterviewService) Start(ctx context.Context, userID uint) (*TurnResult, error) {
	created, err := s.tracker.Create(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.runTurn(ctx, created, "")
	if err != nil {
		return nil, err
	}

	updated, err := s.tracker.RecordTurn(ctx, created.ID, "", resp.Question, resp.Updates)
	if err != nil {
		return nil, err
	}
	return &TurnResult{Session: updated, Question: resp.Question, Done: resp.Done}, nil
}

// HandleAnswer processes one listener answer: field extraction, the
// next question, and the persisted turn.
func (s *InterviewService) HandleAnswer(ctx context.Context, sessionID, answer string) (*TurnResult, error) {
	if answer == "" {
		return nil, fmt.Errorf("services: empty answer")
	}

	current, err := s.tracker.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := s.runTurn(ctx, current, answer)
	if err != nil {
		return nil, err
	}

	updated, err := s.tracker.RecordTurn(ctx, sessionID, answer, resp.Question, resp.Updates)
	if err != nil {
		return nil, err
	}

	logger.Info("Interview turn recorded", logger.Fields{
		"session_id":      sessionID,
		"questions_asked": updated.QuestionsAsked,
		"confidence":      updated.Profile.Confidence,
		"ready":           updated.Ready(),
	})
	return &TurnResult{Session: updated, Question: resp.Question, Done: resp.Done}, nil
}

// runTurn calls the provider with the conversation so far plus the
// pending answer, tracing the call when Langfuse is enabled.
func (s *InterviewService) runTurn(ctx context.Context, sess *models.ConversationSession, answer string) (*llm.InterviewResponse, error) {
	exchanges := exchangesFromSession(sess)
	if answer != "" {
		exchanges = append(exchanges, llm.Exchange{Answer: answer})
	}

	req := &llm.InterviewRequest{
		Model:          s.model,
		SystemPrompt:   s.builder.BuildInterviewPrompt(llm.KnownFields(&sess.Profile), sess.QuestionsAsked),
		Exchanges:      exchanges,
		Profile:        &sess.Profile,
		QuestionsAsked: sess.QuestionsAsked,
	}

	trace := observability.GetClient().StartTrace(ctx, "interview_turn", map[string]interface{}{
		"session_id": sess.ID,
		"provider":   s.provider.Name(),
	})
	gen := trace.Generation("next_question", map[string]interface{}{
		"questions_asked": sess.QuestionsAsked,
	})

	start := time.Now()
	resp, err := s.provider.NextTurn(ctx, req)
	duration := time.Since(start)

	if s.cw != nil {
		s.cw.RecordInterviewTurn(s.provider.Name(), duration, err == nil)
	}

	if err != nil {
		gen.SetLevel("ERROR")
		gen.Finish()
		trace.Finish()
		logger.Error("Interview turn failed", err, logger.Fields{
			"session_id": sess.ID,
			"provider":   s.provider.Name(),
		})
		return nil, err
	}

	if usage, ok := resp.Usage.(responses.ResponseUsage); ok {
		gen.LogInterviewTurn(s.model, exchangeLog(exchanges), resp.RawOutput, usage,
			map[string]interface{}{"done": resp.Done})
		if s.cw != nil {
			s.cw.RecordTokenUsage(s.model,
				int(usage.TotalTokens), int(usage.InputTokens), int(usage.OutputTokens))
		}
	} else {
		gen.Output(resp.RawOutput)
		gen.Metadata(map[string]interface{}{"done": resp.Done})
	}
	gen.Finish()
	trace.Finish()
	return resp, nil
}

// exchangeLog flattens exchanges into the role/content form the
// tracing dashboard renders.
func exchangeLog(exchanges []llm.Exchange) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, 2*len(exchanges))
	for _, ex := range exchanges {
		if ex.Question != "" {
			out = append(out, map[string]interface{}{"role": "assistant", "content": ex.Question})
		}
		if ex.Answer != "" {
			out = append(out, map[string]interface{}{"role": "user", "content": ex.Answer})
		}
	}
	return out
}

// exchangesFromSession pairs the stored messages back into
// question/answer exchanges. Messages alternate assistant/user; an
// unanswered trailing question becomes an exchange with an empty
// answer.
func exchangesFromSession(sess *models.ConversationSession) []llm.Exchange {
	var out []llm.Exchange
	var pending *llm.Exchange
	for _, msg := range sess.Exchanges {
		switch msg.Role {
		case "assistant":
			if pending != nil {
				out = append(out, *pending)
			}
			pending = &llm.Exchange{Question: msg.Message}
		case "user":
			if pending == nil {
				pending = &llm.Exchange{}
			}
			pending.Answer = msg.Message
			out = append(out, *pending)
			pending = nil
		}
	}
	if pending != nil {
		out = append(out, *pending)
	}
	return out
}
