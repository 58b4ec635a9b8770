package prompt

import (
	"fmt"
	"strings"
)

// Builder builds system prompts for the interview agent.
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder() *Builder {
	return &Builder{loader: NewPromptLoader()}
}

// BuildInterviewPrompt composes the interviewer system prompt. The
// known field names are listed so the model does not re-ask answered
// dimensions.
func (b *Builder) BuildInterviewPrompt(knownFields []string, questionsAsked int) string {
	var sb strings.Builder
	sb.WriteString(b.loader.GetInterviewerPrompt())
	sb.WriteString("\n\n")
	sb.WriteString(b.loader.GetFieldGuide())

	sb.WriteString(fmt.Sprintf("\n\nQuestions asked so far: %d.", questionsAsked))
	if len(knownFields) > 0 {
		sb.WriteString("\nDimensions already known, do not ask about these again: ")
		sb.WriteString(strings.Join(knownFields, ", "))
		sb.WriteString(".")
	} else {
		sb.WriteString("\nNothing is known about this listener yet.")
	}
	return sb.String()
}
