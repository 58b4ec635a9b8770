// Package prompt composes the interviewer system prompt from embedded
// prompt data plus per-session state.
package prompt

import (
	"strings"

	"github.com/auralis-music/auralis-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetInterviewerPrompt loads the base interviewer system prompt.
func (l *Loader) GetInterviewerPrompt() string {
	return strings.TrimSpace(string(embedded.InterviewerPromptTxt))
}

// GetFieldGuide loads the field extraction guide appended to every
// interview prompt.
func (l *Loader) GetFieldGuide() string {
	return strings.TrimSpace(string(embedded.ProfileFieldGuideTxt))
}
