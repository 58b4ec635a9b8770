package embedded

import (
	_ "embed"
)

// Embed interview prompt data files
//
//go:embed data/interviewer_prompt.txt
var InterviewerPromptTxt []byte

//go:embed data/profile_field_guide.txt
var ProfileFieldGuideTxt []byte
