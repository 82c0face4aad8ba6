package llm

import (
	"fmt"
	"strings"
)

const defaultApplicantName = "Applicant"

// UnclearInputReply is the sentence the model is told to answer with when the
// input cannot be turned into an application.
const UnclearInputReply = "Application details are missing or unclear. Please try again with more information."

// BuildApplicationPrompt renders the instructions for a bilingual formal
// application built from the user's transcript.
func BuildApplicationPrompt(transcript, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultApplicantName
	}
	return fmt.Sprintf(`
You are an assistant that writes formal applications.

The user input may be in Odia or English.
If the input is unclear, missing, or too short to understand, say: "%s"
If the user hasn't specified the type of application, write a formal leave application.

Write two versions of the application in JSON format:
- One in English
- One in Odia

Each version should be returned as a **Markdown-formatted string**. Use appropriate headers and spacing so it can be used for exporting or rendering.

Each application should include proper headings like "To", "Subject", salutation, body, and closing. Do not use placeholders like "your name", "date", "address", etc. Only include date or address if explicitly mentioned in the user input.

The applicant's name is: %s. Use this name naturally and appropriately in both versions.

User Input: %s
`, UnclearInputReply, name, transcript)
}

// IsUnclearReply reports whether generated text is the model's fallback for
// unusable input.
func IsUnclearReply(text string) bool {
	return strings.Contains(text, "Application details are missing or unclear")
}
