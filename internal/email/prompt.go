package email

import (
	"fmt"

	"github.com/fixora-ai/fixora/internal/llm"
)

const (
	systemPrompt = "You are an expert professional communication coach. Improve emails to be clear, professional, and effective for their intended purpose."
	maxTokens    = 1500
)

const userPromptFormat = `
Please improve the following email for %[1]s. Provide your response in the following JSON format:

{
  "improvedEmail": "the improved email content",
  "explanation": "explanation of what was improved and why",
  "improvements": ["improvement1", "improvement2", ...],
  "tone": "description of the tone used",
  "professionalismScore": <number between 0-100>,
  "clarityScore": <number between 0-100>,
  "effectivenessScore": <number between 0-100>
}

**Original Email:**
%[2]s

**Improvement Requirements:**
1. Make the email clear, concise, and professional
2. Ensure the tone is appropriate for %[1]s
3. Improve structure and flow
4. Fix any grammar or spelling issues
5. Make the message more effective for its purpose
6. Add appropriate subject line if missing
7. Ensure proper email etiquette
8. Score the improved email on professionalism (0-100)
9. Score the improved email on clarity (0-100)
10. Score the improved email on effectiveness for its purpose (0-100)

Please provide specific improvements and explain your changes.`

// BuildPrompt renders the email improvement prompt for req.
func BuildPrompt(req Request) llm.Prompt {
	description, ok := Purposes[req.Purpose]
	if !ok {
		description = "professional communication"
	}
	return llm.Prompt{
		System:    systemPrompt,
		User:      fmt.Sprintf(userPromptFormat, description, req.EmailDraft),
		MaxTokens: maxTokens,
	}
}
