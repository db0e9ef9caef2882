package email

// Purposes maps each accepted purpose to the phrase used in the prompt.
var Purposes = map[string]string{
	"job-followup":    "following up on a job application",
	"apology":         "apologizing professionally",
	"client-pitch":    "pitching to a potential client",
	"meeting-request": "requesting a meeting",
	"thank-you":       "expressing gratitude",
	"complaint":       "addressing a concern or complaint",
	"networking":      "networking and building professional relationships",
	"proposal":        "presenting a business proposal",
	"general":         "general professional communication",
}

// purposeOrder is the order purposes are listed in error messages.
var purposeOrder = []string{
	"job-followup", "apology", "client-pitch", "meeting-request",
	"thank-you", "complaint", "networking", "proposal", "general",
}

type Request struct {
	EmailDraft string `json:"emailDraft" validate:"required,min=10"`
	Purpose    string `json:"purpose" validate:"required,oneof=job-followup apology client-pitch meeting-request thank-you complaint networking proposal general"`
}

// Result is the rewritten email returned to clients.
type Result struct {
	ImprovedEmail        string   `json:"improvedEmail"`
	Explanation          string   `json:"explanation"`
	Improvements         []string `json:"improvements"`
	Tone                 string   `json:"tone"`
	ProfessionalismScore *int     `json:"professionalismScore,omitempty"`
	ClarityScore         *int     `json:"clarityScore,omitempty"`
	EffectivenessScore   *int     `json:"effectivenessScore,omitempty"`
}

func Fallback() *Result {
	return &Result{
		ImprovedEmail: "We encountered an issue improving your email. Please try again.",
		Explanation:   "There was an error processing your email. Please try again or contact support.",
		Improvements:  []string{"Unable to process - please try again"},
		Tone:          "Professional",
	}
}

// Outcome pairs a Result with whether it is the fallback.
type Outcome struct {
	Result   *Result
	Degraded bool
}
