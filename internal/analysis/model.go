package analysis

const (
	PurposeBeforeApplying = "before-applying"
	PurposeAfterRejection = "after-rejection"
)

type Request struct {
	ResumeText     string `json:"resumeText" validate:"required,min=10"`
	JobDescription string `json:"jobDescription" validate:"required,min=10"`
	Purpose        string `json:"purpose" validate:"required,oneof=before-applying after-rejection"`
}

type RewriteExample struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
}

// Result is the resume-versus-job assessment returned to clients.
type Result struct {
	MatchScore       int              `json:"matchScore"`
	MissingKeywords  []string         `json:"missingKeywords"`
	Suggestions      []string         `json:"suggestions"`
	RewriteExamples  []RewriteExample `json:"rewriteExamples"`
	OverallFeedback  string           `json:"overallFeedback"`
	CoverLetter      string           `json:"coverLetter,omitempty"`
	ATSScore         *int             `json:"atsScore,omitempty"`
	ATSOptimizations []string         `json:"atsOptimizations,omitempty"`
}

// Fallback is served when the model's reply cannot be used.
func Fallback() *Result {
	return &Result{
		MatchScore:      50,
		MissingKeywords: []string{"Unable to analyze - please try again"},
		Suggestions:     []string{"There was an error analyzing your resume. Please try uploading again."},
		RewriteExamples: []RewriteExample{},
		OverallFeedback: "We encountered an issue analyzing your resume. Please try again or contact support if the problem persists.",
	}
}

// Outcome pairs a Result with whether it is the fallback.
type Outcome struct {
	Result   *Result
	Degraded bool
}
