package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/fixora-ai/fixora/internal/llm"
)

var errInvalidShape = errors.New("invalid response structure")

// wireResult mirrors Result with float scores and pointers to detect absent fields.
type wireResult struct {
	MatchScore       *float64         `json:"matchScore"`
	MissingKeywords  []string         `json:"missingKeywords"`
	Suggestions      []string         `json:"suggestions"`
	RewriteExamples  []RewriteExample `json:"rewriteExamples"`
	OverallFeedback  *string          `json:"overallFeedback"`
	CoverLetter      string           `json:"coverLetter"`
	ATSScore         *float64         `json:"atsScore"`
	ATSOptimizations []string         `json:"atsOptimizations"`
}

// Parse extracts and validates a Result from a model reply.
func Parse(reply string) (*Result, error) {
	raw, err := llm.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decoding analysis json: %w", err)
	}
	for _, name := range []string{"missingKeywords", "suggestions", "rewriteExamples"} {
		if !llm.IsJSONArray(fields[name]) {
			return nil, fmt.Errorf("%w: %s is not an array", errInvalidShape, name)
		}
	}

	var w wireResult
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidShape, err)
	}
	if w.MatchScore == nil {
		return nil, fmt.Errorf("%w: matchScore is not a number", errInvalidShape)
	}
	if w.OverallFeedback == nil {
		return nil, fmt.Errorf("%w: overallFeedback is not a string", errInvalidShape)
	}

	res := &Result{
		MatchScore:       score(*w.MatchScore),
		MissingKeywords:  w.MissingKeywords,
		Suggestions:      w.Suggestions,
		RewriteExamples:  w.RewriteExamples,
		OverallFeedback:  *w.OverallFeedback,
		CoverLetter:      w.CoverLetter,
		ATSOptimizations: w.ATSOptimizations,
	}
	if w.ATSScore != nil {
		ats := score(*w.ATSScore)
		res.ATSScore = &ats
	}
	return res, nil
}

// score rounds to the nearest integer and clamps into 0..100.
func score(v float64) int {
	return int(math.Max(0, math.Min(100, math.Round(v))))
}
