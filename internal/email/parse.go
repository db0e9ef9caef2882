package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/fixora-ai/fixora/internal/llm"
)

var errInvalidShape = errors.New("invalid response structure")

type wireResult struct {
	ImprovedEmail        *string  `json:"improvedEmail"`
	Explanation          *string  `json:"explanation"`
	Improvements         []string `json:"improvements"`
	Tone                 *string  `json:"tone"`
	ProfessionalismScore *float64 `json:"professionalismScore"`
	ClarityScore         *float64 `json:"clarityScore"`
	EffectivenessScore   *float64 `json:"effectivenessScore"`
}

// Parse extracts and validates a Result from a model reply.
func Parse(reply string) (*Result, error) {
	raw, err := llm.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decoding email json: %w", err)
	}
	if !llm.IsJSONArray(fields["improvements"]) {
		return nil, fmt.Errorf("%w: improvements is not an array", errInvalidShape)
	}

	var w wireResult
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidShape, err)
	}
	switch {
	case w.ImprovedEmail == nil:
		return nil, fmt.Errorf("%w: improvedEmail is not a string", errInvalidShape)
	case w.Explanation == nil:
		return nil, fmt.Errorf("%w: explanation is not a string", errInvalidShape)
	case w.Tone == nil:
		return nil, fmt.Errorf("%w: tone is not a string", errInvalidShape)
	}

	return &Result{
		ImprovedEmail:        *w.ImprovedEmail,
		Explanation:          *w.Explanation,
		Improvements:         w.Improvements,
		Tone:                 *w.Tone,
		ProfessionalismScore: score(w.ProfessionalismScore),
		ClarityScore:         score(w.ClarityScore),
		EffectivenessScore:   score(w.EffectivenessScore),
	}, nil
}

func score(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Max(0, math.Min(100, math.Round(*v))))
	return &n
}
