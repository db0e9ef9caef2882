package analysis

import (
	"context"
	"fmt"

	"github.com/fixora-ai/fixora/internal/llm"
	"github.com/fixora-ai/fixora/internal/middleware"
)

const kind = "analysis"

type Service struct {
	llm      llm.Client
	fallback *llm.FallbackReporter
}

func NewService(client llm.Client, fallback *llm.FallbackReporter) *Service {
	if fallback == nil {
		fallback = llm.NewFallbackReporter(nil)
	}
	return &Service{llm: client, fallback: fallback}
}

// Analyze scores a resume against a job description. A reply that cannot be
// parsed is not an error: the fixed fallback is returned with Degraded set.
func (s *Service) Analyze(ctx context.Context, req Request) (Outcome, error) {
	reply, err := s.llm.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to analyze resume: %w", err)
	}

	res, err := Parse(reply)
	if err != nil {
		s.fallback.Report(ctx, kind, s.llm.Provider(), middleware.GetRequestID(ctx), err, reply)
		return Outcome{Result: Fallback(), Degraded: true}, nil
	}
	return Outcome{Result: res}, nil
}

// Provider names the backing LLM provider.
func (s *Service) Provider() string {
	return s.llm.Provider()
}
