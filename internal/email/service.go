package email

import (
	"context"
	"fmt"

	"github.com/fixora-ai/fixora/internal/llm"
	"github.com/fixora-ai/fixora/internal/middleware"
)

const kind = "email"

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

// Improve rewrites an email draft for its purpose.
func (s *Service) Improve(ctx context.Context, req Request) (Outcome, error) {
	reply, err := s.llm.Complete(ctx, BuildPrompt(req))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to improve email: %w", err)
	}

	res, err := Parse(reply)
	if err != nil {
		s.fallback.Report(ctx, kind, s.llm.Provider(), middleware.GetRequestID(ctx), err, reply)
		return Outcome{Result: Fallback(), Degraded: true}, nil
	}
	return Outcome{Result: res}, nil
}

func (s *Service) Provider() string {
	return s.llm.Provider()
}
