package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/generation"
)

// StubGenerationService is a configurable generation.Service that records
// every call so tests can assert whether generation was reached at all
type StubGenerationService struct {
	mu sync.Mutex

	// Result is returned on success; Err, when set, fails every call
	Result generation.Result
	Err    error

	calls   int
	prompts []string
}

func NewStubGenerationService() *StubGenerationService {
	return &StubGenerationService{
		Result: generation.Result{
			Output:       "generated output",
			InputTokens:  100,
			OutputTokens: 50,
			Cost:         decimal.NewFromFloat(0.045),
		},
	}
}

func (s *StubGenerationService) Generate(ctx context.Context, req generation.Request) (*generation.Result, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, req.Prompt)
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	result := s.Result
	return &result, nil
}

// Calls returns how many times Generate was invoked
func (s *StubGenerationService) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// LastPrompt returns the prompt of the most recent call, empty if none
func (s *StubGenerationService) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

// FailWith makes every subsequent call fail with a generation error
func (s *StubGenerationService) FailWith(msg string) {
	s.Err = ierr.NewError(msg).
		WithHint("Text generation failed").
		Mark(ierr.ErrGeneration)
}

func (s *StubGenerationService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 0
	s.prompts = nil
	s.Err = nil
}
