package generation

import (
	"context"

	"github.com/shopspring/decimal"
)

// Request carries the fully interpolated prompt to the generation backend
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Result is the generation backend's answer with its reported usage figures.
// Token counts and cost are used verbatim for metering.
type Result struct {
	Output       string
	InputTokens  int64
	OutputTokens int64
	Cost         decimal.Decimal
}

// Service is the opaque external generation call. Implementations own their
// transport timeouts; the engine treats any failure as terminal for the
// current execution and meters nothing.
type Service interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
