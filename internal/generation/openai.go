package generation

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"github.com/docutask/docutask/internal/config"
	ierr "github.com/docutask/docutask/internal/errors"
	"github.com/docutask/docutask/internal/logger"
)

type openAIService struct {
	client *openai.Client
	cfg    config.GenerationConfig
	logger *logger.Logger
}

// NewOpenAIService creates a generation service backed by the OpenAI chat
// completion API
func NewOpenAIService(cfg *config.Configuration, log *logger.Logger) Service {
	clientCfg := openai.DefaultConfig(cfg.Generation.APIKey)
	if cfg.Generation.BaseURL != "" {
		clientCfg.BaseURL = cfg.Generation.BaseURL
	}
	return &openAIService{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg.Generation,
		logger: log,
	}
}

func (s *openAIService) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Prompt == "" {
		return nil, ierr.NewError("prompt is empty").
			WithHint("Nothing to generate from an empty prompt").
			Mark(ierr.ErrValidation)
	}

	timeout := time.Duration(s.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		chatReq.Temperature = req.Temperature
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		s.logger.Errorw("generation call failed", "model", s.cfg.Model, "error", err)
		return nil, ierr.WithError(err).
			WithHint("The generation service is unavailable").
			Mark(ierr.ErrGeneration)
	}

	if len(resp.Choices) == 0 {
		return nil, ierr.NewError("generation returned no choices").
			WithHint("The generation service returned an empty result").
			Mark(ierr.ErrGeneration)
	}

	inputTokens := int64(resp.Usage.PromptTokens)
	outputTokens := int64(resp.Usage.CompletionTokens)

	return &Result{
		Output:       resp.Choices[0].Message.Content,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         s.costFor(inputTokens, outputTokens),
	}, nil
}

// costFor converts reported token counts into the ledger's currency unit
// using the configured per-1k-token rates
func (s *openAIService) costFor(inputTokens, outputTokens int64) decimal.Decimal {
	per1k := decimal.NewFromInt(1000)
	inputCost := decimal.NewFromFloat(s.cfg.InputCostPer1K).
		Mul(decimal.NewFromInt(inputTokens)).Div(per1k)
	outputCost := decimal.NewFromFloat(s.cfg.OutputCostPer1K).
		Mul(decimal.NewFromInt(outputTokens)).Div(per1k)
	return inputCost.Add(outputCost)
}
