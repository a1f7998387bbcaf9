package aiprovider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/model"
)

// PaidBAdapter is a messages-API paid provider backed by
// github.com/anthropics/anthropic-sdk-go.
type PaidBAdapter struct {
	client anthropic.Client
	model  string
	log    zerolog.Logger
}

// NewPaidBAdapter builds a PaidBAdapter authenticated with apiKey.
func NewPaidBAdapter(apiKey, modelTag string, log zerolog.Logger) *PaidBAdapter {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &PaidBAdapter{client: client, model: modelTag, log: log.With().Str("provider", "paid_b").Logger()}
}

func (a *PaidBAdapter) Name() model.Provider { return model.ProviderPaidB }

// EvaluateHumor calls the messages API with the system prompt in its
// top-level field.
func (a *PaidBAdapter) EvaluateHumor(ctx context.Context, text string, evalCtx EvalContext) (Result, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 200,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserMessage(text, evalCtx))),
		},
		Temperature: anthropic.Float(0.3),
	})
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: paid-b transport: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += tb.Text
		}
	}

	obj, ok := extractJSONObject(content)
	if !ok {
		return Result{}, fmt.Errorf("aiprovider: paid-b response had no JSON object")
	}
	var parsed struct {
		IsFunny    bool    `json:"is_funny"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return Result{}, fmt.Errorf("aiprovider: parse paid-b json object: %w", err)
	}
	return Result{IsFunny: parsed.IsFunny, Confidence: parsed.Confidence, Reason: parsed.Reason}, nil
}

// HealthCheck issues a minimal messages request to confirm the API key
// and model are valid.
func (a *PaidBAdapter) HealthCheck(ctx context.Context) error {
	_, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("aiprovider: paid-b health check: %w", err)
	}
	return nil
}
