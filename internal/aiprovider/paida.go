package aiprovider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/rs/zerolog"

	"github.com/sejmbot-go/detektor/internal/model"
)

// PaidAAdapter is a chat-completions-style paid provider backed by
// github.com/openai/openai-go/v3.
type PaidAAdapter struct {
	client openai.Client
	model  string
	log    zerolog.Logger
}

// NewPaidAAdapter builds a PaidAAdapter authenticated with apiKey.
func NewPaidAAdapter(apiKey, modelTag string, log zerolog.Logger) *PaidAAdapter {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &PaidAAdapter{client: client, model: modelTag, log: log.With().Str("provider", "paid_a").Logger()}
}

func (a *PaidAAdapter) Name() model.Provider { return model.ProviderPaidA }

// EvaluateHumor calls the chat-completions endpoint with a JSON-object
// response format.
func (a *PaidAAdapter) EvaluateHumor(ctx context.Context, text string, evalCtx EvalContext) (Result, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserMessage(text, evalCtx)),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(200),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: paid-a transport: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("aiprovider: paid-a returned no choices")
	}

	content := resp.Choices[0].Message.Content
	obj, ok := extractJSONObject(content)
	if !ok {
		return Result{}, fmt.Errorf("aiprovider: paid-a response had no JSON object")
	}
	var parsed struct {
		IsFunny    bool    `json:"is_funny"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return Result{}, fmt.Errorf("aiprovider: parse paid-a json object: %w", err)
	}
	return Result{IsFunny: parsed.IsFunny, Confidence: parsed.Confidence, Reason: parsed.Reason}, nil
}

// HealthCheck issues a minimal completion request to confirm the API
// key and model are valid.
func (a *PaidAAdapter) HealthCheck(ctx context.Context) error {
	_, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		},
		MaxTokens: openai.Int(1),
	})
	if err != nil {
		return fmt.Errorf("aiprovider: paid-a health check: %w", err)
	}
	return nil
}
