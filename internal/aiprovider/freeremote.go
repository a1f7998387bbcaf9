package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sejmbot-go/detektor/internal/model"
)

// FreeRemoteAdapter is a free-tier generative text endpoint reached
// over raw HTTP.
type FreeRemoteAdapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewFreeRemoteAdapter builds a FreeRemoteAdapter. baseURL defaults to
// the Gemini generative-language endpoint pattern.
func NewFreeRemoteAdapter(baseURL, apiKey, modelTag string) *FreeRemoteAdapter {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	return &FreeRemoteAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   modelTag,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *FreeRemoteAdapter) Name() model.Provider { return model.ProviderFreeAPI }

type freeRemoteRequest struct {
	Contents          []freeRemoteContent     `json:"contents"`
	SystemInstruction *freeRemoteContent      `json:"systemInstruction,omitempty"`
	GenerationConfig  freeRemoteGenerationCfg `json:"generationConfig"`
}

type freeRemoteContent struct {
	Parts []freeRemotePart `json:"parts"`
}

type freeRemotePart struct {
	Text string `json:"text"`
}

type freeRemoteGenerationCfg struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type freeRemoteResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// EvaluateHumor POSTs the fragment to the free-tier endpoint.
func (a *FreeRemoteAdapter) EvaluateHumor(ctx context.Context, text string, evalCtx EvalContext) (Result, error) {
	reqBody := freeRemoteRequest{
		Contents:          []freeRemoteContent{{Parts: []freeRemotePart{{Text: buildUserMessage(text, evalCtx)}}}},
		SystemInstruction: &freeRemoteContent{Parts: []freeRemotePart{{Text: systemPrompt}}},
		GenerationConfig: freeRemoteGenerationCfg{
			Temperature:     0.3,
			MaxOutputTokens: 150,
			TopP:            0.8,
			TopK:            10,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: marshal free-remote request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", a.baseURL, a.model, url.QueryEscape(a.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: build free-remote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: free-remote transport: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: read free-remote response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("aiprovider: free-remote returned status %d", resp.StatusCode)
	}

	var decoded freeRemoteResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Result{}, fmt.Errorf("aiprovider: parse free-remote response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return Result{}, fmt.Errorf("aiprovider: free-remote returned no candidates")
	}

	obj, ok := extractJSONObject(decoded.Candidates[0].Content.Parts[0].Text)
	if !ok {
		return Result{}, fmt.Errorf("aiprovider: free-remote response had no JSON object")
	}
	var parsed struct {
		IsFunny    bool    `json:"is_funny"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return Result{}, fmt.Errorf("aiprovider: parse free-remote json object: %w", err)
	}
	return Result{IsFunny: parsed.IsFunny, Confidence: parsed.Confidence, Reason: parsed.Reason}, nil
}

// HealthCheck issues a minimal generate call to confirm the endpoint and
// API key are reachable.
func (a *FreeRemoteAdapter) HealthCheck(ctx context.Context) error {
	_, err := a.EvaluateHumor(ctx, "test", EvalContext{})
	return err
}
