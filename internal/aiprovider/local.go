package aiprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sejmbot-go/detektor/internal/model"
)

// LocalAdapter is a local LLM served over HTTP (e.g. Ollama's generate
// API), with dual JSON/line-format response parsing.
type LocalAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewLocalAdapter builds a LocalAdapter targeting baseURL (default
// "http://localhost:11434") with the given model tag.
func NewLocalAdapter(baseURL, modelTag string) *LocalAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &LocalAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelTag,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *LocalAdapter) Name() model.Provider { return model.ProviderLocal }

type localGenerateRequest struct {
	Model   string            `json:"model"`
	Prompt  string            `json:"prompt"`
	Stream  bool              `json:"stream"`
	Options localGenerateOpts `json:"options"`
}

type localGenerateOpts struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type localGenerateResponse struct {
	Response string `json:"response"`
}

// EvaluateHumor sends text to the local model's generate endpoint.
func (a *LocalAdapter) EvaluateHumor(ctx context.Context, text string, evalCtx EvalContext) (Result, error) {
	prompt := systemPrompt + "\n\n" + buildUserMessage(text, evalCtx)
	body, err := json.Marshal(localGenerateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
		Options: localGenerateOpts{
			Temperature: 0.3,
			TopP:        0.9,
			NumPredict:  200,
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: marshal local request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: build local request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: local transport: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("aiprovider: read local response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("aiprovider: local returned status %d", resp.StatusCode)
	}

	var decoded localGenerateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Result{}, fmt.Errorf("aiprovider: parse local envelope: %w", err)
	}
	return parseLocalModelOutput(decoded.Response)
}

// parseLocalModelOutput tries the JSON object contract first, then
// falls back to the line-oriented format a local model may emit
// instead.
func parseLocalModelOutput(raw string) (Result, error) {
	if obj, ok := extractJSONObject(raw); ok {
		var parsed struct {
			IsFunny    bool    `json:"is_funny"`
			Confidence float64 `json:"confidence"`
			Reason     string  `json:"reason"`
		}
		if err := json.Unmarshal([]byte(obj), &parsed); err == nil {
			return Result{IsFunny: parsed.IsFunny, Confidence: parsed.Confidence, Reason: parsed.Reason}, nil
		}
	}
	return parseLineOrientedOutput(raw)
}

var (
	smieszneRe  = regexp.MustCompile(`(?i)ŚMIESZNE:\s*(TAK|NIE)`)
	pewnoscRe   = regexp.MustCompile(`(?i)PEWNOŚĆ:\s*(\d+)\s*%?`)
	kategoriaRe = regexp.MustCompile(`(?i)KATEGORIA:\s*(\S+)`)
	powodRe     = regexp.MustCompile(`(?i)POWÓD:\s*(.+)`)
)

// parseLineOrientedOutput parses the fallback
// "ŚMIESZNE: TAK/NIE" / "PEWNOŚĆ: N%" / "KATEGORIA: ..." / "POWÓD: ..."
// format.
func parseLineOrientedOutput(raw string) (Result, error) {
	m := smieszneRe.FindStringSubmatch(raw)
	if m == nil {
		return Result{}, fmt.Errorf("aiprovider: local response matched neither JSON nor line format")
	}
	isFunny := strings.EqualFold(m[1], "TAK")

	confidence := 0.5
	if cm := pewnoscRe.FindStringSubmatch(raw); cm != nil {
		if pct, err := strconv.Atoi(cm[1]); err == nil {
			confidence = float64(pct) / 100.0
		}
	}

	reason := ""
	if rm := powodRe.FindStringSubmatch(raw); rm != nil {
		reason = strings.TrimSpace(rm[1])
	}
	if reason == "" {
		if km := kategoriaRe.FindStringSubmatch(raw); km != nil {
			if cat := mapLocalCategory(km[1]); cat != "none" {
				reason = cat
			}
		}
	}

	return Result{IsFunny: isFunny, Confidence: confidence, Reason: reason}, nil
}

// localCategoryAliases maps the Polish category labels a local model may
// emit on its KATEGORIA line onto the fixed enum
// {absurd, joke, irony, gaffe, exaggeration, none}.
var localCategoryAliases = map[string]string{
	"absurd":   "absurd",
	"żart":     "joke",
	"dowcip":   "joke",
	"ironia":   "irony",
	"gafa":     "gaffe",
	"wpadka":   "gaffe",
	"przesada": "exaggeration",
	"brak":     "none",
	"żadna":    "none",
}

func mapLocalCategory(raw string) string {
	if cat, ok := localCategoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return cat
	}
	return "none"
}

// HealthCheck verifies the configured model tag is installed.
func (a *LocalAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("aiprovider: build local health request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("aiprovider: local health transport: %w", err)
	}
	defer resp.Body.Close()

	var decoded struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("aiprovider: parse local health response: %w", err)
	}
	for _, m := range decoded.Models {
		if m.Name == a.model {
			return nil
		}
	}
	return fmt.Errorf("aiprovider: model %q not installed on local server", a.model)
}
