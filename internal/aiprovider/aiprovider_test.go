package aiprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractJSONObjectTolerateLeadingProse(t *testing.T) {
	obj, ok := extractJSONObject("Oto moja odpowiedź: {\"is_funny\": true, \"confidence\": 0.8} dziękuję")
	if !ok {
		t.Fatalf("expected a JSON object to be found")
	}
	var parsed struct {
		IsFunny    bool    `json:"is_funny"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		t.Fatalf("unmarshal extracted object: %v", err)
	}
	if !parsed.IsFunny || parsed.Confidence != 0.8 {
		t.Fatalf("unexpected parsed object: %+v", parsed)
	}
}

func TestExtractJSONObjectNoBraces(t *testing.T) {
	if _, ok := extractJSONObject("brak obiektu tutaj"); ok {
		t.Fatalf("expected no JSON object to be found")
	}
}

func TestBuildUserMessageAppendsContext(t *testing.T) {
	msg := buildUserMessage("fragment tekstu", EvalContext{SpeakerName: "Jan Kowalski", SpeakerClub: "KO", Keywords: []string{"cyrk"}})
	if msg == "fragment tekstu" {
		t.Fatalf("expected context to be appended")
	}
}

func TestParseLineOrientedOutputFallback(t *testing.T) {
	raw := "ŚMIESZNE: TAK\nPEWNOŚĆ: 70%\nPOWÓD: klasyczna gafa\n"
	result, err := parseLocalModelOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFunny || result.Confidence != 0.7 || result.Reason != "klasyczna gafa" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseLocalModelOutputPrefersJSON(t *testing.T) {
	raw := `{"is_funny": false, "confidence": 0.2, "reason": "zwykła wypowiedź"}`
	result, err := parseLocalModelOutput(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsFunny || result.Confidence != 0.2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLocalAdapterEvaluateHumor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": `{"is_funny": true, "confidence": 0.6, "reason": "absurdalna riposta"}`,
		})
	}))
	defer server.Close()

	adapter := NewLocalAdapter(server.URL, "llama3")
	result, err := adapter.EvaluateHumor(context.Background(), "fragment", EvalContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFunny || result.Confidence != 0.6 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLocalAdapterHealthCheckFindsInstalledModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "llama3"}},
		})
	}))
	defer server.Close()

	adapter := NewLocalAdapter(server.URL, "llama3")
	if err := adapter.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected health check to succeed: %v", err)
	}
}

func TestLocalAdapterHealthCheckMissingModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{{"name": "other-model"}},
		})
	}))
	defer server.Close()

	adapter := NewLocalAdapter(server.URL, "llama3")
	if err := adapter.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected health check to fail for an uninstalled model")
	}
}

func TestFreeRemoteAdapterEvaluateHumor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{
					{"text": `{"is_funny": true, "confidence": 0.9, "reason": "gafa ministra"}`},
				}}},
			},
		})
	}))
	defer server.Close()

	adapter := NewFreeRemoteAdapter(server.URL, "test-key", "gemini-flash")
	result, err := adapter.EvaluateHumor(context.Background(), "fragment", EvalContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFunny || result.Confidence != 0.9 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestFreeRemoteAdapterEvaluateHumorNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []map[string]any{}})
	}))
	defer server.Close()

	adapter := NewFreeRemoteAdapter(server.URL, "test-key", "gemini-flash")
	if _, err := adapter.EvaluateHumor(context.Background(), "fragment", EvalContext{}); err == nil {
		t.Fatalf("expected an error when the provider returns no candidates")
	}
}
