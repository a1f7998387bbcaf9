// Package aiprovider implements the AI provider adapters: four backends
// sharing one capability interface.
package aiprovider

import (
	"context"

	"github.com/sejmbot-go/detektor/internal/model"
)

// EvalContext is the optional speaker/keyword context a caller may
// attach to an evaluation request, appended to the user message.
type EvalContext struct {
	SpeakerName string
	SpeakerClub string
	Keywords    []string
}

// Result is one adapter's raw humor judgment, before the orchestrator
// stamps provider/cache/timestamp metadata onto a model.Evaluation.
type Result struct {
	IsFunny    bool
	Confidence float64
	Reason     string
}

// Adapter is the shared capability interface every provider backend
// implements.
type Adapter interface {
	Name() model.Provider
	EvaluateHumor(ctx context.Context, text string, evalCtx EvalContext) (Result, error)
	HealthCheck(ctx context.Context) error
}
