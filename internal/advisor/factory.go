package advisor

import (
	"context"
	"time"

	"github.com/muhammadolammi/careeradvisor/internal/logger"
)

// ModeMock selects the canned client.
const ModeMock = "MOCK"

type Options struct {
	Mode    string
	APIKey  string
	Gemini  GeminiConfig
	Timeout time.Duration
}

// New builds the advisory service for the configured mode, wrapped with the
// request timeout.
func New(ctx context.Context, opts Options, log *logger.Logger) (Service, error) {
	if opts.Mode == ModeMock {
		log.Info("advisor mode MOCK, using canned advisory client")
		return WithTimeout(NewMockClient(), opts.Timeout), nil
	}

	cfg := opts.Gemini
	cfg.applyDefaults()
	evaluator, err := NewEvaluator(ctx, opts.APIKey, cfg.ProModel, cfg.Language)
	if err != nil {
		return nil, err
	}
	g, err := NewGemini(ctx, opts.APIKey, cfg, evaluator, log)
	if err != nil {
		return nil, err
	}
	return WithTimeout(g, opts.Timeout), nil
}
