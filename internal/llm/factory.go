package llm

import (
	"context"
	"fmt"

	"github.com/studyhall/studyhall/internal/logger"
	"github.com/studyhall/studyhall/internal/store"
)

// NewProvider builds the provider chain for the configured backend:
// base provider, call logging, then retries outermost so that each
// retried attempt shows up in the call log.
func NewProvider(ctx context.Context, cfg Config, calls store.LLMCallRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = &MockProvider{}
	default:
		err = fmt.Errorf("unknown model provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	p := base
	if calls != nil {
		p = WithLogging(p, calls, log)
	}
	return WithRetry(p, cfg.Retry), nil
}
