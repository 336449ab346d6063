package llm

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Handle is a lazily-initialized shared provider. Construction is
// deferred until the first call and deduplicated across concurrent
// callers, so the process never pays for a provider it does not use
// and never builds two. A failed construction is not cached; the next
// caller retries it.
type Handle struct {
	mu    sync.RWMutex
	p     Provider
	group singleflight.Group
	build func(ctx context.Context) (Provider, error)
}

// NewHandle returns a Handle that builds its provider with build on
// first use.
func NewHandle(build func(ctx context.Context) (Provider, error)) *Handle {
	return &Handle{build: build}
}

// Resolve returns the shared provider, constructing it if needed.
func (h *Handle) Resolve(ctx context.Context) (Provider, error) {
	h.mu.RLock()
	p := h.p
	h.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	v, err, _ := h.group.Do("provider", func() (any, error) {
		h.mu.RLock()
		existing := h.p
		h.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		built, err := h.build(ctx)
		if err != nil {
			return nil, err
		}

		h.mu.Lock()
		h.p = built
		h.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}

// Generate resolves the shared provider and delegates to it.
func (h *Handle) Generate(ctx context.Context, req Request) (*Response, error) {
	p, err := h.Resolve(ctx)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	return p.Generate(ctx, req)
}

// ModelID reports the resolved provider's model, or empty when the
// provider has not been constructed yet.
func (h *Handle) ModelID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.p == nil {
		return ""
	}
	return h.p.ModelID()
}
