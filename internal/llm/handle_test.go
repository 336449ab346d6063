package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestHandle_BuildsOnce(t *testing.T) {
	var builds atomic.Int32
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		builds.Add(1)
		return NewMockProvider(
			MockResponse{Content: json.RawMessage(`{}`)},
			MockResponse{Content: json.RawMessage(`{}`)},
		), nil
	})

	ctx := context.Background()
	if _, err := h.Generate(ctx, Request{}); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if _, err := h.Generate(ctx, Request{}); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if got := builds.Load(); got != 1 {
		t.Fatalf("expected 1 build, got %d", got)
	}
}

func TestHandle_ConcurrentFirstCallersShareOneBuild(t *testing.T) {
	var builds atomic.Int32
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		builds.Add(1)
		mock := &MockProvider{}
		for range 32 {
			mock.AddResponse(MockResponse{Content: json.RawMessage(`{}`)})
		}
		return mock, nil
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.Generate(context.Background(), Request{}); err != nil {
				t.Errorf("generate failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Fatalf("expected 1 build across concurrent callers, got %d", got)
	}
}

func TestHandle_FailedBuildIsRetried(t *testing.T) {
	var builds atomic.Int32
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("key not configured")
		}
		return NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}), nil
	})

	ctx := context.Background()
	if _, err := h.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected first call to fail")
	}
	if _, err := h.Generate(ctx, Request{}); err != nil {
		t.Fatalf("expected second call to succeed, got %v", err)
	}
	if got := builds.Load(); got != 2 {
		t.Fatalf("expected 2 builds, got %d", got)
	}
}

func TestHandle_ModelIDBeforeConstruction(t *testing.T) {
	h := NewHandle(func(ctx context.Context) (Provider, error) {
		return NewMockProvider(), nil
	})
	if got := h.ModelID(); got != "" {
		t.Fatalf("expected empty model id before construction, got %q", got)
	}
}
