package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	cohere "github.com/cohere-ai/cohere-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"mantra/backend/internal/llm/contract"
)

func newCohereStub(generate func(cohere.GenerateOptions) (string, error)) *CohereProvider {
	return &CohereProvider{
		generate: generate,
		config:   &contract.ProviderConfig{ProviderName: "cohere", MaxTokens: 50, Temperature: 0.5},
	}
}

func TestCohereGenerate(t *testing.T) {
	var got cohere.GenerateOptions
	calls := 0
	p := newCohereStub(func(opts cohere.GenerateOptions) (string, error) {
		calls++
		got = opts
		return "Ship it. Then learn from it.", nil
	})

	text, err := p.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "Ship it. Then learn from it." {
		t.Fatalf("unexpected text: %q", text)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if got.Model != defaultCohereModel || got.Prompt != "prompt" {
		t.Fatalf("unexpected options: %+v", got)
	}
	if got.MaxTokens == nil || *got.MaxTokens != 50 || got.Temperature == nil || *got.Temperature != 0.5 {
		t.Fatalf("unexpected generation params: %+v", got)
	}
}

func TestCohereEmptyGeneration(t *testing.T) {
	p := newCohereStub(func(cohere.GenerateOptions) (string, error) { return "  ", nil })

	if _, err := p.Generate(context.Background(), "prompt"); !errors.Is(err, contract.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCohereSingleAttemptOnError(t *testing.T) {
	calls := 0
	p := newCohereStub(func(cohere.GenerateOptions) (string, error) {
		calls++
		return "", errors.New("500 internal error")
	})

	if _, err := p.Generate(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestCohereClientNotInitialized(t *testing.T) {
	initErr := errors.New("invalid api key")
	p := &CohereProvider{initErr: initErr, config: &contract.ProviderConfig{}}

	_, err := p.Generate(context.Background(), "prompt")
	if !errors.Is(err, errCohereNotInitialized) || !errors.Is(err, initErr) {
		t.Fatalf("expected init error, got %v", err)
	}

	p = &CohereProvider{config: &contract.ProviderConfig{}}
	if _, err := p.Generate(context.Background(), "prompt"); !errors.Is(err, errCohereNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}

func TestCohereHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := newCohereStub(func(cohere.GenerateOptions) (string, error) {
		<-release
		return "too late", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Generate(ctx, "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("generate did not honor deadline: %s", elapsed)
	}
}

func TestCohereLogsInitFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	initErr := errors.New("invalid api key")
	p := newCohereProvider(&contract.ProviderConfig{APIKey: "bad"}, func(string) (*cohere.Client, error) {
		return nil, initErr
	})

	if got := logs.FilterMessage("[Cohere] Client init failed, requests will fall back").Len(); got != 1 {
		t.Fatalf("expected one init warning, got %d", got)
	}
	if _, err := p.Generate(context.Background(), "prompt"); !errors.Is(err, initErr) {
		t.Fatalf("expected init error from generate, got %v", err)
	}
}
