package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cohere "github.com/cohere-ai/cohere-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"mantra/backend/internal/llm/contract"
)

const defaultCohereModel = "command"

var errCohereNotInitialized = errors.New("cohere client not initialized")

type CohereProvider struct {
	// generate wraps the SDK call and returns the first generation's text.
	generate func(opts cohere.GenerateOptions) (string, error)
	initErr  error
	config   *contract.ProviderConfig
}

func NewCohereProvider(config *contract.ProviderConfig) *CohereProvider {
	return newCohereProvider(config, cohere.CreateClient)
}

func newCohereProvider(config *contract.ProviderConfig, createClient func(apiKey string) (*cohere.Client, error)) *CohereProvider {
	p := &CohereProvider{config: config}
	client, err := createClient(config.APIKey)
	if err != nil || client == nil {
		p.initErr = err
		zap.L().Warn("[Cohere] Client init failed, requests will fall back", zap.Error(err))
		return p
	}
	p.generate = func(opts cohere.GenerateOptions) (string, error) {
		resp, err := client.Generate(opts)
		if err != nil {
			return "", err
		}
		if resp == nil || len(resp.Generations) == 0 {
			return "", nil
		}
		return resp.Generations[0].Text, nil
	}
	return p
}

func (c *CohereProvider) Name() string { return "cohere" }

func (c *CohereProvider) GetConfig() *contract.ProviderConfig { return c.config }

type cohereResult struct {
	text string
	err  error
}

// Generate runs the blocking SDK call in its own goroutine so ctx still bounds
// the wait; the SDK call itself takes no context.
func (c *CohereProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("providers/cohere").Start(ctx, "Generate")
	defer span.End()

	if c.generate == nil {
		err := errCohereNotInitialized
		if c.initErr != nil {
			err = fmt.Errorf("%w: %w", errCohereNotInitialized, c.initErr)
		}
		span.RecordError(err)
		return "", err
	}
	model := firstNonEmpty(c.config.ModelName, defaultCohereModel)
	span.SetAttributes(attribute.String("request.model", model))

	maxTokens := uint(c.config.MaxTokens)
	temperature := c.config.Temperature
	opts := cohere.GenerateOptions{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	done := make(chan cohereResult, 1)
	go func() {
		text, err := c.generate(opts)
		if err == nil && strings.TrimSpace(text) == "" {
			err = contract.ErrEmptyResponse
		}
		done <- cohereResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			span.RecordError(res.err)
			return "", res.err
		}
		return res.text, nil
	}
}
