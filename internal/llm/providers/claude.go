package providers

import (
	"context"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"mantra/backend/internal/llm/contract"
)

const defaultClaudeModel = "claude-3-5-haiku-latest"

type ClaudeProvider struct {
	client anthropic.Client
	config *contract.ProviderConfig
}

func NewClaudeProvider(config *contract.ProviderConfig) *ClaudeProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &ClaudeProvider{
		client: anthropic.NewClient(opts...),
		config: config,
	}
}

func (c *ClaudeProvider) Name() string { return "claude" }

func (c *ClaudeProvider) GetConfig() *contract.ProviderConfig { return c.config }

func (c *ClaudeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("providers/claude").Start(ctx, "Generate")
	defer span.End()

	model := firstNonEmpty(c.config.ModelName, defaultClaudeModel)
	span.SetAttributes(attribute.String("request.model", model))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(c.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if resp == nil || len(resp.Content) == 0 || strings.TrimSpace(resp.Content[0].Text) == "" {
		span.RecordError(contract.ErrEmptyResponse)
		return "", contract.ErrEmptyResponse
	}
	return resp.Content[0].Text, nil
}
