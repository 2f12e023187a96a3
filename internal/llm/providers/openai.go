package providers

import (
	"context"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"mantra/backend/internal/llm/contract"
)

const defaultOpenAIModel = "gpt-4o-mini"

type OpenAIProvider struct {
	client openai.Client
	config *contract.ProviderConfig
}

func NewOpenAIProvider(config *contract.ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		config: config,
	}
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) GetConfig() *contract.ProviderConfig { return o.config }

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("providers/openai").Start(ctx, "Generate")
	defer span.End()

	model := firstNonEmpty(o.config.ModelName, defaultOpenAIModel)
	span.SetAttributes(attribute.String("request.model", model))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Temperature: openai.Float(o.config.Temperature),
		MaxTokens:   openai.Int(int64(o.config.MaxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			userMessage(prompt),
		},
	})
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		span.RecordError(contract.ErrEmptyResponse)
		return "", contract.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func userMessage(content string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(content),
			},
		},
	}
}
