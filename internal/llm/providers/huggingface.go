package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"mantra/backend/internal/llm/contract"
)

const (
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/gpt2"

	maxResponseBytes = 1 << 20
)

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	DoSample       bool    `json:"do_sample"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

// HuggingFaceProvider calls a text-generation inference endpoint directly.
// The endpoint is BaseURL as-is; the model is part of the URL.
type HuggingFaceProvider struct {
	config *contract.ProviderConfig
	client *http.Client
}

func NewHuggingFaceProvider(config *contract.ProviderConfig) *HuggingFaceProvider {
	return &HuggingFaceProvider{config: config, client: &http.Client{}}
}

func (h *HuggingFaceProvider) Name() string { return "huggingface" }

func (h *HuggingFaceProvider) GetConfig() *contract.ProviderConfig { return h.config }

func (h *HuggingFaceProvider) endpoint() string {
	return firstNonEmpty(h.config.BaseURL, DefaultHuggingFaceURL)
}

func (h *HuggingFaceProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("providers/huggingface").Start(ctx, "Generate")
	defer span.End()

	url := h.endpoint()
	span.SetAttributes(
		attribute.String("api.url", url),
		attribute.Int("request.max_new_tokens", h.config.MaxTokens),
	)

	payload, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   h.config.MaxTokens,
			Temperature:    h.config.Temperature,
			DoSample:       true,
			ReturnFullText: false,
		},
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("read response: %w", err)
	}
	span.SetAttributes(attribute.Int("response.status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &contract.RemoteError{Provider: h.Name(), Status: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
		span.RecordError(remoteErr)
		return "", remoteErr
	}

	text, err := parseGeneratedText(body)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return text, nil
}

// parseGeneratedText expects [{"generated_text": "..."}, ...] and fails closed
// on any other shape.
func parseGeneratedText(body []byte) (string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return "", fmt.Errorf("%w: %v", contract.ErrMalformedResponse, err)
	}
	if len(items) == 0 {
		return "", fmt.Errorf("%w: empty array", contract.ErrMalformedResponse)
	}
	var first map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &first); err != nil {
		return "", fmt.Errorf("%w: first element: %v", contract.ErrMalformedResponse, err)
	}
	raw, ok := first["generated_text"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", fmt.Errorf("%w: missing generated_text", contract.ErrMalformedResponse)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("%w: generated_text: %v", contract.ErrMalformedResponse, err)
	}
	return text, nil
}
