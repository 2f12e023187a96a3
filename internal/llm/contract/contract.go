package contract

import (
	"context"
	"errors"
	"fmt"
)

// Provider is a remote text-generation backend. Implementations make a single
// attempt per call; deadlines come from ctx.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
	GetConfig() *ProviderConfig
}

type ProviderConfig struct {
	ProviderName string
	APIKey       string
	ModelName    string
	BaseURL      string
	Temperature  float64
	MaxTokens    int
}

var (
	ErrEmptyResponse     = errors.New("empty response")
	ErrMalformedResponse = errors.New("malformed response")
)

// RemoteError reports a non-success HTTP status from a provider.
type RemoteError struct {
	Provider string
	Status   int
	Body     string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *RemoteError) HTTPStatusCode() int { return e.Status }
