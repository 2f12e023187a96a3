package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mantra/backend/internal/llm/contract"
)

func newHFProvider(url string) *HuggingFaceProvider {
	return NewHuggingFaceProvider(&contract.ProviderConfig{
		ProviderName: "huggingface",
		APIKey:       "hf-key",
		BaseURL:      url,
		Temperature:  0.8,
		MaxTokens:    100,
	})
}

func TestHuggingFaceGenerate(t *testing.T) {
	var got hfRequest
	var method, contentType, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`[{"generated_text":"Keep testing everything. Failure is just data."}]`))
	}))
	defer srv.Close()

	text, err := newHFProvider(srv.URL).Generate(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "Keep testing everything. Failure is just data." {
		t.Fatalf("unexpected text: %q", text)
	}
	if method != http.MethodPost || contentType != "application/json" || auth != "Bearer hf-key" {
		t.Fatalf("unexpected request: %s %q %q", method, contentType, auth)
	}
	if got.Inputs != "prompt text" {
		t.Fatalf("unexpected inputs: %q", got.Inputs)
	}
	p := got.Parameters
	if p.MaxNewTokens != 100 || p.Temperature != 0.8 || !p.DoSample || p.ReturnFullText {
		t.Fatalf("unexpected parameters: %+v", p)
	}
}

func TestHuggingFaceNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model loading"}`))
	}))
	defer srv.Close()

	_, err := newHFProvider(srv.URL).Generate(context.Background(), "prompt")
	var remoteErr *contract.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remoteErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", remoteErr.Status)
	}
	if !strings.Contains(remoteErr.Error(), "model loading") {
		t.Fatalf("expected body in error, got %q", remoteErr.Error())
	}
}

func TestHuggingFaceMalformedBodies(t *testing.T) {
	cases := map[string]string{
		"object instead of array": `{"generated_text":"hello there friend"}`,
		"empty array":             `[]`,
		"null":                    `null`,
		"missing field":           `[{"text":"hello"}]`,
		"non-string field":        `[{"generated_text":42}]`,
		"null field":              `[{"generated_text":null}]`,
		"non-object element":      `["hello"]`,
		"not json":                `<html>oops</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newHFProvider(srv.URL).Generate(context.Background(), "prompt")
			if !errors.Is(err, contract.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestHuggingFaceHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newHFProvider(srv.URL).Generate(ctx, "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("generate did not honor deadline: %s", elapsed)
	}
}

func TestHuggingFaceDefaultEndpoint(t *testing.T) {
	p := NewHuggingFaceProvider(&contract.ProviderConfig{})
	if p.endpoint() != DefaultHuggingFaceURL {
		t.Fatalf("unexpected endpoint: %s", p.endpoint())
	}
	if p.Name() != "huggingface" {
		t.Fatalf("unexpected name: %s", p.Name())
	}
}
