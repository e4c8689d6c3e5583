// Package functions invokes the backend's serverless functions over HTTP.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"studyhub/internal/config"
)

// Function names the generation pipelines are exposed under.
const (
	GenerateRevisionSheet = "generate-revision-sheet"
	GenerateErrorRevision = "generate-error-revision"
)

var ErrNotConfigured = errors.New("functions url is not configured")

// Error is a non-2xx answer of a function.
type Error struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("function %s: status %d: %s", e.Function, e.StatusCode, e.Message)
}

// Invoker calls a function with a JSON body and decodes its JSON answer into out (may be nil).
type Invoker interface {
	Invoke(ctx context.Context, name string, body any, out any) error
}

// TokenSource yields the bearer token of the signed-in user.
type TokenSource interface {
	Token() string
}

// HTTPInvoker posts to {base}/{name}. The user token, when present, takes
// precedence over the service key so row-level rules apply to the caller.
type HTTPInvoker struct {
	base       *url.URL
	serviceKey string
	tokens     TokenSource
	client     *http.Client
}

// NewHTTPInvoker builds an invoker whose transport is traced with otelhttp.
func NewHTTPInvoker(cfg config.BackendConfig, tokens TokenSource) (*HTTPInvoker, error) {
	if cfg.FunctionsURL == "" {
		return nil, ErrNotConfigured
	}
	base, err := url.Parse(strings.TrimRight(cfg.FunctionsURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse functions url: %w", err)
	}
	timeout := cfg.FunctionTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPInvoker{
		base:       base,
		serviceKey: cfg.ServiceKey,
		tokens:     tokens,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

var _ Invoker = (*HTTPInvoker)(nil)

func (i *HTTPInvoker) Invoke(ctx context.Context, name string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.base.JoinPath(name).String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := i.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if i.serviceKey != "" {
		req.Header.Set("apikey", i.serviceKey)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("invoke %s: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Function: name, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}

func (i *HTTPInvoker) bearer() string {
	if i.tokens != nil {
		if t := i.tokens.Token(); t != "" {
			return t
		}
	}
	return i.serviceKey
}

// errorMessage extracts {"error": "..."} when the function answered one.
func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
