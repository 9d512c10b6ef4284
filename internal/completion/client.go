package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/veermshah/congruency/internal/config"
	"github.com/veermshah/congruency/internal/model"
)

// Client produces contract text for a prompt by consuming a streamed
// completion response. The chunk sequence is finite and non-restartable;
// chunks are concatenated in arrival order and the first read failure aborts
// the whole fetch. No retry.
type Client interface {
	Complete(ctx context.Context, message string) (string, error)
}

// ErrEmptyPrompt is returned when the prompt is blank; no request is made.
var ErrEmptyPrompt = model.NewError(model.KindValidation, "message is required", nil)

// HTTPClient talks to a completion endpoint that accepts {"message": ...}
// and streams back raw text bytes with no chunk framing.
type HTTPClient struct {
	url string
	hc  *http.Client
}

// NewHTTPClient creates a completion client for the configured endpoint.
func NewHTTPClient(cfg config.CompletionConfig) *HTTPClient {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if cfg.TimeoutSec <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClient{
		url: cfg.URL,
		hc:  &http.Client{Timeout: timeout},
	}
}

var _ Client = (*HTTPClient)(nil)

// Complete sends the prompt and assembles the streamed response into a single
// string, stripping the wrapping quote artifacts the endpoint emits.
func (c *HTTPClient) Complete(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyPrompt
	}

	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", model.NewError(model.KindTransport, "completion request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewError(model.KindRemote, fmt.Sprintf("completion endpoint returned status %d", resp.StatusCode), nil)
	}

	var b strings.Builder
	dec := newChunkDecoder(resp.Body)
	for {
		chunk, err := dec.next()
		b.WriteString(chunk)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", model.NewError(model.KindTransport, "completion stream read failed", err)
		}
	}

	return sanitize(b.String()), nil
}

// sanitize strips one wrapping double quote from each end, matching the
// artifact the endpoint wraps its payload in.
func sanitize(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
