// Package backend is the HTTP client for the remote recognition service.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"
)

// Client talks to the /enroll and /transcribe endpoints. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	// BaseURL is the backend address, e.g. http://localhost:8000.
	BaseURL string

	// HTTPClient overrides the pooled default client.
	HTTPClient *http.Client

	// Timeout bounds each request when non-zero. Ignored with HTTPClient.
	Timeout time.Duration

	Logger *slog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
		hc.Timeout = cfg.Timeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// Enroll submits the speaker roster. A 2xx response is success and its body
// is ignored.
func (c *Client) Enroll(ctx context.Context, req EnrollRequest) error {
	body, contentType, err := req.encode()
	if err != nil {
		return fmt.Errorf("failed to encode enroll request: %w", err)
	}

	_, err = c.post(ctx, OpEnroll, body, contentType)

	return err
}

// Transcribe submits a conversation recording and returns its transcription.
func (c *Client) Transcribe(ctx context.Context, req TranscribeRequest) (string, error) {
	body, contentType, err := req.encode()
	if err != nil {
		return "", fmt.Errorf("failed to encode transcribe request: %w", err)
	}

	respBody, err := c.post(ctx, OpTranscribe, body, contentType)
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(respBody) {
		return "", &TransportError{Op: OpTranscribe, Err: ErrMalformedResponse}
	}

	text := gjson.GetBytes(respBody, "transcription")
	if text.Type != gjson.String {
		return "", &TransportError{
			Op:  OpTranscribe,
			Err: fmt.Errorf("%w: no transcription field", ErrMalformedResponse),
		}
	}

	return text.String(), nil
}

// post sends a multipart body to /{op} and returns the 2xx response body.
func (c *Client) post(ctx context.Context, op Op, body io.Reader, contentType string) ([]byte, error) {
	requestID := uuid.NewString()
	url := c.baseURL + "/" + string(op)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed", "op", op, "request_id", requestID, "error", err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("Backend request complete",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A rejection the client cannot read counts as a transport failure.
		if !gjson.ValidBytes(respBody) {
			return nil, &TransportError{
				Op:  op,
				Err: fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode),
			}
		}

		return nil, &BackendError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Reason:     errorReason(respBody),
			RequestID:  requestID,
		}
	}

	return respBody, nil
}

// errorReason extracts {"error": "..."} and returns "" when absent.
func errorReason(body []byte) string {
	reason := gjson.GetBytes(body, "error")
	if reason.Type != gjson.String {
		return ""
	}

	return reason.String()
}
