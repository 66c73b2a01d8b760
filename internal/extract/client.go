// Package extract is the HTTP client for the remote extraction service.
//
// The service owns all document intelligence (rotation detection, OCR, schema
// and claim extraction, validation); this client uploads a PDF and hands back
// whatever JSON the service returns.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultBaseURL is where the extraction backend listens by default.
const DefaultBaseURL = "http://localhost:5000"

// Client talks to the extraction backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given base URL.
// The extraction call carries no client-side timeout: the backend has no
// progress channel and large scanned PDFs can legitimately take minutes.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logger.With("component", "extract"),
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ExtractFull uploads one PDF as multipart form data and returns the parsed
// payload. Any failure kind (transport, non-2xx, success=false, malformed
// body) comes back as a single error whose message is safe to surface to the
// user, preferring server-provided text. Exactly one request is made; there
// are no retries at this layer.
func (c *Client) ExtractFull(ctx context.Context, path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/extract-full", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Debug("uploading document", "file", filepath.Base(path))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}

	var envelope Response
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Prefer the server's own error text when the body parses.
		if decodeErr == nil && envelope.Error != "" {
			return nil, fmt.Errorf("extraction failed (HTTP %d): %s", resp.StatusCode, envelope.Error)
		}
		return nil, fmt.Errorf("extraction failed with HTTP %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("unexpected response from extraction service: %w", decodeErr)
	}
	if !envelope.Success {
		if envelope.Error != "" {
			return nil, fmt.Errorf("%s", envelope.Error)
		}
		return nil, fmt.Errorf("extraction service reported failure")
	}

	// Advisory only: the contract is loose by design, so shape deviations
	// are logged, never failed.
	if err := validateEnvelope(raw); err != nil {
		c.logger.Warn("response deviates from documented envelope", "error", err)
	}

	return envelope.Data, nil
}

// HealthStatus is the backend's /api/health response.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service,omitempty"`
	Extractor string `json:"extractor,omitempty"`
	Version   string `json:"version,omitempty"`
}

// Health checks the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with HTTP %d", resp.StatusCode)
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &status, nil
}
