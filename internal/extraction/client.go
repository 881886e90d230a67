// Package extraction talks to the document text-extraction service that turns
// resumes and job postings into text plus structured fields.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseURL is where the extraction service listens by default.
const DefaultBaseURL = "http://localhost:8001"

var supportedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// Result is what the extraction service recovers from a document.
type Result struct {
	Text            string         `json:"text"`
	Skills          []string       `json:"skills"`
	ExperienceYears float64        `json:"experience_years"`
	Location        string         `json:"location"`
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	StructuredData  map[string]any `json:"structured_data"`
}

// Client is an HTTP client for the extraction service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// SupportedFormat reports whether filename has an extension the service can read.
func SupportedFormat(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract uploads a document and returns its text and structured fields.
func (c *Client) Extract(ctx context.Context, filename string, data []byte) (*Result, error) {
	if !SupportedFormat(filename) {
		return nil, &UnsupportedFormatError{Filename: filename}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &EmptyContentError{Filename: filename}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/extract", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, filename)
}

// ExtractJobDescription extracts skills, experience and location from job posting text.
func (c *Client) ExtractJobDescription(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyContentError{}
	}

	endpoint := c.BaseURL + "/extract-job-description?" + url.Values{"jd_text": {text}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction request: %w", err)
	}

	return c.do(req, "")
}

// Health checks that the extraction service is up.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned status %d", ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(req *http.Request, filename string) (*Result, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, classifyRejection(filename, respBody)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: extraction service returned status %d: %s", ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, &EmptyContentError{Filename: filename}
	}
	if result.Skills == nil {
		result.Skills = []string{}
	}
	return &result, nil
}

// classifyRejection maps a 400 from the service onto the package's error types.
func classifyRejection(filename string, body []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &detail)

	msg := strings.ToLower(detail.Detail)
	switch {
	case strings.Contains(msg, "unsupported"):
		return &UnsupportedFormatError{Filename: filename}
	case strings.Contains(msg, "no text"):
		return &EmptyContentError{Filename: filename}
	}
	return fmt.Errorf("extraction rejected %s: %s", filename, strings.TrimSpace(detail.Detail))
}
