// Package ledger provides a client for the portfolio backend's document API
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/carteira-app/carteira/internal/auth"
	"github.com/carteira-app/carteira/internal/common"
	"github.com/carteira-app/carteira/internal/interfaces"
	"github.com/carteira-app/carteira/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	// maxErrorBody bounds how much of an error response is read for the message.
	maxErrorBody = 64 * 1024
)

// Client implements the LedgerClient interface
type Client struct {
	baseURL    string
	tokens     auth.TokenSource
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout. Every request carries this bound so a
// hung backend surfaces as an error instead of an indefinite busy state.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new ledger client. tokens supplies the bearer token;
// pass nil for unauthenticated use (reads proceed, mutations fail).
func NewClient(tokens auth.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// decodeError normalizes a non-2xx response into an APIError. The message
// comes from the body's "error" field when present, with a generic fallback.
func decodeError(resp *http.Response, endpoint string) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Endpoint:   endpoint,
	}
}

// authorize attaches the bearer token. Mutating requests require a token and
// fail with an explicit error when none can be acquired; reads log a warning
// and proceed unauthenticated — the server answers 401 through the normal
// error path.
func (c *Client) authorize(ctx context.Context, req *http.Request, required bool) error {
	if c.tokens == nil {
		if required {
			return fmt.Errorf("no token source configured for %s %s", req.Method, req.URL.Path)
		}
		return nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		if required {
			return fmt.Errorf("failed to acquire session token: %w", err)
		}
		c.logger.Warn().Err(err).Str("path", req.URL.Path).Msg("Proceeding without session token")
		return nil
	}

	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// do performs a rate-limited request and decodes a JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authRequired bool, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.authorize(ctx, req, authRequired); err != nil {
		return err
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("Ledger API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, path)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// get performs an unauthenticated-tolerant GET request.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", false, result)
}

// post performs an authenticated JSON POST request.
func (c *Client) post(ctx context.Context, path string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, path, body, "application/json", true, result)
}

// UploadDocument uploads a PDF statement via multipart form.
func (c *Client) UploadDocument(ctx context.Context, file io.Reader, fileName, docType, accountID string) (*models.Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileName, err)
	}
	if err := w.WriteField("doc_type", docType); err != nil {
		return nil, fmt.Errorf("failed to write doc_type field: %w", err)
	}
	if accountID != "" {
		if err := w.WriteField("account_id", accountID); err != nil {
			return nil, fmt.Errorf("failed to write account_id field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var doc models.Document
	if err := c.do(ctx, http.MethodPost, "/documents/upload", &buf, w.FormDataContentType(), true, &doc); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("document_id", doc.ID).Str("file", fileName).Msg("Document uploaded")
	return &doc, nil
}

// StartParse triggers extraction for an uploaded document.
func (c *Client) StartParse(ctx context.Context, documentID string, asyncMode bool) (*models.ParseResult, error) {
	payload := map[string]bool{"async_mode": asyncMode}
	var result models.ParseResult
	path := fmt.Sprintf("/documents/%s/parse", documentID)
	if err := c.post(ctx, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetParseResult retrieves the current parse status and extracted data.
func (c *Client) GetParseResult(ctx context.Context, documentID string) (*models.ParseResult, error) {
	var result models.ParseResult
	path := fmt.Sprintf("/documents/%s/parse-result", documentID)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CommitDocument converts selected extracted records into ledger entries.
func (c *Client) CommitDocument(ctx context.Context, documentID string, req *models.CommitRequest) (*models.CommitResponse, error) {
	var result models.CommitResponse
	path := fmt.Sprintf("/documents/%s/commit", documentID)
	if err := c.post(ctx, path, req, &result); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("document_id", documentID).
		Int("rows", req.RowCount()).
		Int("created", result.TotalCreated()).
		Int("errors", len(result.Errors)).
		Msg("Document committed")
	return &result, nil
}

// DeleteDocument removes an uploaded document.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+documentID, nil, "", true, nil)
}

// ListDocuments retrieves the user's uploaded documents.
func (c *Client) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	var resp documentsResponse
	if err := c.get(ctx, "/documents", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type documentsResponse struct {
	Data []*models.Document `json:"data"`
}

// ListAccounts retrieves the user's brokerage accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, "/accounts", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type accountsResponse struct {
	Data []*models.Account `json:"data"`
}

// Ensure Client implements LedgerClient
var _ interfaces.LedgerClient = (*Client)(nil)
