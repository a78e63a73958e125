// Package apiclient is the typed client for the remote instructor REST API.
// It owns request plumbing, the response envelope, and the normalization of
// every remote failure into a single APIError type.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/coursecraft/instructor-console/internal/models"
)

// DefaultTimeout is the fixed overall request timeout at the transport layer
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to every request.
// An empty return sends the request unauthenticated.
type TokenSource func() string

// Client wraps HTTP access to the instructor API and the auth API.
//
// OnUnauthorized is the global session-invalidation side effect: it fires on
// any 401, regardless of which call produced it, before the error returns to
// the caller.
type Client struct {
	baseURL        string
	authBaseURL    string
	http           *http.Client
	tokenSource    TokenSource
	onUnauthorized func()
	logger         *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithAuthBaseURL sets the base URL of the auth API (login, verify, refresh)
func WithAuthBaseURL(u string) Option {
	return func(c *Client) { c.authBaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout overrides the fixed request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTokenSource sets the bearer token supplier
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokenSource = ts }
}

// WithOnUnauthorized registers the hook fired on any 401 response
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the instructor API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.authBaseURL == "" {
		c.authBaseURL = c.baseURL
	}
	return c
}

// envelope is a decoded API response: the payload (unwrapped from a
// {"data": ...} wrapper when present, raw otherwise), the optional total
// count, and the response headers for the header-based total fallback.
type envelope struct {
	data   json.RawMessage
	total  int
	header http.Header
}

// decode unmarshals the payload into out
func (e *envelope) decode(out any) error {
	if len(e.data) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.data, out); err != nil {
		return fmt.Errorf("failed to decode response payload: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+path, query, nil, "")
}

func (c *Client) post(ctx context.Context, path string, body any) (*envelope, error) {
	return c.doJSON(ctx, http.MethodPost, c.baseURL+path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (*envelope, error) {
	return c.doJSON(ctx, http.MethodPut, c.baseURL+path, body)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+path, nil, nil, "")
	return err
}

func (c *Client) doJSON(ctx context.Context, method, fullURL string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	return c.do(ctx, method, fullURL, nil, reader, "application/json")
}

// do issues the request, attaches the bearer token, and normalizes failures.
// Any non-2xx response comes back as an *APIError; a 401 additionally fires
// the OnUnauthorized hook.
func (c *Client) do(ctx context.Context, method, fullURL string, query url.Values, body io.Reader, contentType string) (*envelope, error) {
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request", zap.String("method", method), zap.String("url", fullURL))

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api transport failure", zap.String("url", fullURL), zap.Error(err))
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		// a non-JSON error body is fine, the status text covers it
		_ = json.Unmarshal(raw, &eb)
		apiErr := statusError(resp.StatusCode, eb, http.StatusText(resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.logger.Warn("api error response",
			zap.String("url", fullURL),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	return c.unwrap(raw, resp.Header), nil
}

// unwrap pulls the payload out of a {"data": ...} envelope when one is
// present and resolves the total count from the body or the X-Total-Count
// header.
func (c *Client) unwrap(raw []byte, header http.Header) *envelope {
	env := &envelope{data: raw, header: header}
	if len(bytes.TrimSpace(raw)) == 0 {
		env.data = nil
	}

	var wrapper struct {
		Data  json.RawMessage `json:"data"`
		Total *int            `json:"total"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Data) > 0 {
		env.data = wrapper.Data
		if wrapper.Total != nil {
			env.total = *wrapper.Total
		}
	}
	if env.total == 0 {
		if v := header.Get("X-Total-Count"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				env.total = n
			}
		}
	}
	return env
}

// listQuery builds the standard pagination, sort and filter parameters
func listQuery(params models.ListParams, filters map[string]int) url.Values {
	q := url.Values{}

	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_limit", strconv.Itoa(limit))
	if params.Sort != "" {
		q.Set("_sort", params.Sort)
	}
	if params.Order != "" {
		q.Set("_order", string(params.Order))
	}
	for name, id := range filters {
		q.Set(name, strconv.Itoa(id))
	}
	return q
}

// doMultipart sends payload fields plus one file part as multipart form data.
// Payload struct fields are flattened to their JSON wire names; nested values
// are sent JSON-encoded, matching what the backend's form parser expects.
func (c *Client) doMultipart(ctx context.Context, method, fullURL string, payload any, media *models.Media) (*envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields, err := payloadFields(payload)
	if err != nil {
		return nil, err
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %q: %w", name, err)
		}
	}

	if media != nil {
		field := media.FieldName
		if field == "" {
			field = "file"
		}
		part, err := writer.CreateFormFile(field, media.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, media.Reader); err != nil {
			return nil, fmt.Errorf("failed to copy file part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return c.do(ctx, method, fullURL, nil, &buf, writer.FormDataContentType())
}

// payloadFields converts a payload struct to flat form fields
func payloadFields(payload any) (map[string]string, error) {
	if payload == nil {
		return map[string]string{}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to flatten payload: %w", err)
	}

	fields := make(map[string]string, len(m))
	for name, value := range m {
		switch v := value.(type) {
		case string:
			fields[name] = v
		case bool:
			fields[name] = strconv.FormatBool(v)
		case float64:
			fields[name] = strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
			// omitted
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode form field %q: %w", name, err)
			}
			fields[name] = string(encoded)
		}
	}
	return fields, nil
}
