// Package bankapi is the portal's client for the remote banking backend:
// one request pipeline plus a typed method per backend endpoint.
package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/congo-pay/bank_portal/internal/tokenstore"
)

const (
	requestIDHeader      = "X-Request-ID"
	idempotencyKeyHeader = "Idempotency-Key"
	defaultTimeout       = 30 * time.Second
	maxErrorBodyInMsg    = 512
)

// Credentials is the subset of the token store the client needs.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Set(ctx context.Context, token string, kind tokenstore.Kind) error
	Clear(ctx context.Context) error
}

// Config holds client configuration.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Credentials Credentials
	Logger      *slog.Logger
	Metrics     *Metrics
}

// Client issues authenticated requests against the banking backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	logger     *slog.Logger
	metrics    *Metrics
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("credentials are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		creds:      cfg.Credentials,
		logger:     logger,
		metrics:    cfg.Metrics,
	}, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON encoded when non-nil.
	Body any
	// Form, when set, is sent as multipart/form-data instead of Body.
	Form *Multipart
	// Route is the path template used as a metrics label; defaults to Path.
	Route string
	// Idempotent adds a fresh Idempotency-Key header.
	Idempotent bool
	// NoAuth sends the request without the stored bearer token.
	NoAuth bool
}

// Multipart is a form with plain fields and one file part.
type Multipart struct {
	Fields    map[string]string
	FileField string
	FileName  string
	File      io.Reader
}

// Response is a successful (2xx) backend response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsJSON reports whether the response declares a JSON content type.
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

type requestIDKey struct{}

// WithRequestID makes Do forward id as X-Request-ID instead of minting one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// Do sends r and returns the raw 2xx response. Every failure is an *Error.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	route := r.Route
	if route == "" {
		route = r.Path
	}
	start := time.Now()

	req, err := c.build(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(r.Method, route, outcomeFor(0, err), time.Since(start))
		c.logger.Warn("backend unreachable",
			slog.String("method", r.Method),
			slog.String("path", r.Path),
			slog.String("request_id", req.Header.Get(requestIDHeader)),
			slog.Any("error", err),
		)
		return nil, &Error{
			Kind:    KindTransport,
			Status:  0,
			Message: fmt.Sprintf("cannot reach server at %s", c.baseURL),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.observe(r.Method, route, outcomeFor(resp.StatusCode, nil), elapsed)
	c.logger.Debug("backend request completed",
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
		slog.String("request_id", req.Header.Get(requestIDHeader)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpError(resp.StatusCode, body)
	}
	if readErr != nil {
		return nil, decodeError(resp.StatusCode, "read response body", readErr)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) build(ctx context.Context, r Request) (*http.Request, error) {
	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.Form != nil:
		buf, ct, err := encodeMultipart(r.Form)
		if err != nil {
			return nil, validationError("invalid_form", fmt.Sprintf("encode form: %v", err))
		}
		body, contentType = buf, ct
	case r.Body != nil:
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, validationError("invalid_body", fmt.Sprintf("encode request body: %v", err))
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, validationError("invalid_request", fmt.Sprintf("create request: %v", err))
	}

	if !r.NoAuth {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return nil, credentialsError("read credential", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json, */*")

	reqID, _ := ctx.Value(requestIDKey{}).(string)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(requestIDHeader, reqID)
	if r.Idempotent {
		req.Header.Set(idempotencyKeyHeader, uuid.NewString())
	}
	return req, nil
}

// encodeMultipart lets the multipart writer choose the boundary; the
// returned content type carries it.
func encodeMultipart(form *Multipart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if form.File != nil {
		field := form.FileField
		if field == "" {
			field = "file"
		}
		part, err := w.CreateFormFile(field, form.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, form.File); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func httpError(status int, body []byte) *Error {
	apiErr := &Error{Kind: KindHTTP, Status: status}
	if gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		if msg := parsed.Get("message").String(); msg != "" {
			apiErr.Message = msg
		} else if msg := parsed.Get("error").String(); msg != "" && parsed.Get("error").Type == gjson.String {
			apiErr.Message = msg
		}
		apiErr.Code = parsed.Get("code").String()
		if apiErr.Code == "" {
			apiErr.Code = parsed.Get("errorCode").String()
		}
	}
	if apiErr.Message == "" {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBodyInMsg {
			text = text[:maxErrorBodyInMsg]
		}
		apiErr.Message = fmt.Sprintf("request failed with status %d", status)
		if text != "" {
			apiErr.Message += ": " + text
		}
	}
	return apiErr
}

type checker interface {
	check() error
}

// decode parses a JSON response into T and runs T's boundary checks.
func decode[T any](resp *Response) (T, error) {
	var out T
	if !resp.IsJSON() {
		return out, decodeError(resp.StatusCode,
			fmt.Sprintf("expected JSON response, got %q", resp.Header.Get("Content-Type")), nil)
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, decodeError(resp.StatusCode, "malformed response from server", err)
	}
	if c, ok := any(&out).(checker); ok {
		if err := c.check(); err != nil {
			return out, decodeError(resp.StatusCode, "unexpected response from server", err)
		}
	}
	return out, nil
}

func call[T any](ctx context.Context, c *Client, r Request) (T, error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](resp)
}

// Download is a binary payload such as a passbook PDF or a KYC document.
type Download struct {
	ContentType string
	Filename    string
	Data        []byte
}

func downloadFrom(resp *Response) Download {
	d := Download{ContentType: resp.Header.Get("Content-Type"), Data: resp.Body}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		d.Filename = params["filename"]
	}
	return d
}

func (c *Client) download(ctx context.Context, r Request) (Download, error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return Download{}, err
	}
	return downloadFrom(resp), nil
}

func pathf(format string, args ...any) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(fmt.Sprint(a))
	}
	return fmt.Sprintf(format, escaped...)
}
