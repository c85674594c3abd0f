// Package aeroapi is a client for FlightAware AeroAPI v4.
//
// A Client renders typed requests into URLs, authenticates them with the x-apikey header,
// accepts only HTTP 200 and decodes the JSON body. Airport, operator and aircraft-type lookups
// are merged into an optional ReferenceCache so locally curated fields survive network refreshes.
package aeroapi

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/tgulacsi/go/iohlp"
	"github.com/tidwall/pretty"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://aeroapi.flightaware.com/aeroapi"
	DefaultTimeout = 10 * time.Second

	apiKeyHeader = "x-apikey"
	// Bodies above this size are spooled to a temp file while reading.
	bodyMemoryLimit = 1 << 20
)

// MetricsRecorder receives one call per API operation and one per cache merge.
type MetricsRecorder interface {
	RecordCall(ctx context.Context, operation string, err error)
	RecordMerge(ctx context.Context, entity string, outcome MergeOutcome)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	tracer  trace.Tracer
	cache   *ReferenceCache
	metrics MetricsRecorder
	timeout time.Duration

	apiKey   atomic.Pointer[string]
	debug    atomic.Bool
	showURLs atomic.Bool
}

type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.SetAPIKey(key) }
}

// WithBaseURL overrides scheme, host and base path, mostly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the timeout on a copy of the HTTP client, so a client passed through
// WithHTTPClient is left untouched. It may appear before or after WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

func WithCache(cache *ReferenceCache) Option {
	return func(c *Client) { c.cache = cache }
}

func WithMetrics(m MetricsRecorder) Option {
	return func(c *Client) { c.metrics = m }
}

func WithDebug(on bool) Option {
	return func(c *Client) { c.SetDebug(on) }
}

func WithShowHTTPRequestURLs(on bool) Option {
	return func(c *Client) { c.SetShowHTTPRequestURLs(on) }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
		tracer:  noop.NewTracerProvider().Tracer("aeroapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// SetAPIKey may be called while requests are in flight; later requests use the new key.
func (c *Client) SetAPIKey(key string) {
	key = strings.TrimSpace(key)
	c.apiKey.Store(&key)
}

// SetDebug logs every raw response body.
func (c *Client) SetDebug(on bool) { c.debug.Store(on) }

// SetShowHTTPRequestURLs logs every resolved request URL.
func (c *Client) SetShowHTTPRequestURLs(on bool) { c.showURLs.Store(on) }

// Cache returns the reference cache the client merges into, or nil.
func (c *Client) Cache() *ReferenceCache { return c.cache }

// Do sends r and decodes the body into T.
func Do[T any](ctx context.Context, c *Client, r Request) (T, error) {
	return do[T](ctx, c, r, nil)
}

// do runs check on the decoded value before reporting success, so domain-level failures are
// traced and counted like any other.
func do[T any](ctx context.Context, c *Client, r Request, check func(*T) error) (T, error) {
	var out T
	err := c.execute(ctx, r, func(body []byte) error {
		if err := decode(body, &out, r.Operation()); err != nil {
			return err
		}
		if check != nil {
			return check(&out)
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func decode(body []byte, v any, target string) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Target: target, Payload: body, Err: err}
	}
	return nil
}

// Raw sends r and returns the undecoded body.
func (c *Client) Raw(ctx context.Context, r Request) ([]byte, error) {
	var out []byte
	err := c.execute(ctx, r, func(body []byte) error {
		out = body
		return nil
	})
	return out, err
}

var (
	errFieldMissing = errors.New("field missing from response")
	errEmptyPayload = errors.New("empty payload")
)

// Binary sends r and base64-decodes the string stored under field in the JSON envelope.
func (c *Client) Binary(ctx context.Context, r Request, field string) ([]byte, error) {
	var out []byte
	err := c.execute(ctx, r, func(body []byte) error {
		var envelope map[string]json.RawMessage
		if err := decode(body, &envelope, r.Operation()); err != nil {
			return err
		}
		raw, ok := envelope[field]
		if !ok {
			return &BinaryDecodeError{Field: field, Err: errFieldMissing}
		}
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return &BinaryDecodeError{Field: field, Err: err}
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return &BinaryDecodeError{Field: field, Err: err}
		}
		if len(data) == 0 {
			return &BinaryDecodeError{Field: field, Err: errEmptyPayload}
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) execute(ctx context.Context, r Request, handle func([]byte) error) error {
	op := r.Operation()
	ctx, span := c.tracer.Start(ctx, "aeroapi."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := c.roundTrip(ctx, span, r, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", KindOf(err).String()))
		c.logger.Debug("AeroAPI call failed",
			zap.String("operation", op),
			zap.Stringer("kind", KindOf(err)),
			zap.Error(err))
	}
	if c.metrics != nil {
		c.metrics.RecordCall(ctx, op, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, span trace.Span, r Request, handle func([]byte) error) error {
	key := c.apiKey.Load()
	if key == nil || *key == "" {
		return &MissingCredentialError{}
	}

	target, err := c.buildURL(r)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("http.url", target))
	if c.showURLs.Load() {
		c.logger.Info("aeroapi request", zap.String("operation", r.Operation()), zap.String("url", target))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &URLBuildError{Path: target, Err: err}
	}
	req.Header.Set(apiKeyHeader, *key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{URL: target, Err: err}
	}
	sr, err := iohlp.MakeSectionReader(resp.Body, bodyMemoryLimit)
	resp.Body.Close()
	if err != nil {
		return &NetworkError{URL: target, Err: err}
	}
	body, err := io.ReadAll(sr)
	if err != nil {
		return &NetworkError{URL: target, Err: err}
	}

	span.SetAttributes(
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.Int("http.response_size", len(body)),
	)
	if resp.StatusCode != http.StatusOK {
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: body}
	}
	if c.debug.Load() {
		c.logger.Info("aeroapi response",
			zap.String("operation", r.Operation()),
			zap.ByteString("body", pretty.Pretty(body)))
	}
	return handle(body)
}

func (c *Client) buildURL(r Request) (string, error) {
	path, err := r.Path()
	if err != nil {
		return "", err
	}
	params, err := RenderQuery(r.Filters())
	if err != nil {
		return "", err
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", &URLBuildError{Path: path, Err: err}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &URLBuildError{Path: path, Err: errors.New("base url is not absolute")}
	}
	u.RawQuery = encodeQuery(params)
	return u.String(), nil
}

func (c *Client) recordMerge(ctx context.Context, entity, key string, outcome MergeOutcome) {
	c.logger.Debug("Reference cache merge",
		zap.String("entity", entity),
		zap.String("key", key),
		zap.Stringer("outcome", outcome))
	if c.metrics != nil {
		c.metrics.RecordMerge(ctx, entity, outcome)
	}
}

func (c *Client) mergeAirport(ctx context.Context, fresh Airport, key string) Airport {
	if c.cache == nil {
		return fresh
	}
	merged, outcome := c.cache.MergeAirport(fresh, key)
	c.recordMerge(ctx, "airport", key, outcome)
	return merged
}

func (c *Client) mergeAirline(ctx context.Context, fresh Airline, key string) Airline {
	if c.cache == nil {
		return fresh
	}
	merged, outcome := c.cache.MergeAirline(fresh, key)
	c.recordMerge(ctx, "airline", key, outcome)
	return merged
}

func (c *Client) mergeAircraft(ctx context.Context, fresh Aircraft, key string) Aircraft {
	if c.cache == nil {
		return fresh
	}
	merged, outcome := c.cache.MergeAircraft(fresh, key)
	c.recordMerge(ctx, "aircraft", key, outcome)
	return merged
}
