package solr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/kailas-cloud/solr/internal/codec"
	"github.com/kailas-cloud/solr/internal/dispatch"
	"github.com/kailas-cloud/solr/internal/solrerr"
	"github.com/kailas-cloud/solr/internal/version"
)

const (
	defaultDialTimeout = 30 * time.Second
	defaultKeepAlive   = 30 * time.Second
)

// DefaultUserAgent is sent unless WithUserAgent or WithHeader overrides it.
var DefaultUserAgent = version.UserAgent("solr-go")

// Client talks to one Solr server. Every call issues exactly one HTTP request;
// there is no retry, caching or batching. Safe for concurrent use.
type Client struct {
	mu  sync.RWMutex
	cfg clientConfig

	http  *http.Client
	codec codec.Codec
	obs   *observer
}

// New creates a Solr client. No connection is made until the first request.
func New(opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.versionErr != nil {
		return nil, cfg.versionErr
	}
	if cfg.host == "" {
		return nil, errors.New("solr: host required")
	}
	if cfg.port <= 0 || cfg.port > 65535 {
		return nil, fmt.Errorf("solr: invalid port %d", cfg.port)
	}
	if cfg.ipVersion != 0 && cfg.ipVersion != 4 && cfg.ipVersion != 6 {
		return nil, fmt.Errorf("solr: invalid ip version %d (want 4 or 6)", cfg.ipVersion)
	}
	if cfg.userAgent == "" {
		cfg.userAgent = DefaultUserAgent
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, cfg.tracerProvider)
	if err != nil {
		return nil, err
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = newHTTPClient(cfg)
	}

	return &Client{
		cfg:   *cfg,
		http:  hc,
		codec: codec.For(cfg.bigint),
		obs:   obs,
	}, nil
}

func newHTTPClient(cfg *clientConfig) *http.Client {
	network := "tcp"
	switch cfg.ipVersion {
	case 4:
		network = "tcp4"
	case 6:
		network = "tcp6"
	}
	dialer := &net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, addr)
	}
	// Accept-Encoding is managed explicitly by WithCompression.
	tr.DisableCompression = true
	return &http.Client{Transport: tr, Timeout: cfg.timeout}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// BasicAuth sets HTTP basic credentials for subsequent requests.
// Requests already in flight keep the credentials they started with.
func (c *Client) BasicAuth(user, password string) *Client {
	c.mu.Lock()
	c.cfg.authorization = basicAuthorization(user, password)
	c.mu.Unlock()
	return c
}

// Unauth clears the Authorization header for subsequent requests.
func (c *Client) Unauth() *Client {
	c.mu.Lock()
	c.cfg.authorization = ""
	c.mu.Unlock()
	return c
}

// Query returns an empty query bound to the client's Solr version.
func (c *Client) Query() *Query {
	return &Query{version: c.snapshot().version}
}

// request is the configuration one call works with.
type request struct {
	target  dispatch.Target
	headers dispatch.Headers
	version Version
}

func (c *Client) snapshot() request {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return request{
		target: dispatch.Target{
			Secure:       c.cfg.secure,
			Host:         c.cfg.host,
			Port:         c.cfg.port,
			Path:         c.cfg.path,
			Core:         c.cfg.core,
			MaxGetLength: c.cfg.maxGetLength,
		},
		headers: dispatch.Headers{
			Authorization: c.cfg.authorization,
			UserAgent:     c.cfg.userAgent,
			Gzip:          c.cfg.gzip,
			Custom:        c.cfg.headers.Clone(),
		},
		version: c.cfg.version,
	}
}

// DoQuery sends q to handler (for example "select") and decodes the JSON
// response. The query goes out as GET unless it exceeds the configured
// request-line ceiling, in which case it is sent as a form-encoded POST.
// A nil q sends no parameters besides wt=json.
func (c *Client) DoQuery(ctx context.Context, handler string, q Builder) (Response, error) {
	query, err := buildQuery(q)
	if err != nil {
		return nil, err
	}
	r := c.snapshot()
	return c.execute(ctx, handler, r.target, r.target.PlanQuery(handler, query, r.headers))
}

// Update posts data as JSON to the update handler. params are sent in the
// URL (for example commit=true). time.Time values inside maps and slices are
// sent with millisecond precision.
func (c *Client) Update(ctx context.Context, data any, params Builder) (Response, error) {
	query, err := buildQuery(params)
	if err != nil {
		return nil, err
	}
	body, err := c.codec.Marshal(prepareDates(data))
	if err != nil {
		return nil, fmt.Errorf("solr: encode update: %w", err)
	}
	r := c.snapshot()
	handler := updateHandler(r.version)
	return c.execute(ctx, handler, r.target, r.target.PlanUpdate(handler, query, body, r.headers))
}

func updateHandler(v Version) string {
	if v.AtLeast(Solr4_0) {
		return "update"
	}
	return "update/json"
}

func (c *Client) execute(ctx context.Context, handler string, t dispatch.Target, d dispatch.Descriptor) (Response, error) {
	url := t.URL(d)
	ctx, x := c.obs.begin(ctx, handler, d.Method, t.HandlerPath(handler), d.Header)

	var body io.Reader = http.NoBody
	if d.Body != nil {
		body = bytes.NewReader(d.Body)
	}
	req, err := http.NewRequestWithContext(ctx, d.Method, url, body)
	if err != nil {
		err = &TransportError{Method: d.Method, URL: url, Err: err}
		c.obs.end(x, 0, err)
		return nil, err
	}
	req.Header = d.Header

	resp, err := c.http.Do(req)
	if err != nil {
		err = &TransportError{Method: d.Method, URL: url, Err: err}
		c.obs.end(x, 0, err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		err = &TransportError{Method: d.Method, URL: url, Err: fmt.Errorf("read body: %w", err)}
		c.obs.end(x, resp.StatusCode, err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{
			Method:         d.Method,
			URL:            url,
			RequestHeader:  d.Header.Clone(),
			StatusCode:     resp.StatusCode,
			Status:         resp.Status,
			ResponseHeader: resp.Header.Clone(),
			Reason:         solrerr.Reason(raw, resp.Status),
		}
		c.obs.end(x, resp.StatusCode, herr)
		return nil, herr
	}

	var out Response
	if err := c.codec.Unmarshal(raw, &out); err != nil {
		derr := &DecodeError{Method: d.Method, URL: url, StatusCode: resp.StatusCode, Err: err}
		c.obs.end(x, resp.StatusCode, derr)
		return nil, derr
	}
	c.obs.end(x, resp.StatusCode, nil)
	return out, nil
}

// readBody reads the whole body, inflating it when the server gzipped it.
func readBody(resp *http.Response) ([]byte, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.ReadAll(resp.Body)
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
