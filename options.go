package solr

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	host          string
	port          int
	core          string
	path          string
	secure        bool
	bigint        bool
	authorization string
	ipVersion     int
	maxGetLength  int
	version       Version
	versionErr    error

	headers    http.Header
	userAgent  string
	gzip       bool
	httpClient *http.Client
	timeout    time.Duration

	logger         *zap.Logger
	metricsReg     prometheus.Registerer
	tracerProvider trace.TracerProvider
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		host:    "127.0.0.1",
		port:    8983,
		path:    "/solr",
		version: Solr3_2,
		headers: http.Header{},
	}
}

// WithHost sets the Solr host. Default: 127.0.0.1.
func WithHost(host string) Option {
	return optionFunc(func(c *clientConfig) {
		c.host = host
	})
}

// WithPort sets the Solr port. Default: 8983.
func WithPort(port int) Option {
	return optionFunc(func(c *clientConfig) {
		c.port = port
	})
}

// WithCore sets the core (or collection) every non-cluster request targets.
func WithCore(core string) Option {
	return optionFunc(func(c *clientConfig) {
		c.core = core
	})
}

// WithPath sets the root path. Default: /solr.
func WithPath(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.path = path
	})
}

// WithTLS switches the scheme to https.
func WithTLS() Option {
	return optionFunc(func(c *clientConfig) {
		c.secure = true
	})
}

// WithBigInt selects literal-preserving number decoding. Integers beyond
// 2^53 (for example _version_) come back as json.Number. Slower; off by default.
func WithBigInt(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.bigint = enabled
	})
}

// WithBasicAuth sets HTTP basic credentials.
func WithBasicAuth(user, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.authorization = basicAuthorization(user, password)
	})
}

// WithAuthorization sets a raw Authorization header value, e.g. "Bearer ...".
func WithAuthorization(value string) Option {
	return optionFunc(func(c *clientConfig) {
		c.authorization = value
	})
}

// WithIPVersion pins name resolution to IPv4 (4) or IPv6 (6).
// Ignored when WithHTTPClient is used.
func WithIPVersion(v int) Option {
	return optionFunc(func(c *clientConfig) {
		c.ipVersion = v
	})
}

// WithGetMaxLength sets the request-line ceiling above which queries are sent
// as form-encoded POST. Zero (default) disables the ceiling.
func WithGetMaxLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxGetLength = n
	})
}

// WithSolrVersion sets the protocol version marker, e.g. "8.11".
// Default: 3.2, which routes JSON updates to update/json.
func WithSolrVersion(v string) Option {
	return optionFunc(func(c *clientConfig) {
		c.version, c.versionErr = ParseVersion(v)
	})
}

// WithHeader adds a header to every request. Caller headers win over
// computed defaults but never over Accept or a configured Authorization.
func WithHeader(key, value string) Option {
	return optionFunc(func(c *clientConfig) {
		c.headers.Add(key, value)
	})
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) Option {
	return optionFunc(func(c *clientConfig) {
		c.userAgent = ua
	})
}

// WithCompression requests gzip responses and decodes them.
func WithCompression() Option {
	return optionFunc(func(c *clientConfig) {
		c.gzip = true
	})
}

// WithHTTPClient sets the underlying HTTP client.
// Timeouts and proxies are configured there.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the overall timeout of the default HTTP client.
// There is no timeout unless one is set here, in WithHTTPClient or on ctx.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithLogger enables structured logging of requests.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (request counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.tracerProvider = tp
	})
}

func basicAuthorization(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}
