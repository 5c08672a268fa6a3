package solr

import (
	"net/http"
	"testing"
	"time"
)

func TestOptions_Apply(t *testing.T) {
	hc := &http.Client{}
	cfg := defaultConfig()
	for _, o := range []Option{
		WithHost("solr.local"),
		WithPort(8984),
		WithCore("books"),
		WithPath("/search"),
		WithTLS(),
		WithBigInt(true),
		WithBasicAuth("user", "pass"),
		WithIPVersion(4),
		WithGetMaxLength(2048),
		WithSolrVersion("7.7"),
		WithHeader("X-Tenant", "a"),
		WithUserAgent("app/1"),
		WithCompression(),
		WithHTTPClient(hc),
		WithTimeout(3 * time.Second),
	} {
		o.apply(cfg)
	}

	if cfg.host != "solr.local" || cfg.port != 8984 || cfg.core != "books" || cfg.path != "/search" {
		t.Errorf("location = %s:%d%s/%s", cfg.host, cfg.port, cfg.path, cfg.core)
	}
	if !cfg.secure || !cfg.bigint || !cfg.gzip {
		t.Errorf("flags secure=%v bigint=%v gzip=%v", cfg.secure, cfg.bigint, cfg.gzip)
	}
	if cfg.authorization != "Basic dXNlcjpwYXNz" {
		t.Errorf("authorization = %q, want %q", cfg.authorization, "Basic dXNlcjpwYXNz")
	}
	if cfg.ipVersion != 4 || cfg.maxGetLength != 2048 {
		t.Errorf("ipVersion = %d, maxGetLength = %d", cfg.ipVersion, cfg.maxGetLength)
	}
	if cfg.version != (Version{7, 7}) || cfg.versionErr != nil {
		t.Errorf("version = %v, err = %v", cfg.version, cfg.versionErr)
	}
	if cfg.headers.Get("X-Tenant") != "a" || cfg.userAgent != "app/1" {
		t.Errorf("headers = %v, userAgent = %q", cfg.headers, cfg.userAgent)
	}
	if cfg.httpClient != hc || cfg.timeout != 3*time.Second {
		t.Errorf("httpClient/timeout not applied")
	}
}

func TestOptions_AuthorizationOverridesBasic(t *testing.T) {
	cfg := defaultConfig()
	WithBasicAuth("u", "p").apply(cfg)
	WithAuthorization("Bearer abc").apply(cfg)
	if cfg.authorization != "Bearer abc" {
		t.Errorf("authorization = %q, want %q", cfg.authorization, "Bearer abc")
	}
}

func TestNew_SecureBaseURL(t *testing.T) {
	c, err := New(WithHost("solr.example.com"), WithPort(443), WithTLS(), WithCore("c"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := c.snapshot()
	if got := r.target.BaseURL(); got != "https://solr.example.com:443" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := r.target.HandlerPath("select"); got != "/solr/c/select" {
		t.Errorf("HandlerPath() = %q", got)
	}
}
