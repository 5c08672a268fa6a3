// Package dispatch plans Solr HTTP requests: handler paths, GET/POST
// selection by estimated request-line length, and header assembly.
package dispatch

import (
	"net/http"
	"strconv"
	"strings"
)

// Overhead approximates the request-line bytes not covered by host, port
// and path: scheme separator, port colon, leading slash and the like.
const Overhead = 10

// Header values the dispatcher always controls.
const (
	AcceptJSON      = "application/json; charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded; charset=utf-8"
	ContentTypeJSON = "application/json"
	formatParam     = "wt=json"
)

// clusterHandlers are served at the root path, without a core segment.
var clusterHandlers = []string{
	"admin/collections",
	"admin/cores",
	"admin/configs",
	"admin/info",
	"admin/metrics",
	"admin/zookeeper",
	"admin/authentication",
	"admin/authorization",
}

// Target describes where requests go.
type Target struct {
	Secure bool
	Host   string
	Port   int
	Path   string
	Core   string
	// MaxGetLength is the request-line ceiling for GET. Zero or less disables
	// the check and every query goes out as GET.
	MaxGetLength int
}

// Headers carries the per-request header inputs.
type Headers struct {
	Authorization string
	UserAgent     string
	Gzip          bool
	Custom        http.Header
}

// Descriptor is a fully planned request.
type Descriptor struct {
	Method string
	// URI is the path plus query string.
	URI    string
	Header http.Header
	Body   []byte
}

// BaseURL returns scheme://host:port.
func (t Target) BaseURL() string {
	scheme := "http"
	if t.Secure {
		scheme = "https"
	}
	return scheme + "://" + t.Host + ":" + strconv.Itoa(t.Port)
}

// URL returns the absolute URL of d.
func (t Target) URL(d Descriptor) string {
	return t.BaseURL() + d.URI
}

// IsClusterHandler reports whether handler lives outside any core.
func IsClusterHandler(handler string) bool {
	h := strings.Trim(handler, "/")
	for _, c := range clusterHandlers {
		if h == c || strings.HasPrefix(h, c+"/") {
			return true
		}
	}
	return false
}

// HandlerPath joins root path, core and handler, dropping empty segments.
// Cluster-level handlers never carry the core segment.
func (t Target) HandlerPath(handler string) string {
	core := t.Core
	if IsClusterHandler(handler) {
		core = ""
	}
	var segs []string
	for _, s := range []string{t.Path, core, handler} {
		if s = strings.Trim(s, "/"); s != "" {
			segs = append(segs, s)
		}
	}
	return "/" + strings.Join(segs, "/")
}

// Estimate approximates the length of the GET request line for query
// sent to path. It grows strictly with len(query).
func (t Target) Estimate(path, query string) int {
	return Overhead + len(t.Host) + len(strconv.Itoa(t.Port)) + len(getURI(path, query))
}

// UseGet reports whether a query of this size may be sent as GET.
func (t Target) UseGet(path, query string) bool {
	return t.MaxGetLength <= 0 || t.Estimate(path, query) <= t.MaxGetLength
}

// PlanQuery builds a read request for handler. The query string goes in the
// URL when it fits under the ceiling, otherwise in a form-encoded POST body.
func (t Target) PlanQuery(handler, query string, h Headers) Descriptor {
	path := t.HandlerPath(handler)
	if t.UseGet(path, query) {
		return Descriptor{
			Method: http.MethodGet,
			URI:    getURI(path, query),
			Header: h.build(nil),
		}
	}
	body := []byte(query)
	return Descriptor{
		Method: http.MethodPost,
		URI:    path + "?" + formatParam,
		Header: h.build(http.Header{
			"Content-Type":   {ContentTypeForm},
			"Content-Length": {strconv.Itoa(len(body))},
		}),
		Body: body,
	}
}

// PlanUpdate builds a JSON POST for handler with query parameters in the URL.
func (t Target) PlanUpdate(handler, query string, body []byte, h Headers) Descriptor {
	return Descriptor{
		Method: http.MethodPost,
		URI:    getURI(t.HandlerPath(handler), query),
		Header: h.build(http.Header{
			"Content-Type":   {ContentTypeJSON},
			"Content-Length": {strconv.Itoa(len(body))},
		}),
		Body: body,
	}
}

func getURI(path, query string) string {
	if query == "" {
		return path + "?" + formatParam
	}
	return path + "?" + query + "&" + formatParam
}

// build layers computed defaults, caller overrides, then the headers the
// caller may not override.
func (h Headers) build(computed http.Header) http.Header {
	out := http.Header{}
	if h.UserAgent != "" {
		out.Set("User-Agent", h.UserAgent)
	}
	if h.Gzip {
		out.Set("Accept-Encoding", "gzip")
	}
	for k, v := range computed {
		out[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	for k, v := range h.Custom {
		out[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	out.Set("Accept", AcceptJSON)
	if h.Authorization != "" {
		out.Set("Authorization", h.Authorization)
	}
	return out
}
