// Package solrtest runs an in-process fake Solr server that records every
// request it receives and answers with canned responses.
package solrtest

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzip"
)

// OK is the body returned for paths without a responder.
const OK = `{"responseHeader":{"status":0,"QTime":1}}`

// Request is a recorded request.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Query parses the URL query, or the form body of a POST.
func (r Request) Query() url.Values {
	raw := r.RawQuery
	if r.Method == http.MethodPost && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		raw = string(r.Body)
	}
	v, _ := url.ParseQuery(raw)
	return v
}

// Server is a fake Solr endpoint.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	requests   []Request
	responders map[string]http.HandlerFunc
}

// New starts a server and stops it when the test ends.
// Middlewares wrap every route, after request recording.
func New(t testing.TB, middlewares ...func(http.Handler) http.Handler) *Server {
	t.Helper()
	s := &Server{responders: map[string]http.HandlerFunc{}}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(middlewares...)
	r.HandleFunc("/*", s.serve)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Handle sets the responder for an exact path, e.g. "/solr/core/select".
func (s *Server) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	s.responders[path] = h
	s.mu.Unlock()
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request. It fails the test if there is none.
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("solrtest: no requests recorded")
	}
	return reqs[len(reqs)-1]
}

// Host returns the listener host.
func (s *Server) Host() string {
	h, _, _ := net.SplitHostPort(s.Listener.Addr().String())
	return h
}

// Port returns the listener port.
func (s *Server) Port() int {
	_, p, _ := net.SplitHostPort(s.Listener.Addr().String())
	n, _ := strconv.Atoi(p)
	return n
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	h, ok := s.responders[r.URL.Path]
	s.mu.Unlock()
	if !ok {
		h = JSON(http.StatusOK, OK)
	}
	h(w, r)
}

// JSON answers with status and a JSON body.
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// Gzip answers 200 with a gzip-compressed JSON body.
func Gzip(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, _ = io.WriteString(zw, body)
		_ = zw.Close()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

// HTMLError answers with the servlet-container error page Solr emits,
// with reason inside a <pre> block. reason must already be HTML-escaped.
func HTMLError(status int, reason string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w,
			"<html>\n<head><title>Error %d</title></head>\n<body><h2>HTTP ERROR %d</h2>\n<p>Problem accessing /solr. Reason:\n<pre>%s</pre></p>\n</body>\n</html>\n",
			status, status, reason)
	}
}
