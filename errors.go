package solr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors. Use errors.Is() to check.
var (
	// ErrUsage signals builder misuse. The calling code must be fixed.
	ErrUsage = errors.New("solr: usage error")
	// ErrTransport signals a network failure before a response was received.
	ErrTransport = errors.New("solr: transport error")
	// ErrHTTPStatus signals a response outside the 2xx range.
	ErrHTTPStatus = errors.New("solr: unexpected http status")
	// ErrDecode signals a 2xx response whose body is not valid JSON.
	ErrDecode = errors.New("solr: malformed response body")
)

// UsageError reports an illegal builder call.
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string { return "solr: " + e.Op + ": " + e.Msg }
func (e *UsageError) Unwrap() error { return ErrUsage }

func usageErrorf(op, format string, args ...any) *UsageError {
	return &UsageError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps a network failure for a single request.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("solr: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// HTTPError is returned for non-2xx responses. It carries the request and
// response context and the reason extracted from the server's error page.
type HTTPError struct {
	Method         string
	URL            string
	RequestHeader  http.Header
	StatusCode     int
	Status         string
	ResponseHeader http.Header
	Reason         string
}

// Error returns a multi-line diagnostic: request line and headers, status
// line and headers, then the reason.
func (e *HTTPError) Error() string {
	var b strings.Builder
	b.WriteString(e.Method + " " + e.URL + "\n")
	writeHeaders(&b, e.RequestHeader)
	b.WriteString("\n")
	b.WriteString(e.Status + "\n")
	writeHeaders(&b, e.ResponseHeader)
	b.WriteString("\n")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *HTTPError) Unwrap() error { return ErrHTTPStatus }

func writeHeaders(b *strings.Builder, h http.Header) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.Join(h[k], ", ")
		if strings.EqualFold(k, "Authorization") {
			v = "[redacted]"
		}
		b.WriteString(k + ": " + v + "\n")
	}
}

// DecodeError is returned when a successful response carries malformed JSON.
type DecodeError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("solr: decode %s %s (status %d): %v", e.Method, e.URL, e.StatusCode, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }
