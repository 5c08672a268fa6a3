package solrtest

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestServer_RecordsAndResponds(t *testing.T) {
	s := New(t)
	s.Handle("/solr/core/select", JSON(http.StatusOK, `{"response":{"numFound":1}}`))

	resp, err := http.Post(s.URL+"/solr/core/select?wt=json", "application/x-www-form-urlencoded", strings.NewReader("q=*:*"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if string(body) != `{"response":{"numFound":1}}` {
		t.Errorf("body = %q", body)
	}
	got := s.Last(t)
	if got.Method != http.MethodPost || got.Path != "/solr/core/select" {
		t.Errorf("request = %s %s", got.Method, got.Path)
	}
	if q := got.Query().Get("q"); q != "*:*" {
		t.Errorf("form q = %q, want %q", q, "*:*")
	}
}

func TestServer_DefaultResponder(t *testing.T) {
	s := New(t)
	resp, err := http.Get(s.URL + "/solr/anything")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != OK {
		t.Errorf("body = %q, want %q", body, OK)
	}
	if s.Port() == 0 || s.Host() == "" {
		t.Errorf("host/port not resolved: %q %d", s.Host(), s.Port())
	}
}

func TestBasicAuth(t *testing.T) {
	s := New(t, BasicAuth("solr", "secret"))

	tests := []struct {
		name string
		user string
		pass string
		set  bool
		want int
	}{
		{"missing", "", "", false, http.StatusUnauthorized},
		{"wrong", "solr", "nope", true, http.StatusUnauthorized},
		{"valid", "solr", "secret", true, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, s.URL+"/solr/core/select", http.NoBody)
			if tt.set {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
