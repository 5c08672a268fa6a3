// Package solrerr extracts a human readable reason from Solr error bodies.
package solrerr

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

var preBlock = regexp.MustCompile(`(?s)<pre>(.+?)</pre>`)

var entities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&apos;", "'",
	"&#39;", "'",
	"&quot;", `"`,
	"&amp;", "&",
)

// Reason returns the most specific explanation available in an error body:
// the <pre> block of an HTML error page, the "error.msg" of a JSON error
// response, the raw body, or status when the body is empty.
func Reason(body []byte, status string) string {
	if m := preBlock.FindSubmatch(body); m != nil {
		return DecodeEntities(strings.TrimSpace(string(m[1])))
	}
	if msg := jsonMessage(body); msg != "" {
		return msg
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		return raw
	}
	return status
}

// DecodeEntities decodes the fixed set of HTML entities Solr emits.
func DecodeEntities(s string) string {
	return entities.Replace(s)
}

func jsonMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		return parsed.Error.Msg
	}
	return ""
}
