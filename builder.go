package solr

import (
	"sort"

	"github.com/kailas-cloud/solr/internal/params"
)

// Builder produces an encoded query string. *Query, RawQuery and Params
// implement it.
type Builder interface {
	Build() (string, error)
}

// RawQuery is an already encoded query string, sent as is.
type RawQuery string

// Build returns the string unchanged.
func (r RawQuery) Build() (string, error) { return string(r), nil }

// Params is a parameter mapping encoded as key=value pairs in key order.
// Slice values repeat the key once per element.
type Params map[string]any

// Build encodes the mapping.
func (p Params) Build() (string, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var l params.List
	for _, k := range keys {
		if k == "" {
			return "", usageErrorf("params.build", "empty key")
		}
		switch v := p[k].(type) {
		case []string:
			for _, s := range v {
				l.Add(k, s)
			}
		case []any:
			for _, e := range v {
				if s, ok := params.FormatValue(e); ok {
					l.Add(k, s)
				}
			}
		default:
			if s, ok := params.FormatValue(v); ok {
				l.Add(k, s)
			}
		}
	}
	return l.Encode(), nil
}

func buildQuery(b Builder) (string, error) {
	if b == nil {
		return "", nil
	}
	return b.Build()
}
