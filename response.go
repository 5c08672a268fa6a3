package solr

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Response is a decoded Solr JSON response. With WithBigInt, numbers are
// json.Number values holding the exact literal.
type Response map[string]any

// Status returns responseHeader.status, or -1 when absent.
func (r Response) Status() int {
	if n, ok := toInt(r.header()["status"]); ok {
		return n
	}
	return -1
}

// QTime returns responseHeader.QTime as a duration.
func (r Response) QTime() time.Duration {
	n, _ := toInt(r.header()["QTime"])
	return time.Duration(n) * time.Millisecond
}

// NumFound returns response.numFound, or -1 when absent.
func (r Response) NumFound() int64 {
	body, _ := r["response"].(map[string]any)
	if n, ok := toInt64(body["numFound"]); ok {
		return n
	}
	return -1
}

// Docs returns response.docs, or response.docs of a real-time get with
// several ids, or the single doc of a real-time get with one id.
func (r Response) Docs() []map[string]any {
	if body, ok := r["response"].(map[string]any); ok {
		return toMaps(body["docs"])
	}
	if doc, ok := r["doc"].(map[string]any); ok {
		return []map[string]any{doc}
	}
	return nil
}

// NextCursorMark returns the mark for the next page of a cursor query.
func (r Response) NextCursorMark() string {
	s, _ := r["nextCursorMark"].(string)
	return s
}

// Decode copies the response into out (a pointer to struct or map) using
// json struct tags. Numbers convert to the target field type.
func (r Response) Decode(out any) error {
	return decodeInto(map[string]any(r), out)
}

// DecodeDocs decodes the result documents into out, a pointer to a slice.
func (r Response) DecodeDocs(out any) error {
	docs := r.Docs()
	if docs == nil {
		docs = []map[string]any{}
	}
	return decodeInto(docs, out)
}

func (r Response) header() map[string]any {
	h, _ := r["responseHeader"].(map[string]any)
	return h
}

func decodeInto(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberHook,
			timestampHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	})
	if err != nil {
		return fmt.Errorf("solr: decode response: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("solr: decode response: %w", err)
	}
	return nil
}

// numberHook converts json.Number style values (any fmt.Stringer of kind
// string carrying a literal) into the target numeric kind without going
// through float64.
func numberHook(from, to reflect.Type, data any) (any, error) {
	type number interface{ String() string }
	n, ok := data.(number)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	s := n.String()
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.ParseInt(s, 10, 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseUint(s, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(s, 64)
	case reflect.String:
		return s, nil
	}
	return data, nil
}

var timestampType = reflect.TypeOf(Timestamp{})

func timestampHook(from, to reflect.Type, data any) (any, error) {
	if to != timestampType || from.Kind() != reflect.String {
		return data, nil
	}
	t, err := time.Parse(time.RFC3339Nano, fmt.Sprint(data))
	if err != nil {
		return nil, err
	}
	return Timestamp(t), nil
}

func toMaps(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	n, ok := toInt64(v)
	return int(n), ok
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case interface{ Int64() (int64, error) }:
		n, err := x.Int64()
		return n, err == nil
	}
	return 0, false
}
