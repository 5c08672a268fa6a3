package solr

import (
	"time"
)

// JSONDateLayout is the date format used in update bodies.
const JSONDateLayout = "2006-01-02T15:04:05.000Z"

// Document is a Solr document. time.Time values anywhere inside it are sent
// as UTC dates with millisecond precision.
type Document map[string]any

// Timestamp is a time.Time that marshals in JSONDateLayout.
// Use it for date fields of struct documents. The zero value marshals as null.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + tt.UTC().Format(JSONDateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts any RFC 3339 date.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*t = Timestamp{}
		return nil
	}
	tt, err := time.Parse(`"`+time.RFC3339Nano+`"`, s)
	if err != nil {
		return err
	}
	*t = Timestamp(tt)
	return nil
}

// Time returns the underlying time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// prepareDates returns a copy of v with every time.Time inside maps and
// slices replaced by a Timestamp. Other values are returned as they are.
func prepareDates(v any) any {
	switch x := v.(type) {
	case time.Time:
		return Timestamp(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return Timestamp(*x)
	case Document:
		return prepareMap(x)
	case map[string]any:
		return prepareMap(x)
	case []Document:
		out := make([]any, len(x))
		for i, d := range x {
			out[i] = prepareMap(d)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, d := range x {
			out[i] = prepareMap(d)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = prepareDates(e)
		}
		return out
	}
	return v
}

func prepareMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = prepareDates(v)
	}
	return out
}
