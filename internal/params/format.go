package params

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// DateLayout is the Solr date-time format used in query strings.
const DateLayout = "2006-01-02T15:04:05Z"

// FormatDate renders t in UTC, truncated to the second.
// The zero time is not a valid date and reports false.
func FormatDate(t time.Time) (string, bool) {
	if t.IsZero() {
		return "", false
	}
	return t.UTC().Truncate(time.Second).Format(DateLayout), true
}

// FormatValue renders a scalar parameter value. Pointers are dereferenced.
// It reports false for values that must be omitted (nil, nil pointers, the
// zero time, NaN) and for values that are not scalars (see Scalar).
func FormatValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case time.Time:
		return FormatDate(x)
	case *time.Time:
		if x == nil {
			return "", false
		}
		return FormatDate(*x)
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint:
		return strconv.FormatUint(uint64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case fmt.Stringer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "", false
		}
		return x.String(), true
	default:
		return formatKind(reflect.ValueOf(v))
	}
}

// formatKind handles named scalar types and pointers to scalars.
func formatKind(rv reflect.Value) (string, bool) {
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "", false
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	}
	return "", false
}

// Scalar reports whether v can be rendered as one parameter value. Slices,
// maps, channels, funcs and structs other than time.Time or fmt.Stringer
// cannot. nil and nil pointers count as scalars that are omitted.
func Scalar(v any) bool {
	switch v.(type) {
	case nil, time.Time, fmt.Stringer:
		return true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		return Scalar(rv.Elem().Interface())
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct,
		reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return false
	}
	return true
}

// Flatten expands slice and array arguments one level, so a call made with
// a single []string behaves like the same values passed variadically.
func Flatten(values []any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			out = append(out, v)
			continue
		}
		for i := 0; i < rv.Len(); i++ {
			out = append(out, rv.Index(i).Interface())
		}
	}
	return out
}

func formatFloat(f float64, bits int) (string, bool) {
	if math.IsNaN(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, bits), true
}

// IsString reports whether v renders as a quoted term in a Lucene expression:
// strings, named string types and pointers to them.
func IsString(v any) bool {
	if _, ok := v.(fmt.Stringer); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.String
}
