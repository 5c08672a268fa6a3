// Package params holds the ordered parameter list behind a Solr query string
// together with the value formatting and shape normalization it relies on.
package params

import "strings"

// List is an ordered, append-only sequence of "key=value" entries.
// Entries are never reordered or deduplicated; Solr resolves repeated keys.
type List struct {
	entries []string
}

// Add appends key=value. The value is guarded against the characters that
// would otherwise split the pair once the list is joined.
func (l *List) Add(key, value string) {
	l.entries = append(l.entries, key+"="+guard(value))
}

// AddRaw appends an already encoded entry verbatim.
func (l *List) AddRaw(entry string) {
	if entry == "" {
		return
	}
	l.entries = append(l.entries, entry)
}

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Entries returns a copy of the raw entries in insertion order.
func (l *List) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Encode joins the entries with '&' and URI-encodes the result in one pass.
func (l *List) Encode() string {
	return EncodeURI(strings.Join(l.entries, "&"))
}

// guard escapes the bytes that carry structure in a query string.
func guard(v string) string {
	if !strings.ContainsAny(v, "%&+#") {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 8)
	for i := 0; i < len(v); i++ {
		switch c := v[i]; c {
		case '%', '&', '+', '#':
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

// EncodeURI percent-encodes every byte outside the URI unreserved and reserved
// sets. Existing %HH escapes are kept as they are.
func EncodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case keep(c):
			b.WriteByte(c)
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteString(s[i : i+3])
			i += 2
		default:
			b.WriteByte('%')
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0x0f])
		}
	}
	return b.String()
}

// keep reports the bytes written as-is. '#' is escaped even though it is a
// reserved character, since a literal '#' starts the URL fragment.
func keep(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();,/?:@&=+$", c) >= 0
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
