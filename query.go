package solr

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/solr/internal/params"
)

// Query is a fluent builder for Solr request parameters. Every method appends
// to an ordered parameter list and returns the receiver. Parameters are never
// deduplicated: calling Q twice sends q twice.
//
// A Query is not safe for concurrent use.
type Query struct {
	list    params.List
	version Version
	err     error
}

// NewQuery returns an empty query for Solr 3.2 semantics.
// Use Client.Query to inherit the client's configured version.
func NewQuery() *Query {
	return &Query{version: Solr3_2}
}

// Build returns the encoded query string, or the first usage error.
// The response format (wt=json) is appended by the client.
func (q *Query) Build() (string, error) {
	if q.err != nil {
		return "", q.err
	}
	return q.list.Encode(), nil
}

// Err returns the first usage error, if any.
func (q *Query) Err() error { return q.err }

// Q sets the main query verbatim.
func (q *Query) Q(query string) *Query {
	return q.add("q", query)
}

// QFields sets q to field:value pairs joined with AND, ordered by field.
func (q *Query) QFields(fields map[string]any) *Query {
	if len(fields) == 0 {
		return q.fail("q", "no fields")
	}
	return q.add("q", params.Pairs(fields, " AND "))
}

// QExpr sets q from a boolean expression. Expression errors surface from Build.
func (q *Query) QExpr(e *Expression) *Query {
	s, err := e.Build()
	if err != nil {
		return q.setErr(err)
	}
	return q.add("q", s)
}

// QOp sets the default operator (AND or OR).
func (q *Query) QOp(op string) *Query { return q.add("q.op", op) }

// Df sets the default search field.
func (q *Query) Df(field string) *Query { return q.add("df", field) }

// DefType selects the query parser.
func (q *Query) DefType(parser string) *Query { return q.add("defType", parser) }

// DisMax selects the dismax parser.
func (q *Query) DisMax() *Query { return q.DefType("dismax") }

// EdisMax selects the extended dismax parser.
func (q *Query) EdisMax() *Query { return q.DefType("edismax") }

// Qt selects a request handler by name.
func (q *Query) Qt(handler string) *Query { return q.add("qt", handler) }

// RequestHandler is an alias for Qt.
func (q *Query) RequestHandler(handler string) *Query { return q.Qt(handler) }

// Fl restricts the returned fields.
func (q *Query) Fl(fields ...string) *Query {
	return q.add("fl", params.CommaList(fields))
}

// Restrict is an alias for Fl.
func (q *Query) Restrict(fields ...string) *Query { return q.Fl(fields...) }

// Start sets the result offset.
func (q *Query) Start(n int) *Query {
	if n < 0 {
		return q.fail("start", "negative offset %d", n)
	}
	return q.add("start", strconv.Itoa(n))
}

// Rows sets the page size.
func (q *Query) Rows(n int) *Query {
	if n < 0 {
		return q.fail("rows", "negative row count %d", n)
	}
	return q.add("rows", strconv.Itoa(n))
}

// CursorMark starts deep paging. Requires a sort on the unique key.
func (q *Query) CursorMark() *Query { return q.add("cursorMark", "*") }

// ResumeCursor continues deep paging from the nextCursorMark of a response.
func (q *Query) ResumeCursor(mark string) *Query {
	if mark == "" {
		return q.fail("cursorMark", "empty mark")
	}
	return q.add("cursorMark", mark)
}

// SortOrder is asc or desc.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// SortField is one sort clause.
type SortField struct {
	Field string
	Order SortOrder
}

// Asc sorts ascending on field.
func Asc(field string) SortField { return SortField{Field: field, Order: Ascending} }

// Desc sorts descending on field.
func Desc(field string) SortField { return SortField{Field: field, Order: Descending} }

// Sort sets the sort clauses in order.
func (q *Query) Sort(fields ...SortField) *Query {
	if len(fields) == 0 {
		return q.fail("sort", "no fields")
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Field == "" {
			return q.fail("sort", "empty field")
		}
		order := f.Order
		if order == "" {
			order = Ascending
		}
		parts = append(parts, f.Field+" "+string(order))
	}
	return q.add("sort", strings.Join(parts, ","))
}

// TimeAllowed bounds search time on the server, in whole milliseconds.
func (q *Query) TimeAllowed(d time.Duration) *Query {
	return q.add("timeAllowed", strconv.FormatInt(d.Milliseconds(), 10))
}

// Timeout is an alias for TimeAllowed.
func (q *Query) Timeout(d time.Duration) *Query { return q.TimeAllowed(d) }

// DebugQuery enables debug output.
func (q *Query) DebugQuery() *Query { return q.add("debugQuery", "true") }

// Debug enables a specific debug section: query, timing, results or all.
func (q *Query) Debug(kind string) *Query { return q.add("debug", kind) }

// Shards sets the shards to query.
func (q *Query) Shards(shards ...string) *Query {
	return q.add("shards", params.CommaList(shards))
}

// Echo sets echoParams (none, explicit or all).
func (q *Query) Echo(mode string) *Query { return q.add("echoParams", mode) }

// Set appends a raw, pre-formatted "key=value" entry.
func (q *Query) Set(raw string) *Query {
	q.list.AddRaw(raw)
	return q
}

// QF sets query field boosts for dismax.
func (q *Query) QF(boosts map[string]float64) *Query { return q.add("qf", params.Weights(boosts)) }

// PF sets phrase field boosts for dismax.
func (q *Query) PF(boosts map[string]float64) *Query { return q.add("pf", params.Weights(boosts)) }

// BQ sets boost queries for dismax.
func (q *Query) BQ(boosts map[string]float64) *Query { return q.add("bq", params.Weights(boosts)) }

// MM sets the minimum should match expression, e.g. "2<75%".
func (q *Query) MM(expr string) *Query { return q.add("mm", expr) }

// PS sets the phrase slop.
func (q *Query) PS(n int) *Query { return q.add("ps", strconv.Itoa(n)) }

// QS sets the query phrase slop.
func (q *Query) QS(n int) *Query { return q.add("qs", strconv.Itoa(n)) }

// Tie sets the tie breaker.
func (q *Query) Tie(v float64) *Query {
	return q.add("tie", strconv.FormatFloat(v, 'f', -1, 64))
}

// BF sets a boost function.
func (q *Query) BF(fn string) *Query { return q.add("bf", fn) }

// Boost sets a multiplicative boost function (edismax).
func (q *Query) Boost(fn string) *Query { return q.add("boost", fn) }

// Filter is a single field:value filter query.
type Filter struct {
	Field string
	Value any
}

// MatchFilter adds fq=field:value. Strings are sent as given so callers can
// pass ranges or phrases. A zero date omits the filter.
func (q *Query) MatchFilter(field string, value any) *Query {
	if field == "" {
		return q.fail("matchFilter", "field is required")
	}
	if !params.Scalar(value) {
		return q.fail("matchFilter", "unsupported value type %T for %q", value, field)
	}
	s, ok := filterValue(value)
	if !ok {
		return q
	}
	return q.add("fq", field+":"+s)
}

// FQ adds one fq per filter.
func (q *Query) FQ(filters ...Filter) *Query {
	for _, f := range filters {
		q.MatchFilter(f.Field, f.Value)
	}
	return q
}

// MultipleFilter adds fq=field:(v1 v2 ...). Slice arguments are expanded.
func (q *Query) MultipleFilter(field string, values ...any) *Query {
	if field == "" {
		return q.fail("multipleFilter", "field is required")
	}
	values = params.Flatten(values)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if !params.Scalar(v) {
			return q.fail("multipleFilter", "unsupported value type %T for %q", v, field)
		}
		if s, ok := filterValue(v); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return q.fail("multipleFilter", "no values for %q", field)
	}
	return q.add("fq", field+":"+params.Disjunction(parts))
}

// Range is an inclusive range on one field. A nil bound is open.
type Range struct {
	Field string
	Start any
	End   any
}

// RangeFilter adds one fq matching every range. Several ranges are joined with AND.
func (q *Query) RangeFilter(ranges ...Range) *Query {
	if len(ranges) == 0 {
		return q.fail("rangeFilter", "no ranges")
	}
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.Field == "" {
			return q.fail("rangeFilter", "field is required")
		}
		if !params.Scalar(r.Start) || !params.Scalar(r.End) {
			return q.fail("rangeFilter", "unsupported bound type %T or %T for %q", r.Start, r.End, r.Field)
		}
		parts = append(parts, r.Field+":["+bound(r.Start)+" TO "+bound(r.End)+"]")
	}
	if len(parts) == 1 {
		return q.add("fq", parts[0])
	}
	return q.add("fq", "("+strings.Join(parts, " AND ")+")")
}

// JoinOptions describes a join filter across cores.
type JoinOptions struct {
	// FromIndex is the core to join from. Empty joins within the same core.
	FromIndex string
	From      string
	To        string
	Field     string
	Value     any
}

var localParamEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// JoinFilter adds fq={!join fromIndex=I from=F to=T v='field:"value"'}.
func (q *Query) JoinFilter(o JoinOptions) *Query {
	if o.From == "" || o.To == "" || o.Field == "" {
		return q.fail("joinFilter", "from, to and field are required")
	}
	if !params.Scalar(o.Value) {
		return q.fail("joinFilter", "unsupported value type %T for %q", o.Value, o.Field)
	}
	t, ok := term(o.Value)
	if !ok {
		return q.fail("joinFilter", "value for %q is empty", o.Field)
	}
	var b strings.Builder
	b.WriteString("{!join ")
	if o.FromIndex != "" {
		b.WriteString("fromIndex=" + o.FromIndex + " ")
	}
	b.WriteString("from=" + o.From + " to=" + o.To)
	b.WriteString(" v='" + localParamEscaper.Replace(o.Field+":"+t) + "'}")
	return q.add("fq", b.String())
}

// Facet adds faceting parameters.
func (q *Query) Facet(o FacetOptions) *Query { return q.addPairs(o.pairs(q.version)) }

// HL adds highlighting parameters.
func (q *Query) HL(o HighlightOptions) *Query { return q.addPairs(o.pairs()) }

// Group adds result grouping parameters.
func (q *Query) Group(o GroupOptions) *Query { return q.addPairs(o.pairs()) }

// GroupBy groups on a single field.
func (q *Query) GroupBy(field string) *Query {
	if field == "" {
		return q.fail("groupBy", "field is required")
	}
	return q.Group(GroupOptions{Fields: []string{field}})
}

// MLT adds MoreLikeThis parameters.
func (q *Query) MLT(o MLTOptions) *Query { return q.addPairs(o.pairs()) }

// Terms adds terms component parameters.
func (q *Query) Terms(o TermsOptions) *Query { return q.addPairs(o.pairs()) }

// Stats adds stats component parameters.
func (q *Query) Stats(o StatsOptions) *Query { return q.addPairs(o.pairs()) }

// Spellcheck adds spellcheck parameters.
func (q *Query) Spellcheck(o SpellcheckOptions) *Query { return q.addPairs(o.pairs()) }

func (q *Query) add(key, value string) *Query {
	if value == "" {
		return q
	}
	q.list.Add(key, value)
	return q
}

func (q *Query) addPairs(p pairs) *Query {
	for _, kv := range p {
		q.list.Add(kv.key, kv.value)
	}
	return q
}

func (q *Query) fail(op, format string, args ...any) *Query {
	return q.setErr(usageErrorf("query."+op, format, args...))
}

func (q *Query) setErr(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// filterValue renders a filter value. Dates are quoted since their colons
// would otherwise be read as field separators.
func filterValue(v any) (string, bool) {
	s, ok := params.FormatValue(v)
	if !ok || s == "" {
		return "", false
	}
	if isDate(v) {
		return quote(s), true
	}
	return s, true
}
