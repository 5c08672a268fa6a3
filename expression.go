package solr

import (
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/solr/internal/params"
)

type exprState int

const (
	exprIdle exprState = iota
	exprPredicateOpen
)

// Expression builds Lucene boolean query strings from field predicates.
//
//	q := solr.NewExpression().
//	    Where("type").Equals("book").
//	    Begin().Where("year").Gt(2000).Or().Where("tag").In("classic", "award").End()
//	// type:"book" AND ( year:[2000 TO *] OR tag:("classic" "award") )
//
// Every Where must be closed by exactly one of Equals, In, InDelimited,
// Between, Lt or Gt. Misuse is recorded and returned by Build.
type Expression struct {
	tokens []string
	state  exprState
	field  string
	// noPrefix suppresses the AND before the next predicate or group.
	noPrefix bool
	depth    int
	err      error
}

// NewExpression returns an empty expression. An empty expression builds to *:*.
func NewExpression() *Expression {
	return &Expression{noPrefix: true}
}

// Where opens a predicate on field. With a value it is closed right away
// through Equals.
func (e *Expression) Where(field string, value ...any) *Expression {
	switch {
	case e.state == exprPredicateOpen:
		return e.fail("where", "predicate on %q is still open", e.field)
	case field == "":
		return e.fail("where", "field is required")
	case len(value) > 1:
		return e.fail("where", "at most one value, got %d", len(value))
	}
	e.prefix()
	e.state = exprPredicateOpen
	e.field = field
	if len(value) == 1 {
		return e.Equals(value[0])
	}
	return e
}

// Equals closes the predicate with an exact match. Strings and dates are quoted.
func (e *Expression) Equals(value any) *Expression {
	if !e.open("equals") {
		return e
	}
	if !params.Scalar(value) {
		return e.fail("equals", "unsupported value type %T for %q", value, e.field)
	}
	t, ok := term(value)
	if !ok {
		return e.fail("equals", "value for %q is empty", e.field)
	}
	return e.close(t)
}

// In closes the predicate with a disjunction of values. Slice arguments are
// expanded, so In(tags) and In(tags...) build the same clause.
func (e *Expression) In(values ...any) *Expression {
	if !e.open("in") {
		return e
	}
	values = params.Flatten(values)
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if !params.Scalar(v) {
			return e.fail("in", "unsupported value type %T for %q", v, e.field)
		}
		if t, ok := term(v); ok {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return e.fail("in", "no values for %q", e.field)
	}
	return e.close(params.Disjunction(parts))
}

// InDelimited is In over a delimited string. An empty separator means ",".
func (e *Expression) InDelimited(list, sep string) *Expression {
	items := params.Split(list, sep)
	values := make([]any, len(items))
	for i, it := range items {
		values[i] = it
	}
	return e.In(values...)
}

// Between closes the predicate with the inclusive range [start TO end].
// A nil bound (or zero time) is open: *.
func (e *Expression) Between(start, end any) *Expression {
	if !e.open("between") {
		return e
	}
	if !params.Scalar(start) || !params.Scalar(end) {
		return e.fail("between", "unsupported bound type %T or %T for %q", start, end, e.field)
	}
	return e.close("[" + bound(start) + " TO " + bound(end) + "]")
}

// Lt is Between(nil, value).
func (e *Expression) Lt(value any) *Expression { return e.Between(nil, value) }

// Gt is Between(value, nil).
func (e *Expression) Gt(value any) *Expression { return e.Between(value, nil) }

// Begin opens a parenthesized group.
func (e *Expression) Begin() *Expression {
	if e.state == exprPredicateOpen {
		return e.fail("begin", "predicate on %q is still open", e.field)
	}
	e.prefix()
	e.tokens = append(e.tokens, "(")
	e.depth++
	e.noPrefix = true
	return e
}

// End closes the innermost group.
func (e *Expression) End() *Expression {
	switch {
	case e.state == exprPredicateOpen:
		return e.fail("end", "predicate on %q is still open", e.field)
	case e.depth == 0:
		return e.fail("end", "no open group")
	}
	e.tokens = append(e.tokens, ")")
	e.depth--
	e.noPrefix = false
	return e
}

// Or joins the previous and the next item with OR.
func (e *Expression) Or() *Expression {
	if e.state == exprPredicateOpen {
		return e.fail("or", "predicate on %q is still open", e.field)
	}
	e.tokens = append(e.tokens, "OR")
	e.noPrefix = true
	return e
}

// Any adds a group matching any of the field/value pairs, ordered by field.
func (e *Expression) Any(conditions map[string]any) *Expression {
	if len(conditions) == 0 {
		return e
	}
	fields := make([]string, 0, len(conditions))
	for f := range conditions {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	e.Begin()
	for i, f := range fields {
		if i > 0 {
			e.Or()
		}
		e.Where(f).Equals(conditions[f])
	}
	return e.End()
}

// Err returns the first usage error, if any.
func (e *Expression) Err() error { return e.err }

// Build returns the expression, or *:* when nothing was added.
func (e *Expression) Build() (string, error) {
	switch {
	case e.err != nil:
		return "", e.err
	case e.state == exprPredicateOpen:
		return "", usageErrorf("expression.build", "predicate on %q is not closed", e.field)
	case e.depth != 0:
		return "", usageErrorf("expression.build", "%d unclosed group(s)", e.depth)
	case len(e.tokens) == 0:
		return "*:*", nil
	}
	return strings.Join(e.tokens, " "), nil
}

// MustBuild calls Build and panics on error.
func (e *Expression) MustBuild() string {
	s, err := e.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func (e *Expression) prefix() {
	if !e.noPrefix {
		e.tokens = append(e.tokens, "AND")
	}
	e.noPrefix = false
}

func (e *Expression) open(op string) bool {
	if e.state != exprPredicateOpen {
		e.fail(op, "called without Where")
		return false
	}
	return true
}

func (e *Expression) close(t string) *Expression {
	e.tokens = append(e.tokens, e.field+":"+t)
	e.state = exprIdle
	e.field = ""
	return e
}

func (e *Expression) fail(op, format string, args ...any) *Expression {
	if e.err == nil {
		e.err = usageErrorf("expression."+op, format, args...)
	}
	return e
}

// term renders an exact-match value; strings and dates are quoted.
func term(v any) (string, bool) {
	s, ok := params.FormatValue(v)
	if !ok {
		return "", false
	}
	if params.IsString(v) || isDate(v) {
		return quote(s), true
	}
	return s, true
}

func isDate(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func bound(v any) string {
	if s, ok := params.FormatValue(v); ok && s != "" {
		return s
	}
	return "*"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
