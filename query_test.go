package solr

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"
)

// entries decodes a built query back into its ordered key=value pairs.
func entries(t *testing.T, b Builder) []string {
	t.Helper()
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, "&") {
		k, v, _ := strings.Cut(part, "=")
		dk, err := url.QueryUnescape(k)
		if err != nil {
			t.Fatalf("unescape key %q: %v", k, err)
		}
		dv, err := url.PathUnescape(v)
		if err != nil {
			t.Fatalf("unescape value %q: %v", v, err)
		}
		out = append(out, dk+"="+dv)
	}
	return out
}

func TestQuery_Core(t *testing.T) {
	q := NewQuery().
		Q("*:*").
		QOp("AND").
		Df("text").
		Fl("id", "title").
		Start(0).
		Rows(10).
		Sort(Desc("price"), Asc("id")).
		TimeAllowed(1500 * time.Millisecond).
		DebugQuery()

	want := []string{
		"q=*:*",
		"q.op=AND",
		"df=text",
		"fl=id,title",
		"start=0",
		"rows=10",
		"sort=price desc,id asc",
		"timeAllowed=1500",
		"debugQuery=true",
	}
	if got := entries(t, q); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %q, want %q", got, want)
	}
}

func TestQuery_RepeatedCallsAppend(t *testing.T) {
	q := NewQuery().Q("a").Q("b")
	want := []string{"q=a", "q=b"}
	if got := entries(t, q); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %q, want %q", got, want)
	}
}

func TestQuery_ParsesBackWithFacet(t *testing.T) {
	q := NewQuery().
		Q("title:hello").
		Facet(FacetOptions{Fields: []string{"cat", "author"}, Limit: Ptr(20), MinCount: Ptr(1)}).
		DebugQuery()

	s, err := q.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	vals, err := url.ParseQuery(s + "&wt=json")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	want := url.Values{
		"q":              {"title:hello"},
		"facet":          {"true"},
		"facet.field":    {"cat", "author"},
		"facet.limit":    {"20"},
		"facet.mincount": {"1"},
		"debugQuery":     {"true"},
		"wt":             {"json"},
	}
	if !reflect.DeepEqual(vals, want) {
		t.Errorf("params = %v, want %v", vals, want)
	}
}

func TestQuery_GuardsStructuralCharacters(t *testing.T) {
	s, err := NewQuery().Q("a&b=c+d%e#f").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	vals, err := url.ParseQuery(s)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if got := vals.Get("q"); got != "a&b=c+d%e#f" {
		t.Errorf("q = %q, want %q", got, "a&b=c+d%e#f")
	}
}

func TestQuery_SetEscapesFragment(t *testing.T) {
	q := NewQuery().Set("fq=color:#fff").Q("x")
	s, err := q.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(s, "#") {
		t.Errorf("Build() = %q, contains a literal #", s)
	}
	want := []string{"fq=color:#fff", "q=x"}
	if got := entries(t, q); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %q, want %q", got, want)
	}
}

func TestQuery_Filters(t *testing.T) {
	day := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	lo := 10

	tests := []struct {
		name string
		q    *Query
		want []string
	}{
		{"match", NewQuery().MatchFilter("type", "book"), []string{"fq=type:book"}},
		{"match date", NewQuery().MatchFilter("d", day), []string{`fq=d:"2020-01-02T03:04:05Z"`}},
		{"match zero date omitted", NewQuery().MatchFilter("d", time.Time{}), nil},
		{
			"fq per filter",
			NewQuery().FQ(Filter{"a", 1}, Filter{"b", "x"}),
			[]string{"fq=a:1", "fq=b:x"},
		},
		{"multiple", NewQuery().MultipleFilter("id", 1, 2, 3), []string{"fq=id:(1 2 3)"}},
		{"multiple slice", NewQuery().MultipleFilter("tag", []string{"a", "b"}), []string{"fq=tag:(a b)"}},
		{"range pointer bound", NewQuery().RangeFilter(Range{"n", &lo, nil}), []string{"fq=n:[10 TO *]"}},
		{"match pointer", NewQuery().MatchFilter("n", &lo), []string{"fq=n:10"}},
		{"range", NewQuery().RangeFilter(Range{"id", 100, nil}), []string{"fq=id:[100 TO *]"}},
		{
			"ranges",
			NewQuery().RangeFilter(Range{"id", 100, 200}, Range{"id", 300, 400}),
			[]string{"fq=(id:[100 TO 200] AND id:[300 TO 400])"},
		},
		{
			"join",
			NewQuery().JoinFilter(JoinOptions{FromIndex: "people", From: "id", To: "author_id", Field: "name", Value: "Ann"}),
			[]string{`fq={!join fromIndex=people from=id to=author_id v='name:"Ann"'}`},
		},
		{
			"join same core",
			NewQuery().JoinFilter(JoinOptions{From: "id", To: "parent", Field: "n", Value: 7}),
			[]string{`fq={!join from=id to=parent v='n:7'}`},
		},
		{
			"join escapes quote",
			NewQuery().JoinFilter(JoinOptions{From: "id", To: "p", Field: "n", Value: "o'neil"}),
			[]string{`fq={!join from=id to=p v='n:"o\'neil"'}`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entries(t, tt.q); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entries = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuery_Features(t *testing.T) {
	tests := []struct {
		name string
		q    *Query
		want []string
	}{
		{"facet off", NewQuery().Facet(FacetOptions{Off: true}), []string{"facet=false"}},
		{
			"facet pivot before 4.0",
			NewQuery().Facet(FacetOptions{Pivot: &PivotOptions{Fields: []string{"cat", "inStock"}, MinCount: Ptr(2)}}),
			[]string{"facet=true", "facet.pivot=cat,inStock"},
		},
		{
			"highlight",
			NewQuery().HL(HighlightOptions{
				QFields:   map[string]any{"title": "x", "body": "y"},
				Fields:    []string{"title", "body"},
				Snippets:  Ptr(3),
				SimplePre: "<em>",
			}),
			[]string{"hl=true", "hl.q=body:y AND title:x", "hl.fl=title,body", "hl.snippets=3", "hl.simple.pre=<em>"},
		},
		{"group by", NewQuery().GroupBy("author"), []string{"group=true", "group.field=author"}},
		{
			"group",
			NewQuery().Group(GroupOptions{Fields: []string{"a"}, Limit: Ptr(0), Main: Ptr(false), Cache: Ptr(50)}),
			[]string{"group=true", "group.field=a", "group.limit=0", "group.main=false", "group.cache.percent=50"},
		},
		{
			"mlt",
			NewQuery().MLT(MLTOptions{Fields: []string{"title", "body"}, MinTF: Ptr(1), QF: map[string]float64{"title": 2, "body": 0.5}}),
			[]string{"mlt=true", "mlt.fl=title,body", "mlt.mintf=1", "mlt.qf=body^0.5 title^2"},
		},
		{
			"terms",
			NewQuery().Terms(TermsOptions{Fields: []string{"name"}, Prefix: "ab", Limit: Ptr(5), LowerInclusive: Ptr(true)}),
			[]string{"terms=true", "terms.fl=name", "terms.lower.incl=true", "terms.prefix=ab", "terms.limit=5"},
		},
		{
			"stats",
			NewQuery().Stats(StatsOptions{Fields: []string{"price"}, Facets: []string{"cat"}, Percentiles: []float64{50, 99.9}}),
			[]string{"stats=true", "stats.field={!percentiles='50,99.9'}price", "stats.facet=cat"},
		},
		{
			"spellcheck",
			NewQuery().Spellcheck(SpellcheckOptions{Q: "helo", Collate: Ptr(true), Count: Ptr(5)}),
			[]string{"spellcheck=true", "spellcheck.q=helo", "spellcheck.collate=true", "spellcheck.count=5"},
		},
		{
			"dismax",
			NewQuery().EdisMax().QF(map[string]float64{"title": 2, "body": 1}).MM("2<75%").Tie(0.1).PS(2).BF("recip(rord(d),1,1000,1000)"),
			[]string{"defType=edismax", "qf=body^1 title^2", "mm=2<75%", "tie=0.1", "ps=2", "bf=recip(rord(d),1,1000,1000)"},
		},
		{"cursor", NewQuery().CursorMark(), []string{"cursorMark=*"}},
		{"resume cursor", NewQuery().ResumeCursor("AoE/abc+="), []string{"cursorMark=AoE/abc+="}},
		{"qfields", NewQuery().QFields(map[string]any{"b": 2, "a": "x"}), []string{"q=a:x AND b:2"}},
		{"qexpr", NewQuery().QExpr(NewExpression().Where("a").Lt(3)), []string{"q=a:[* TO 3]"}},
		{"set raw", NewQuery().Set("custom=1"), []string{"custom=1"}},
		{"shards", NewQuery().Shards("h1:8983/solr", "h2:8983/solr"), []string{"shards=h1:8983/solr,h2:8983/solr"}},
		{"empty values skipped", NewQuery().Q("").Fl().Df(""), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entries(t, tt.q); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entries = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuery_PivotMinCountFromClientVersion(t *testing.T) {
	c, err := New(WithSolrVersion("8.11"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	q := c.Query().Facet(FacetOptions{Pivot: &PivotOptions{Fields: []string{"cat"}, MinCount: Ptr(2)}})
	want := []string{"facet=true", "facet.pivot=cat", "facet.pivot.mincount=2"}
	if got := entries(t, q); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %q, want %q", got, want)
	}
}

func TestQuery_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		q    *Query
	}{
		{"bad expression", NewQuery().QExpr(NewExpression().Where("a"))},
		{"range without field", NewQuery().RangeFilter(Range{Start: 1})},
		{"no ranges", NewQuery().RangeFilter()},
		{"match without field", NewQuery().MatchFilter("", 1)},
		{"multiple without values", NewQuery().MultipleFilter("id")},
		{"match slice", NewQuery().MatchFilter("id", []int{1, 2})},
		{"fq slice", NewQuery().FQ(Filter{"id", []string{"a"}})},
		{"multiple map", NewQuery().MultipleFilter("id", map[string]int{"a": 1})},
		{"range slice bound", NewQuery().RangeFilter(Range{"id", []int{1}, nil})},
		{"join slice value", NewQuery().JoinFilter(JoinOptions{From: "a", To: "b", Field: "c", Value: []int{1}})},
		{"join missing from", NewQuery().JoinFilter(JoinOptions{To: "b", Field: "c", Value: 1})},
		{"negative rows", NewQuery().Rows(-1)},
		{"sort without fields", NewQuery().Sort()},
		{"empty cursor", NewQuery().ResumeCursor("")},
		{"group by empty", NewQuery().GroupBy("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.q.Q("*:*").Build()
			if !errors.Is(err, ErrUsage) {
				t.Errorf("Build() error = %v, want ErrUsage", err)
			}
		})
	}
}

func TestParams_Build(t *testing.T) {
	p := Params{
		"q":    "*:*",
		"fq":   []string{"a:1", "b:2"},
		"rows": 10,
		"skip": nil,
	}
	want := []string{"fq=a:1", "fq=b:2", "q=*:*", "rows=10"}
	if got := entries(t, p); !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %q, want %q", got, want)
	}
}

func TestRawQuery_Build(t *testing.T) {
	s, err := RawQuery("q=id:1&fl=id").Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if s != "q=id:1&fl=id" {
		t.Errorf("Build() = %q, want %q", s, "q=id:1&fl=id")
	}
}
