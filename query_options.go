package solr

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/solr/internal/params"
)

// Ptr returns a pointer to v. Handy for optional option fields.
func Ptr[T any](v T) *T { return &v }

// param is one rendered key/value pair.
type param struct {
	key   string
	value string
}

// pairs accumulates the rendered parameters of one feature.
type pairs []param

func (p *pairs) str(key, v string) {
	if v != "" {
		*p = append(*p, param{key, v})
	}
}

func (p *pairs) each(key string, vs []string) {
	for _, v := range vs {
		p.str(key, v)
	}
}

func (p *pairs) int(key string, v *int) {
	if v != nil {
		*p = append(*p, param{key, strconv.Itoa(*v)})
	}
}

func (p *pairs) bool(key string, v *bool) {
	if v != nil {
		*p = append(*p, param{key, strconv.FormatBool(*v)})
	}
}

func (p *pairs) float(key string, v *float64) {
	if v != nil {
		*p = append(*p, param{key, strconv.FormatFloat(*v, 'f', -1, 64)})
	}
}

func (p *pairs) toggle(key string, off bool) {
	*p = append(*p, param{key, strconv.FormatBool(!off)})
}

// PivotOptions configures facet pivoting.
type PivotOptions struct {
	Fields   []string
	MinCount *int
}

// FacetOptions configures field faceting.
type FacetOptions struct {
	// Off emits facet=false.
	Off      bool
	Fields   []string
	Prefix   string
	Query    string
	Limit    *int
	Offset   *int
	Sort     string
	MinCount *int
	Missing  *bool
	Method   string
	Pivot    *PivotOptions
}

func (o FacetOptions) pairs(v Version) pairs {
	var p pairs
	p.toggle("facet", o.Off)
	p.each("facet.field", o.Fields)
	p.str("facet.prefix", o.Prefix)
	p.str("facet.query", o.Query)
	p.int("facet.limit", o.Limit)
	p.int("facet.offset", o.Offset)
	p.str("facet.sort", o.Sort)
	p.int("facet.mincount", o.MinCount)
	p.bool("facet.missing", o.Missing)
	p.str("facet.method", o.Method)
	if o.Pivot != nil {
		p.str("facet.pivot", params.CommaList(o.Pivot.Fields))
		if v.AtLeast(Solr4_0) {
			p.int("facet.pivot.mincount", o.Pivot.MinCount)
		}
	}
	return p
}

// HighlightOptions configures hit highlighting.
type HighlightOptions struct {
	Off bool
	// Q is a raw highlight query. QFields renders field:value pairs joined
	// with AND and wins over Q when both are set.
	Q                       string
	QFields                 map[string]any
	Fields                  []string
	Method                  string
	Snippets                *int
	FragSize                *int
	MergeContiguous         *bool
	RequireFieldMatch       *bool
	MaxAnalyzedChars        *int
	AlternateField          string
	MaxAlternateFieldLength *int
	Formatter               string
	SimplePre               string
	SimplePost              string
	TagPre                  string
	TagPost                 string
	Fragmenter              string
	HighlightMultiTerm      *bool
	UsePhraseHighlighter    *bool
	RegexSlop               *float64
	RegexPattern            string
	RegexMaxAnalyzedChars   *int
	PreserveMulti           *bool
	Payloads                *bool
}

func (o HighlightOptions) pairs() pairs {
	var p pairs
	p.toggle("hl", o.Off)
	if len(o.QFields) > 0 {
		p.str("hl.q", params.Pairs(o.QFields, " AND "))
	} else {
		p.str("hl.q", o.Q)
	}
	p.str("hl.fl", params.CommaList(o.Fields))
	p.str("hl.method", o.Method)
	p.int("hl.snippets", o.Snippets)
	p.int("hl.fragsize", o.FragSize)
	p.bool("hl.mergeContiguous", o.MergeContiguous)
	p.bool("hl.requireFieldMatch", o.RequireFieldMatch)
	p.int("hl.maxAnalyzedChars", o.MaxAnalyzedChars)
	p.str("hl.alternateField", o.AlternateField)
	p.int("hl.maxAlternateFieldLength", o.MaxAlternateFieldLength)
	p.str("hl.formatter", o.Formatter)
	p.str("hl.simple.pre", o.SimplePre)
	p.str("hl.simple.post", o.SimplePost)
	p.str("hl.tag.pre", o.TagPre)
	p.str("hl.tag.post", o.TagPost)
	p.str("hl.fragmenter", o.Fragmenter)
	p.bool("hl.highlightMultiTerm", o.HighlightMultiTerm)
	p.bool("hl.usePhraseHighlighter", o.UsePhraseHighlighter)
	p.float("hl.regex.slop", o.RegexSlop)
	p.str("hl.regex.pattern", o.RegexPattern)
	p.int("hl.regex.maxAnalyzedChars", o.RegexMaxAnalyzedChars)
	p.bool("hl.preserveMulti", o.PreserveMulti)
	p.bool("hl.payloads", o.Payloads)
	return p
}

// GroupOptions configures result grouping.
type GroupOptions struct {
	Off      bool
	Fields   []string
	Func     string
	Query    string
	Limit    *int
	Offset   *int
	Sort     string
	Format   string
	Main     *bool
	NGroups  *bool
	Truncate *bool
	Facet    *bool
	// Cache is rendered as group.cache.percent.
	Cache *int
}

func (o GroupOptions) pairs() pairs {
	var p pairs
	p.toggle("group", o.Off)
	p.each("group.field", o.Fields)
	p.str("group.func", o.Func)
	p.str("group.query", o.Query)
	p.int("group.limit", o.Limit)
	p.int("group.offset", o.Offset)
	p.str("group.sort", o.Sort)
	p.str("group.format", o.Format)
	p.bool("group.main", o.Main)
	p.bool("group.ngroups", o.NGroups)
	p.bool("group.truncate", o.Truncate)
	p.bool("group.facet", o.Facet)
	p.int("group.cache.percent", o.Cache)
	return p
}

// MLTOptions configures MoreLikeThis.
type MLTOptions struct {
	Off              bool
	Fields           []string
	Count            *int
	MinTF            *int
	MinDF            *int
	MinWL            *int
	MaxWL            *int
	MaxQT            *int
	MaxNTP           *int
	Boost            *bool
	InterestingTerms string
	// QF maps field to boost, rendered as "field^boost" pairs.
	QF map[string]float64
}

func (o MLTOptions) pairs() pairs {
	var p pairs
	p.toggle("mlt", o.Off)
	p.str("mlt.fl", params.CommaList(o.Fields))
	p.int("mlt.count", o.Count)
	p.int("mlt.mintf", o.MinTF)
	p.int("mlt.mindf", o.MinDF)
	p.int("mlt.minwl", o.MinWL)
	p.int("mlt.maxwl", o.MaxWL)
	p.int("mlt.maxqt", o.MaxQT)
	p.int("mlt.maxntp", o.MaxNTP)
	p.bool("mlt.boost", o.Boost)
	p.str("mlt.interestingTerms", o.InterestingTerms)
	p.str("mlt.qf", params.Weights(o.QF))
	return p
}

// TermsOptions configures the terms component.
type TermsOptions struct {
	Off            bool
	Fields         []string
	Lower          string
	LowerInclusive *bool
	MinCount       *int
	MaxCount       *int
	Prefix         string
	Regex          string
	RegexFlag      string
	Limit          *int
	Upper          string
	UpperInclusive *bool
	Raw            *bool
	Sort           string
}

func (o TermsOptions) pairs() pairs {
	var p pairs
	p.toggle("terms", o.Off)
	p.each("terms.fl", o.Fields)
	p.str("terms.lower", o.Lower)
	p.bool("terms.lower.incl", o.LowerInclusive)
	p.int("terms.mincount", o.MinCount)
	p.int("terms.maxcount", o.MaxCount)
	p.str("terms.prefix", o.Prefix)
	p.str("terms.regex", o.Regex)
	p.str("terms.regex.flag", o.RegexFlag)
	p.int("terms.limit", o.Limit)
	p.str("terms.upper", o.Upper)
	p.bool("terms.upper.incl", o.UpperInclusive)
	p.bool("terms.raw", o.Raw)
	p.str("terms.sort", o.Sort)
	return p
}

// StatsOptions configures the stats component.
type StatsOptions struct {
	Off    bool
	Fields []string
	Facets []string
	// Percentiles are requested for every field via local params.
	Percentiles  []float64
	CalcDistinct *bool
}

func (o StatsOptions) pairs() pairs {
	var p pairs
	p.toggle("stats", o.Off)
	local := ""
	if len(o.Percentiles) > 0 {
		ps := make([]string, len(o.Percentiles))
		for i, v := range o.Percentiles {
			ps[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		local = "{!percentiles='" + strings.Join(ps, ",") + "'}"
	}
	for _, f := range o.Fields {
		p.str("stats.field", local+f)
	}
	p.each("stats.facet", o.Facets)
	p.bool("stats.calcdistinct", o.CalcDistinct)
	return p
}

// SpellcheckOptions configures the spellcheck component.
type SpellcheckOptions struct {
	Off             bool
	Q               string
	Build           *bool
	Collate         *bool
	Count           *int
	Dictionary      string
	ExtendedResults *bool
	OnlyMorePopular *bool
}

func (o SpellcheckOptions) pairs() pairs {
	var p pairs
	p.toggle("spellcheck", o.Off)
	p.str("spellcheck.q", o.Q)
	p.bool("spellcheck.build", o.Build)
	p.bool("spellcheck.collate", o.Collate)
	p.int("spellcheck.count", o.Count)
	p.str("spellcheck.dictionary", o.Dictionary)
	p.bool("spellcheck.extendedResults", o.ExtendedResults)
	p.bool("spellcheck.onlyMorePopular", o.OnlyMorePopular)
	return p
}
