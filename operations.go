package solr

import (
	"context"
	"reflect"
	"time"

	"github.com/kailas-cloud/solr/internal/params"
)

// Search runs q against the select handler.
func (c *Client) Search(ctx context.Context, q Builder) (Response, error) {
	return c.DoQuery(ctx, "select", q)
}

// Get fetches documents by id through the real-time get handler.
func (c *Client) Get(ctx context.Context, ids ...string) (Response, error) {
	if len(ids) == 0 {
		return nil, usageErrorf("get", "at least one id required")
	}
	q := c.Query()
	q.list.Add("ids", params.CommaList(ids))
	return c.DoQuery(ctx, "get", q)
}

// Ping checks that the core answers on admin/ping.
func (c *Client) Ping(ctx context.Context) (Response, error) {
	return c.DoQuery(ctx, "admin/ping", nil)
}

// Spell runs q against the spell handler.
func (c *Client) Spell(ctx context.Context, q Builder) (Response, error) {
	return c.DoQuery(ctx, "spell", q)
}

// TermsSearch runs q against the terms handler.
func (c *Client) TermsSearch(ctx context.Context, q Builder) (Response, error) {
	return c.DoQuery(ctx, "terms", q)
}

// MLTSearch runs q against the mlt handler.
func (c *Client) MLTSearch(ctx context.Context, q Builder) (Response, error) {
	return c.DoQuery(ctx, "mlt", q)
}

// AddOptions are passed as URL parameters of an add.
type AddOptions struct {
	Commit       bool
	SoftCommit   bool
	CommitWithin time.Duration
	Overwrite    *bool
}

func (o *AddOptions) params() Params {
	p := Params{}
	if o == nil {
		return p
	}
	if o.Commit {
		p["commit"] = true
	}
	if o.SoftCommit {
		p["softCommit"] = true
	}
	if o.CommitWithin > 0 {
		p["commitWithin"] = o.CommitWithin.Milliseconds()
	}
	if o.Overwrite != nil {
		p["overwrite"] = *o.Overwrite
	}
	return p
}

// Add indexes docs: a Document, a struct, or a slice of either.
// A single document is sent as a one-element array.
func (c *Client) Add(ctx context.Context, docs any, opts *AddOptions) (Response, error) {
	return c.Update(ctx, asList(docs), opts.params())
}

// AtomicUpdate is Add for documents carrying update operations such as
// {"price": {"set": 10}}.
func (c *Client) AtomicUpdate(ctx context.Context, docs any, opts *AddOptions) (Response, error) {
	return c.Add(ctx, docs, opts)
}

// DeleteByID deletes one document by unique key.
func (c *Client) DeleteByID(ctx context.Context, id any, opts *AddOptions) (Response, error) {
	return c.Update(ctx, command("delete", map[string]any{"id": id}), opts.params())
}

// DeleteByQuery deletes every document matching a Lucene query.
func (c *Client) DeleteByQuery(ctx context.Context, query string, opts *AddOptions) (Response, error) {
	if query == "" {
		return nil, usageErrorf("deleteByQuery", "query required")
	}
	return c.Update(ctx, command("delete", map[string]any{"query": query}), opts.params())
}

// Delete deletes every document whose field matches value.
func (c *Client) Delete(ctx context.Context, field string, value any, opts *AddOptions) (Response, error) {
	if field == "" {
		return nil, usageErrorf("delete", "field required")
	}
	t, ok := term(value)
	if !ok {
		return nil, usageErrorf("delete", "value for %q is empty", field)
	}
	return c.DeleteByQuery(ctx, field+":"+t, opts)
}

// CommitOptions are sent inside the commit command.
type CommitOptions struct {
	WaitSearcher   *bool
	ExpungeDeletes *bool
}

func (o *CommitOptions) body(soft bool) map[string]any {
	b := map[string]any{}
	if soft {
		b["softCommit"] = true
	}
	if o == nil {
		return b
	}
	if o.WaitSearcher != nil {
		b["waitSearcher"] = *o.WaitSearcher
	}
	if o.ExpungeDeletes != nil {
		b["expungeDeletes"] = *o.ExpungeDeletes
	}
	return b
}

// Commit makes pending changes durable and visible.
func (c *Client) Commit(ctx context.Context, opts *CommitOptions) (Response, error) {
	return c.Update(ctx, command("commit", opts.body(false)), nil)
}

// SoftCommit makes pending changes visible without flushing them to disk.
func (c *Client) SoftCommit(ctx context.Context, opts *CommitOptions) (Response, error) {
	return c.Update(ctx, command("commit", opts.body(true)), nil)
}

// OptimizeOptions are sent inside the optimize command.
type OptimizeOptions struct {
	WaitSearcher *bool
	MaxSegments  int
}

// Optimize merges index segments.
func (c *Client) Optimize(ctx context.Context, opts *OptimizeOptions) (Response, error) {
	b := map[string]any{}
	if opts != nil {
		if opts.WaitSearcher != nil {
			b["waitSearcher"] = *opts.WaitSearcher
		}
		if opts.MaxSegments > 0 {
			b["maxSegments"] = opts.MaxSegments
		}
	}
	return c.Update(ctx, command("optimize", b), nil)
}

// Rollback discards uncommitted changes.
func (c *Client) Rollback(ctx context.Context) (Response, error) {
	return c.Update(ctx, command("rollback", map[string]any{}), nil)
}

// PrepareCommit runs the first phase of a two-phase commit.
func (c *Client) PrepareCommit(ctx context.Context) (Response, error) {
	return c.Update(ctx, map[string]any{}, RawQuery("prepareCommit=true"))
}

func command(name string, body map[string]any) map[string]any {
	return map[string]any{name: body}
}

// asList wraps a single document into a one-element array.
func asList(docs any) any {
	switch d := docs.(type) {
	case []any, []Document, []map[string]any:
		return d
	case Document, map[string]any:
		return []any{d}
	}
	if k := reflect.ValueOf(docs).Kind(); k == reflect.Slice || k == reflect.Array {
		return docs
	}
	return []any{docs}
}
