// Package solr provides a Go client for Apache Solr's HTTP JSON API.
//
// The client builds query strings with a fluent builder, sends them as GET
// (or as a form-encoded POST once the request line would exceed a
// configurable ceiling) and decodes JSON responses. Writes go through the
// JSON update handler.
//
// # Querying
//
//	client, _ := solr.New(solr.WithHost("localhost"), solr.WithCore("books"))
//	q := client.Query().
//	    QExpr(solr.NewExpression().Where("type").Equals("book").Where("year").Gt(2000)).
//	    Facet(solr.FacetOptions{Fields: []string{"author"}, MinCount: solr.Ptr(1)}).
//	    Sort(solr.Desc("year")).
//	    Rows(20)
//	resp, err := client.Search(ctx, q)
//
// # Updating
//
//	_, err = client.Add(ctx, []solr.Document{{"id": "1", "title": "Dune"}},
//	    &solr.AddOptions{CommitWithin: time.Second})
//
// # Errors
//
// Builder misuse is reported as *UsageError (ErrUsage). Network failures are
// *TransportError (ErrTransport). Non-2xx responses are *HTTPError
// (ErrHTTPStatus) carrying the reason from Solr's error page. A 2xx response
// with a malformed body is *DecodeError (ErrDecode).
package solr
