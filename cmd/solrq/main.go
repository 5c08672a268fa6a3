// solrq runs a single request against Solr and prints the JSON response.
//
// Usage:
//
//	solrq -q 'title:dune' -fq 'type:book' -fl id,title -rows 5 -sort 'year desc'
//	solrq -ping
//	solrq -get 1,2,3
//	solrq -commit
//	solrq -version
//
// Connection settings come from config/<ENV>.yaml (ENV defaults to local)
// or from the file given with -config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	solr "github.com/kailas-cloud/solr"
	"github.com/kailas-cloud/solr/internal/config"
	logpkg "github.com/kailas-cloud/solr/internal/logger"
	"github.com/kailas-cloud/solr/internal/version"
)

// stringsFlag collects a repeatable flag.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type flags struct {
	configPath string
	handler    string
	q          string
	fq         stringsFlag
	fl         string
	sort       string
	start      int
	rows       int
	debug      bool
	ping       bool
	get        string
	commit     bool
	version    bool
}

func parseFlags() flags {
	f := flags{}
	flag.StringVar(&f.configPath, "config", "", "config file (default: config/<ENV>.yaml)")
	flag.StringVar(&f.handler, "handler", "select", "request handler")
	flag.StringVar(&f.q, "q", "*:*", "main query")
	flag.Var(&f.fq, "fq", "filter query (repeatable)")
	flag.StringVar(&f.fl, "fl", "", "comma separated field list")
	flag.StringVar(&f.sort, "sort", "", `sort clauses, e.g. "year desc,id asc"`)
	flag.IntVar(&f.start, "start", 0, "result offset")
	flag.IntVar(&f.rows, "rows", 10, "page size")
	flag.BoolVar(&f.debug, "debug", false, "request debugQuery output")
	flag.BoolVar(&f.ping, "ping", false, "ping the core and exit")
	flag.StringVar(&f.get, "get", "", "comma separated ids for real-time get")
	flag.BoolVar(&f.commit, "commit", false, "issue a commit")
	flag.BoolVar(&f.version, "version", false, "print build information and exit")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if f.version {
		fmt.Println("solrq", version.String())
		return
	}

	env := config.GetEnv()
	cfg, err := loadConfig(env, f.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(2)
	}

	logger, err := logpkg.New(env, logpkg.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg.Solr, f, logger); err != nil {
		var herr *solr.HTTPError
		if errors.As(err, &herr) {
			logger.Error("solr rejected request",
				zap.Int("status", herr.StatusCode),
				zap.String("reason", herr.Reason),
			)
		} else {
			logger.Error("request failed", zap.Error(err))
		}
		cancel()
		os.Exit(1) //nolint:gocritic // deferred Sync is best effort
	}
}

func loadConfig(env, path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load(env)
}

func run(ctx context.Context, sc config.SolrConfig, f flags, logger *zap.Logger) error {
	client, err := solr.New(clientOptions(sc, logger)...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	logger.Debug("solr client ready",
		zap.String("version", version.Version),
		zap.String("host", sc.Host),
		zap.Int("port", sc.Port),
		zap.String("core", sc.Core),
	)

	var resp solr.Response
	switch {
	case f.ping:
		resp, err = client.Ping(ctx)
	case f.commit:
		resp, err = client.Commit(ctx, nil)
	case f.get != "":
		resp, err = client.Get(ctx, strings.Split(f.get, ",")...)
	default:
		q, qerr := buildQuery(client.Query(), f)
		if qerr != nil {
			return qerr
		}
		resp, err = client.DoQuery(ctx, f.handler, q)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func clientOptions(sc config.SolrConfig, logger *zap.Logger) []solr.Option {
	opts := []solr.Option{
		solr.WithHost(sc.Host),
		solr.WithPort(sc.Port),
		solr.WithPath(sc.Path),
		solr.WithCore(sc.Core),
		solr.WithGetMaxLength(sc.GetMaxLength),
		solr.WithBigInt(sc.BigInt),
		solr.WithIPVersion(sc.IPVersion),
		solr.WithTimeout(time.Duration(sc.TimeoutSec) * time.Second),
		solr.WithUserAgent(version.UserAgent("solrq")),
		solr.WithLogger(logger),
	}
	if sc.TLS {
		opts = append(opts, solr.WithTLS())
	}
	if sc.Compression {
		opts = append(opts, solr.WithCompression())
	}
	if sc.Version != "" {
		opts = append(opts, solr.WithSolrVersion(sc.Version))
	}
	if sc.Username != "" {
		opts = append(opts, solr.WithBasicAuth(sc.Username, sc.Password))
	}
	for k, v := range sc.Headers {
		opts = append(opts, solr.WithHeader(k, v))
	}
	return opts
}

func buildQuery(q *solr.Query, f flags) (*solr.Query, error) {
	q.Q(f.q).Start(f.start).Rows(f.rows)
	for _, fq := range f.fq {
		field, value, ok := strings.Cut(fq, ":")
		if !ok {
			return nil, fmt.Errorf("invalid -fq %q: want field:value", fq)
		}
		q.MatchFilter(field, value)
	}
	if f.fl != "" {
		q.Fl(strings.Split(f.fl, ",")...)
	}
	if f.sort != "" {
		fields, err := parseSort(f.sort)
		if err != nil {
			return nil, err
		}
		q.Sort(fields...)
	}
	if f.debug {
		q.DebugQuery()
	}
	return q, q.Err()
}

func parseSort(s string) ([]solr.SortField, error) {
	var out []solr.SortField
	for _, clause := range strings.Split(s, ",") {
		parts := strings.Fields(clause)
		switch {
		case len(parts) == 1:
			out = append(out, solr.Asc(parts[0]))
		case len(parts) == 2 && strings.EqualFold(parts[1], "asc"):
			out = append(out, solr.Asc(parts[0]))
		case len(parts) == 2 && strings.EqualFold(parts[1], "desc"):
			out = append(out, solr.Desc(parts[0]))
		default:
			return nil, fmt.Errorf("invalid sort clause %q", clause)
		}
	}
	return out, nil
}
