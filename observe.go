package solr

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solr/internal/metrics"
	"github.com/kailas-cloud/solr/internal/version"
)

const instrumentationName = "github.com/kailas-cloud/solr"

// observer provides logging, metrics and tracing for Solr requests.
type observer struct {
	logger     *zap.Logger
	metrics    *metrics.Client
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

func newObserver(logger *zap.Logger, reg prometheus.Registerer, tp trace.TracerProvider) (*observer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	var m *metrics.Client
	if reg != nil {
		var err error
		if m, err = metrics.NewClient(reg); err != nil {
			return nil, err
		}
	}
	return &observer{
		logger:     logger.Named("solr"),
		metrics:    m,
		tracer:     tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(version.Version)),
		propagator: otel.GetTextMapPropagator(),
	}, nil
}

// exchange is one observed request.
type exchange struct {
	handler string
	method  string
	path    string
	start   time.Time
	span    trace.Span
}

// begin starts the request span and injects its context into header.
func (o *observer) begin(ctx context.Context, handler, method, path string, header http.Header) (context.Context, *exchange) {
	ctx, span := o.tracer.Start(ctx, "solr "+handler,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "solr"),
			attribute.String("solr.handler", handler),
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	o.propagator.Inject(ctx, propagation.HeaderCarrier(header))
	return ctx, &exchange{handler: handler, method: method, path: path, start: time.Now(), span: span}
}

// end records the outcome. status is 0 when no response arrived.
func (o *observer) end(x *exchange, status int, err error) {
	dur := time.Since(x.start)
	o.metrics.Observe(x.handler, x.method, status, dur)

	if status > 0 {
		x.span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		x.span.RecordError(err)
		x.span.SetStatus(codes.Error, err.Error())
	}
	x.span.End()

	if err != nil {
		o.logger.Warn("request failed",
			zap.String("handler", x.handler),
			zap.String("method", x.method),
			zap.String("path", x.path),
			zap.Int("status", status),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return
	}
	o.logger.Debug("request completed",
		zap.String("handler", x.handler),
		zap.String("method", x.method),
		zap.String("path", x.path),
		zap.Int("status", status),
		zap.Duration("duration", dur),
	)
}
