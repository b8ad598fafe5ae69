package interceptors

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/samvad-hq/samvad-httpfacade/pkg/httpclient"
	"github.com/samvad-hq/samvad-httpfacade/pkg/transport"
)

// Tracing starts a client span per request and ends it when the call completes,
// whatever the outcome. The span travels in the descriptor context and its trace
// context is injected into the outbound headers. A nil tracer uses the global
// provider.
func Tracing(tracer trace.Tracer) httpclient.HandlerOverrides {
	if tracer == nil {
		tracer = otel.Tracer("github.com/samvad-hq/samvad-httpfacade/pkg/interceptors")
	}
	return httpclient.HandlerOverrides{
		RequestFulfilled: func(req *transport.Request) (*transport.Request, error) {
			target, _ := req.URL()
			ctx, span := tracer.Start(req.Context(), "HTTP "+req.Method,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.full", target),
				),
			)
			out := req.WithContext(ctx)
			if out.Headers == nil {
				out.Headers = make(map[string]string)
			}
			otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(out.Headers))
			out.OnComplete(func(resp *transport.Response, err error) {
				endSpan(span, resp, err)
			})
			return out, nil
		},
	}
}

func endSpan(span trace.Span, resp *transport.Response, err error) {
	defer span.End()
	if err == nil {
		if resp != nil {
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
		}
		return
	}
	if failed := transport.ResponseOf(err); failed != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", failed.StatusCode))
	}
	if code := transport.CodeOf(err); code != "" {
		span.SetAttributes(attribute.String("error.type", code))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
