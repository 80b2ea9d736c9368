package metrics

import (
	"context"
	"reflect"
	"time"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
)

// PrometheusMiddleware records every request passing through the mediator
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		end := collector.Begin(requestName(request))
		start := time.Now()
		response, err := next(ctx, request)
		end(time.Since(start).Seconds(), err)
		return response, err
	}
}

// requestName is the bare type name, without pointer or package
func requestName(request mediator.Request) string {
	if request == nil {
		return "unknown"
	}
	t := reflect.TypeOf(request)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
