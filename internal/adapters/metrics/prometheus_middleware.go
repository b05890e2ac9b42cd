package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/lpg-dispatch/internal/application/common"
)

// PrometheusMiddleware creates a middleware that records command
// execution metrics: duration histogram plus success/failure counts.
// Command names are extracted via reflection and stripped of their
// package prefix, so "control.SubmitOrderCommand" becomes
// "SubmitOrderCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		commandName := extractCommandName(request)
		start := time.Now()

		response, err := next(ctx, request)

		duration := time.Since(start).Seconds()
		collector.RecordCommandExecution(commandName, duration, err == nil)

		return response, err
	}
}

// extractCommandName extracts a clean command name from the request
// using reflection.
func extractCommandName(request common.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := reflect.TypeOf(request).String()
	fullName = strings.TrimPrefix(fullName, "*")

	parts := strings.Split(fullName, ".")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return fullName
}
