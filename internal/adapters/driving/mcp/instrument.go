package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/custodia-labs/appsec-mcp/internal/core/domain"
	"github.com/custodia-labs/appsec-mcp/internal/logger"
	"github.com/custodia-labs/appsec-mcp/internal/observability"
)

// Tool call result labels.
const (
	resultOK            = "ok"
	resultInvalidInput  = "invalid_input"
	resultNotFound      = "not_found"
	resultNotConfigured = "not_configured"
	resultAuth          = "auth"
	resultRateLimited   = "rate_limited"
	resultUnavailable   = "unavailable"
	resultError         = "error"
)

// instrument wraps a tool handler with an invocation id, a span, metrics
// and agent-facing error messages.
func instrument[In, Out any](name string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		invocationID := uuid.NewString()
		ctx, span := observability.Tracer().Start(ctx, "tool "+name, trace.WithAttributes(
			attribute.String("mcp.tool", name),
			attribute.String("mcp.invocation_id", invocationID),
		))
		defer span.End()

		start := time.Now()
		res, out, err := h(ctx, req, in)
		elapsed := time.Since(start)

		result := resultOf(err)
		observability.ToolCallsTotal.WithLabelValues(name, result).Inc()
		observability.ToolCallDuration.WithLabelValues(name).Observe(elapsed.Seconds())

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, result)
			fields := []zap.Field{
				zap.String("tool", name),
				zap.String("invocation_id", invocationID),
				zap.String("result", result),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			}
			if result == resultError {
				logger.L().Error("tool call failed", fields...)
			} else {
				logger.L().Warn("tool call failed", fields...)
			}
			return res, out, toolError(err)
		}
		logger.Debug("tool %s [%s] completed in %s", name, invocationID, elapsed)
		return res, out, nil
	}
}

// resultOf classifies err for the tool call counter.
func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, domain.ErrInvalidInput):
		return resultInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		return resultNotFound
	case errors.Is(err, domain.ErrNotConfigured):
		return resultNotConfigured
	case errors.Is(err, domain.ErrAuthInvalid), errors.Is(err, domain.ErrForbidden):
		return resultAuth
	case errors.Is(err, domain.ErrRateLimited):
		return resultRateLimited
	case errors.Is(err, domain.ErrPlatformUnavailable):
		return resultUnavailable
	default:
		return resultError
	}
}

// toolError adds a remediation hint an agent can act on.
func toolError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return fmt.Errorf("%w; set the CONTRAST_* environment variables or run 'appsec-mcp config set'", err)
	case errors.Is(err, domain.ErrAuthInvalid):
		return fmt.Errorf("%w; check the configured username, API key and service key", err)
	case errors.Is(err, domain.ErrForbidden):
		return fmt.Errorf("%w; the configured user cannot read this resource", err)
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("%w; the platform is throttling requests, try again shortly", err)
	case errors.Is(err, domain.ErrPlatformUnavailable):
		return fmt.Errorf("%w; try again later", err)
	default:
		return err
	}
}
