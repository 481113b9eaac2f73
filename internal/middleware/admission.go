package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/burnnote-go/internal/metrics"
	"github.com/serroba/burnnote-go/internal/ratelimit"
	"go.uber.org/zap"
)

// Admission returns a Huma middleware that runs every request through the
// admission pipeline: hard limits reject, the slowdown delays. The delay is
// served here so no store state is held while a request sleeps.
//
// Endpoints can opt out entirely through operation metadata using
// ratelimit.MetadataKey with Disabled set.
func Admission(
	api huma.API,
	pipeline *ratelimit.Admission,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		key := ClientKey(ctx)
		scopes := resolver.Resolve(ctx)

		decision, err := pipeline.Check(ctx.Context(), key, scopes)
		if err != nil {
			logger.Error("admission check failed",
				zap.String("path", getOperationPath(ctx)),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !decision.Allowed {
			reject(api, ctx, decision.Exceeded, logger)

			return
		}

		if decision.Delay > 0 {
			metrics.SlowdownDelay.Observe(decision.Delay.Seconds())

			if !wait(ctx, decision.Delay) {
				// Client went away during the delay; nothing left to serve.
				return
			}
		}

		next(ctx)
	}
}

// reject logs and responds to a request that exceeded a hard limit.
func reject(api huma.API, ctx huma.Context, exceeded *ratelimit.LimitExceeded, logger *zap.Logger) {
	msg := "rate limit exceeded"

	if exceeded != nil {
		msg = fmt.Sprintf("rate limit exceeded: %s scope, %d/%d requests in %s",
			exceeded.Scope, exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)

		metrics.RequestsRejected.WithLabelValues(string(exceeded.Scope)).Inc()
		logger.Warn("request rejected",
			zap.String("path", getOperationPath(ctx)),
			zap.String("method", ctx.Method()),
			zap.String("scope", string(exceeded.Scope)),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
			zap.String("client_ip", clientIP(ctx)),
		)

		seconds := int(math.Ceil(exceeded.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}

		ctx.SetHeader("Retry-After", strconv.Itoa(seconds))
	}

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}

// wait blocks for the slowdown delay. It reports false when the client went
// away before the delay elapsed.
func wait(ctx huma.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}

// getOperationPath extracts the path from the operation, if available.
func getOperationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
