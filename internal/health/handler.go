package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/burnnote-go/internal/ratelimit"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NoteCounter reports how many unread notes are currently held.
type NoteCounter interface {
	Live(ctx context.Context) (int, error)
}

// Handler handles health check operations.
type Handler struct {
	redis Checker
	notes NoteCounter
}

// NewHandler creates a new health handler.
func NewHandler(redis Checker, notes NoteCounter) *Handler {
	return &Handler{redis: redis, notes: notes}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status    string `json:"status"`
		Redis     string `json:"redis"`
		LiveNotes int    `json:"liveNotes"`
	}
}

// Check performs a health check of the application and its dependencies.
// Redis only carries rate limit counters and usage events, so a Redis
// outage degrades the service without taking it down.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if err := h.redis.Ping(ctx); err != nil {
		resp.Body.Redis = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Redis = "healthy"
	}

	if n, err := h.notes.Live(ctx); err == nil {
		resp.Body.LiveNotes = n
	}

	return resp, nil
}

// RegisterRoutes registers health check routes. Health probes are exempt
// from admission control.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check, func(o *huma.Operation) {
		o.Metadata = map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Disabled: true,
			},
		}
	})
}
