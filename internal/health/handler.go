package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hashboard/stat18ion/internal/ratelimit"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Checker reports whether a single dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// RedisChecker pings a redis client.
func RedisChecker(client *redis.Client) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}

// Handler serves the health endpoint.
type Handler struct {
	redis    Checker
	postgres Checker
	logger   *zap.Logger
}

func NewHandler(redisCheck, postgresCheck Checker, logger *zap.Logger) *Handler {
	return &Handler{
		redis:    redisCheck,
		postgres: postgresCheck,
		logger:   logger,
	}
}

type GetHealthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Redis    string `json:"redis"`
		Postgres string `json:"postgres"`
	}
}

// GetHealth checks each dependency. A failing dependency degrades the
// overall status to 503 but the body still reports each one separately.
func (h *Handler) GetHealth(ctx context.Context, _ *struct{}) (*GetHealthResponse, error) {
	resp := &GetHealthResponse{Status: http.StatusOK}
	resp.Body.Status = "ok"
	resp.Body.Redis = "ok"
	resp.Body.Postgres = "ok"

	if err := h.redis.Check(ctx); err != nil {
		h.logger.Warn("redis health check failed", zap.Error(err))
		resp.Body.Redis = "unreachable"
		resp.Body.Status = "degraded"
		resp.Status = http.StatusServiceUnavailable
	}

	if err := h.postgres.Check(ctx); err != nil {
		h.logger.Warn("postgres health check failed", zap.Error(err))
		resp.Body.Postgres = "unreachable"
		resp.Body.Status = "degraded"
		resp.Status = http.StatusServiceUnavailable
	}

	return resp, nil
}

func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.GetHealth)
}
