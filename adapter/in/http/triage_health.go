package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus which optional dependencies are active.
type HealthHandler struct {
	db       *pgxpool.Pool
	redis    *redis.Client
	modelOn  bool
	replyGen bool
}

// NewHealthHandler creates a new HealthHandler. db and redis may be nil.
func NewHealthHandler(db *pgxpool.Pool, redis *redis.Client, modelLoaded, generatorActive bool) *HealthHandler {
	return &HealthHandler{
		db:       db,
		redis:    redis,
		modelOn:  modelLoaded,
		replyGen: generatorActive,
	}
}

func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	classifier := "heuristic"
	if h.modelOn {
		classifier = "model"
	}
	replies := "template"
	if h.replyGen {
		replies = "generator"
	}

	return c.JSON(fiber.Map{
		"status":     "ok",
		"classifier": classifier,
		"replies":    replies,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["postgres"] = "healthy"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
