// Package api is cmd/server's thin Fiber transport shim: it decodes the
// POST /v1/route body into a models.CalculateRequest, forwards it to the
// worker, and flattens the reply back to JSON. All routing semantics live
// in internal/routing and internal/worker; this package never computes a
// path itself.
package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/commutesg/routecore/internal/cache"
	"github.com/commutesg/routecore/internal/graphdata"
	"github.com/commutesg/routecore/internal/models"
	"github.com/commutesg/routecore/internal/worker"
)

var resultCacheTTL = cache.LoadConfigFromEnv().TTL

// Handlers wires the worker and route cache into Fiber request handlers.
type Handlers struct {
	store    *graphdata.Store
	worker   *worker.Worker
	useCache bool
}

// NewHandlers returns Handlers backed by store and worker. useCache selects
// whether RouteSearch consults the Redis cache; cmd/server disables it when
// Redis isn't configured, degrading gracefully rather than failing startup.
func NewHandlers(store *graphdata.Store, w *worker.Worker, useCache bool) *Handlers {
	return &Handlers{store: store, worker: w, useCache: useCache}
}

// RouteSearch handles POST /v1/route: body {start, end, excludedModes?,
// sort?}, forwarded to the worker as a CALCULATE message.
func (h *Handlers) RouteSearch(c *fiber.Ctx) error {
	var req models.CalculateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body: " + err.Error(),
		})
	}

	ctx := c.Context()

	if h.useCache {
		key := cache.RouteKey(req.Start, req.End, req.ExcludedModes, req.Sort)
		if cached, err := cache.GetResult(ctx, key); err == nil && cached != nil {
			return c.JSON(models.Response{Result: cached})
		}

		lockKey := cache.LockKey(key)
		acquired, lockErr := cache.AcquireLock(ctx, lockKey, 5*time.Second)
		if lockErr != nil {
			log.Printf("api: failed to acquire route lock: %v", lockErr)
		} else if !acquired {
			if cached, err := cache.WaitForLock(ctx, key, 3*time.Second); err == nil && cached != nil {
				return c.JSON(models.Response{Result: cached})
			}
		}
		if acquired {
			defer cache.ReleaseLock(ctx, lockKey)
		}

		resp, err := h.worker.Submit(ctx, req)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		if resp.Result != nil {
			if err := cache.SetResult(ctx, key, *resp.Result, resultCacheTTL); err != nil {
				log.Printf("api: failed to cache route result: %v", err)
			}
		}
		return c.JSON(resp)
	}

	resp, err := h.worker.Submit(ctx, req)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(resp)
}

// Health handles GET /health: reports whether the graph store is loaded
// and, if caching is enabled, whether Redis answers PING.
func (h *Handlers) Health(c *fiber.Ctx) error {
	ctx := c.Context()

	graphStatus := "ok"
	if !h.store.IsLoaded() {
		graphStatus = "graph not loaded"
	}

	redisStatus := "disabled"
	redisErr := error(nil)
	if h.useCache {
		redisErr = cache.HealthCheck(ctx)
		redisStatus = "ok"
		if redisErr != nil {
			redisStatus = redisErr.Error()
		}
	}

	httpStatus := fiber.StatusOK
	status := "healthy"
	if !h.store.IsLoaded() || redisErr != nil {
		status = "unhealthy"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"graph": graphStatus,
			"redis": redisStatus,
		},
	})
}
