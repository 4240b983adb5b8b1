package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/commutesg/routecore/internal/api"
	"github.com/commutesg/routecore/internal/cache"
	"github.com/commutesg/routecore/internal/graphdata"
	"github.com/commutesg/routecore/internal/routing"
	"github.com/commutesg/routecore/internal/worker"
)

func main() {
	log.Println("Starting routecore server...")

	graphPath := getEnv("GRAPH_FILE", "transit_graph.json")
	metaPath := getEnv("STOPS_METADATA_FILE", "stops_metadata.json")

	store := graphdata.New()
	if err := store.Load(graphPath, metaPath, routing.NewServiceClassifier()); err != nil {
		log.Fatalf("Failed to load routing graph: %v", err)
	}
	log.Printf("Routing graph loaded: %d nodes", store.NodeCount())

	useCache := getEnv("DISABLE_CACHE", "") == ""
	if useCache {
		if _, err := cache.GetClient(); err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
			useCache = false
		} else {
			defer cache.Close()
			log.Println("Redis connection established")
		}
	}

	queueDepth, _ := parseIntEnv("WORKER_QUEUE_DEPTH", 32)
	w := worker.New(store, queueDepth)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go w.Run(workerCtx)

	handlers := api.NewHandlers(store, w, useCache)

	app := fiber.New(fiber.Config{
		AppName:      "routecore",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Post("/v1/route", handlers.RouteSearch)
	app.Get("/health", handlers.Health)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "endpoint not found"})
	})

	port := getEnv("API_PORT", "8080")
	addr := fmt.Sprintf(":%s", port)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		stopWorker()
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on http://localhost%s", addr)
	log.Printf("Route search: POST http://localhost%s/v1/route", addr)
	log.Printf("Health check: http://localhost%s/health", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	var parsed int
	_, err := fmt.Sscanf(value, "%d", &parsed)
	if err != nil {
		return defaultValue, err
	}
	return parsed, nil
}
