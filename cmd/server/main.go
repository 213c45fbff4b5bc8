package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stockroom/backend/internal/alerts"
	"github.com/stockroom/backend/internal/config"
	"github.com/stockroom/backend/internal/handlers"
	"github.com/stockroom/backend/internal/services"
)

func main() {
	cfg := config.Load()

	// Item store. A failed connection degrades the API instead of killing
	// it: item routes answer 500 and /test reports what is wrong.
	var itemService services.ItemService
	switch cfg.StoreDriver {
	case "file":
		svc, err := services.NewFileItemService(cfg.DataDir)
		if err != nil {
			log.Printf("Warning: failed to open file store: %v", err)
		} else {
			itemService = svc
		}
	default:
		if cfg.DatabaseURL == "" || cfg.DatabaseName == "" {
			log.Printf("Warning: DATABASE_URL or DATABASE_NAME not set; item routes will be unavailable")
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			svc, err := services.NewMongoItemService(ctx, cfg.DatabaseURL, cfg.DatabaseName)
			cancel()
			if err != nil {
				log.Printf("Warning: failed to connect to MongoDB: %v", err)
			} else {
				itemService = svc
			}
		}
	}

	// Low-stock alert publisher (optional; unset AMQP_URL disables alerts)
	var notifier handlers.LowStockNotifier
	if cfg.AMQPURL != "" {
		pub, err := alerts.NewPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("Warning: failed to initialize alert publisher: %v", err)
		} else {
			notifier = pub
		}
	}

	// Initialize handlers
	itemsHandler := handlers.NewItemsHandler(itemService, notifier)
	systemHandler := handlers.NewSystemHandler(itemService)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health and diagnostics
	r.Get("/", systemHandler.Root)
	r.Get("/api/hello", systemHandler.Hello)
	r.Get("/test", systemHandler.TestConnections)

	// Inventory routes
	r.Route("/items", func(r chi.Router) {
		r.Get("/", itemsHandler.ListItems)
		r.Post("/", itemsHandler.CreateItem)
		r.Get("/stats", itemsHandler.ItemStats)

		r.Route("/{itemId}", func(r chi.Router) {
			r.Put("/", itemsHandler.UpdateItem)
			r.Post("/adjust", itemsHandler.AdjustStock)
			r.Delete("/", itemsHandler.DeleteItem)
		})
	})

	log.Printf("🚀 Inventory API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
