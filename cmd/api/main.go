package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DovranA/zara-app/internal/cache"
	"github.com/DovranA/zara-app/internal/handler"
	"github.com/DovranA/zara-app/internal/repository"
	"github.com/DovranA/zara-app/internal/service"
	"github.com/DovranA/zara-app/internal/ws"
	"github.com/DovranA/zara-app/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database. \n", err)
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Query cache: fresh/retention windows overridable via env
	queryCache := cache.New(
		cache.WithFreshFor(durationEnv("CACHE_FRESH_FOR", cache.DefaultFreshFor)),
		cache.WithRetention(durationEnv("CACHE_RETENTION", cache.DefaultRetention)),
		cache.WithNotifier(wsHub.Publish),
	)
	defer queryCache.Close()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	deliveryRepo := repository.NewDeliveryRepo(db)
	itemRepo := repository.NewDeliveryItemRepo(db)

	exportDir := os.Getenv("EXPORT_DIR")
	if exportDir == "" {
		exportDir = "exports"
	}

	userService := service.NewUserService(userRepo, queryCache)
	productService := service.NewProductService(productRepo, queryCache)
	deliveryService := service.NewDeliveryService(deliveryRepo, itemRepo, queryCache)
	dashService := service.NewDashboardService(userRepo, productRepo, deliveryRepo, queryCache)
	exportService := service.NewExportService(userRepo, productRepo, deliveryRepo, itemRepo, exportDir)

	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	deliveryHandler := handler.NewDeliveryHandler(deliveryService)
	dashHandler := handler.NewDashboardHandler(dashService)
	exportHandler := handler.NewExportHandler(exportService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Delivery Notes v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	api.Get("/users", userHandler.GetUsers)
	api.Get("/users/:id", userHandler.GetUser)
	api.Post("/users", userHandler.CreateUser)
	api.Put("/users/:id", userHandler.UpdateUser)
	api.Delete("/users/:id", userHandler.DeleteUser)

	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Post("/products", productHandler.CreateProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	api.Get("/deliveries", deliveryHandler.GetDeliveries)
	api.Get("/deliveries/:id", deliveryHandler.GetDelivery)
	api.Get("/deliveries/:id/items", deliveryHandler.GetDeliveryItems)
	api.Post("/deliveries", deliveryHandler.CreateDelivery)
	api.Put("/deliveries/:id", deliveryHandler.UpdateDelivery)
	api.Delete("/deliveries/:id", deliveryHandler.DeleteDelivery)

	api.Get("/dashboard/stats", dashHandler.GetDashboardStats)

	api.Post("/exports/products", exportHandler.ExportProducts)
	api.Post("/exports/deliveries/:id", exportHandler.ExportDelivery)

	// WebSocket Route: cache invalidation event stream
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
