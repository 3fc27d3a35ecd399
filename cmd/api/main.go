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

	"aicruit/recruiting-api/internal/config"
	"aicruit/recruiting-api/internal/handlers"
	"aicruit/recruiting-api/internal/repositories"
	"aicruit/recruiting-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	appRepo := repositories.NewApplicationRepository(db)
	jdRepo := repositories.NewJobDescriptionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	normalizer := services.NewFileNormalizer()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the job description vector index. The API degrades to
	// catalog-only search when Qdrant is unreachable.
	jobIndex, err := services.NewJobIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Printf("⚠️  Failed to initialize Qdrant, search disabled: %v\n", err)
		jobIndex = nil
	} else if err := jobIndex.InitCollection(); err != nil {
		log.Printf("⚠️  Failed to initialize Qdrant collection, search disabled: %v\n", err)
		jobIndex = nil
	} else {
		log.Println("✅ Qdrant initialized successfully")
	}

	// Initialize pipeline
	retries := cfg.Worker.RetryMaxAttempts
	pipeline := services.NewPipelineService(
		normalizer,
		services.NewExtractionService(geminiService, retries),
		services.NewMatchingService(geminiService, retries),
		services.NewRankingService(geminiService, retries),
		services.NewAuthenticityService(geminiService, retries),
		services.NewStoryService(geminiService, retries),
		services.NewEmailService(geminiService, retries),
	)
	log.Println("✅ Pipeline service initialized")

	processor := services.NewApplicationProcessor(appRepo, jdRepo, storageService, pipeline)

	// Initialize worker
	worker := services.NewWorker(
		appRepo,
		processor,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	applicationHandler := handlers.NewApplicationHandler(
		appRepo,
		storageService,
		worker,
		cfg.Storage.MaxFileSize,
	)
	jobDescriptionHandler := handlers.NewJobDescriptionHandler(
		jdRepo,
		pdfParser,
		jobIndex,
	)
	dashboardHandler := handlers.NewDashboardHandler(appRepo, jdRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AICruit Recruiting API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Applications
	api.Post("/applications", applicationHandler.HandleSubmit)
	api.Get("/applications/:id", applicationHandler.HandleGetApplication)
	api.Get("/candidates", applicationHandler.HandleListCandidates)

	// Job descriptions
	api.Post("/job-descriptions", jobDescriptionHandler.HandleCreate)
	api.Post("/job-descriptions/upload", jobDescriptionHandler.HandleUpload)
	api.Post("/job-descriptions/search", jobDescriptionHandler.HandleSearch)
	api.Get("/job-descriptions", jobDescriptionHandler.HandleList)
	api.Get("/job-descriptions/:id", jobDescriptionHandler.HandleGet)
	api.Delete("/job-descriptions/:id", jobDescriptionHandler.HandleDelete)

	// Dashboard
	api.Get("/dashboard/stats", dashboardHandler.HandleStats)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AICruit Recruiting API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/applications",
				"GET /api/v1/applications/:id",
				"GET /api/v1/candidates",
				"POST /api/v1/job-descriptions",
				"POST /api/v1/job-descriptions/upload",
				"POST /api/v1/job-descriptions/search",
				"GET /api/v1/job-descriptions",
				"GET /api/v1/job-descriptions/:id",
				"DELETE /api/v1/job-descriptions/:id",
				"GET /api/v1/dashboard/stats",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
