package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jobgenie/backend/agent"
	"github.com/jobgenie/backend/auth"
	"github.com/jobgenie/backend/config"
	_ "github.com/jobgenie/backend/docs"
	"github.com/jobgenie/backend/gemini"
	"github.com/jobgenie/backend/handlers"
	"github.com/jobgenie/backend/mcp"
	"github.com/jobgenie/backend/scraper"
	"github.com/jobgenie/backend/search"
	"github.com/jobgenie/backend/storage"
	"github.com/jobgenie/backend/tools"
)

// @title JobGenie API
// @version 1.0
// @description Job search agent backend: intent analysis, web search, page resolution, structuring, filtering and ranking.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load .env file if present (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Page fetching
	registry, err := scraper.LoadRegistry(cfg.SitesFile)
	if err != nil {
		log.Fatalf("Failed to load site table: %v", err)
	}

	var fetcher scraper.PageFetcher
	if cfg.FetchServiceURL != "" {
		log.Printf("Using remote fetch service at %s", cfg.FetchServiceURL)
		fetcher = scraper.NewRemoteClient(cfg.FetchServiceURL, cfg.FetchServiceToken, scraper.FetchBudget(cfg))
	} else {
		fetcher = scraper.NewScraper(cfg, registry)
	}

	if cfg.RedisURL != "" {
		redisClient, err := storage.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("Page cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			ttl := time.Duration(cfg.PageCacheTTLMinutes) * time.Minute
			fetcher = scraper.NewCachedFetcher(fetcher, storage.NewRedisCache(redisClient), ttl)
			log.Println("Page cache enabled")
		}
	}

	// Search provider
	provider, err := search.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize search provider: %v", err)
	}

	// Generative model
	log.Printf("Initializing %s generator...", cfg.GenerativeBackend)
	generator, closeGenerator, err := gemini.NewGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}
	defer closeGenerator()

	// Credit ledger and run history
	var (
		ledger   agent.CreditLedger
		recorder agent.RunRecorder
		users    handlers.UserStore
		resumes  handlers.ResumeStore
	)
	if cfg.CreditsEnabled {
		log.Println("Initializing Firestore client...")
		firestoreClient, err := storage.NewFirestoreClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Firestore client: %v", err)
		}
		defer firestoreClient.Close()
		ledger, recorder, users = firestoreClient, firestoreClient, firestoreClient
	}

	if cfg.ResumeBucketName != "" {
		log.Println("Initializing Cloud Storage client...")
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage client: %v", err)
		}
		defer storageClient.Close()
		resumes = storageClient
	}

	jobAgent := agent.NewJobAgent(cfg, generator, provider, fetcher, ledger, recorder)

	fanOut := search.FanOutOptions{
		PerQuery:  cfg.ResultsPerQuery,
		GlobalCap: cfg.MaxURLs,
		Country:   cfg.SearchCountry,
	}
	toolRegistry := tools.NewDefaultRegistry(jobAgent, provider, fetcher, fanOut, cfg.DefaultDateRangeDays)
	mcpServer := mcp.NewServer(toolRegistry, handlers.Version)

	jwtService := auth.NewJWTService(cfg.JWTSecret, 24*time.Hour)

	searchHandler := handlers.NewSearchHandler(jobAgent, users, resumes, toolRegistry)
	fetchHandler := handlers.NewFetchHandler(fetcher)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handlers.HealthCheck)

	// Searches are charged, so the caller must be known when credits are on
	searchAuth := auth.OptionalAuthMiddleware(jwtService)
	if cfg.CreditsEnabled {
		searchAuth = auth.AuthMiddleware(jwtService)
	}

	api := router.Group("/api")
	{
		api.POST("/search-jobs", searchAuth, searchHandler.SearchJobs)
		api.POST("/analyze-intent", searchHandler.AnalyzeIntent)
		api.GET("/search-runs", auth.AuthMiddleware(jwtService), searchHandler.SearchRuns)
		api.POST("/fetch-job-page", auth.ServiceOrUserMiddleware(jwtService, cfg.FetchServiceToken), fetchHandler.FetchJobPage)
		api.GET("/tools", searchHandler.GetTools)

		// MCP endpoints for external AI agents
		mcpServer.RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
