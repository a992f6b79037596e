package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"curator/internal/auth"
	"curator/internal/config"
	"curator/internal/handler"
	"curator/internal/ingest"
	"curator/internal/middleware"
	"curator/internal/queue"
	"curator/internal/ratelimit"
	"curator/internal/recommender"
	"curator/internal/repository/postgres"
	"curator/internal/service"
	"curator/internal/storage"
	"curator/internal/tasks"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.Debug {
		logFile, err := config.SetupLogFile("logs", 10)
		if err != nil {
			log.Fatalf("Failed to create log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	clientRepo := postgres.NewClientRepository(repoConfig)
	teamspaceRepo := postgres.NewTeamspaceRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	byteRepo := postgres.NewByteRepository(repoConfig)
	recRepo := postgres.NewRecommendationRepository(repoConfig)
	logRepo := postgres.NewChangeLogRepository(repoConfig)
	taskRepo := postgres.NewTaskRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Task kind registry (embedded YAML)
	registry, err := tasks.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load task registry: %v", err)
	}

	// External recommendation service client
	remote := recommender.NewHTTPClient(cfg.RecommenderURL, cfg.RecommenderAPIKey)

	// Task tracker; completion sinks are bound once the services exist
	tracker := tasks.NewTracker(registry, taskRepo, remote, logger)

	// Object storage for raw and parsed document revisions
	store, err := storage.NewMinioStore(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("Failed to create object store: %v", err)
	}
	logger.Info("object store connected", "bucket", cfg.MinioBucket)

	// Upload event publisher
	publisher, err := queue.NewAMQPPublisher(cfg.RabbitMQURL, cfg.UploadQueue)
	if err != nil {
		log.Fatalf("Failed to connect to rabbitmq: %v", err)
	}
	defer publisher.Close()

	// Byte submission limiter (optional; disabled without a redis addr)
	var limiter service.RateLimiter
	if cfg.RedisAddr != "" {
		fw, err := ratelimit.NewFixedWindowLimiter(
			cfg.RedisAddr,
			cfg.RedisPassword,
			"curator:ratelimit",
			cfg.ByteRateLimit,
			cfg.ByteRateWindow,
		)
		if err != nil {
			log.Fatalf("Failed to create rate limiter: %v", err)
		}
		limiter = fw
		logger.Info("rate limiter enabled",
			"limit", cfg.ByteRateLimit,
			"window", cfg.ByteRateWindow.String(),
		)
	}

	// Create services
	sanitizer := ingest.NewSanitizer()
	clientService := service.NewClientService(clientRepo, logger)
	teamspaceService := service.NewTeamspaceService(teamspaceRepo, clientRepo, logger)
	folderService := service.NewFolderService(folderRepo, docRepo, clientRepo, recRepo, byteRepo, txManager, logger)
	byteService := service.NewByteService(byteRepo, recRepo, docRepo, txManager, remote, tracker, limiter, logger)
	docService := service.NewDocumentService(
		docRepo,
		folderRepo,
		clientRepo,
		teamspaceRepo,
		recRepo,
		byteRepo,
		txManager,
		sanitizer,
		store,
		publisher,
		remote,
		tracker,
		logger,
	)
	changeLogService := service.NewChangeLogService(logRepo, recRepo, byteRepo, docRepo, txManager, logger)

	// Completed jobs flow back into the services that requested them
	tracker.Bind(byteService, docService)

	// Create handlers
	clientHandler := handler.NewClientHandler(clientService, logger)
	teamspaceHandler := handler.NewTeamspaceHandler(teamspaceService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	docHandler := handler.NewDocumentHandler(docService, byteService, logger)
	byteHandler := handler.NewByteHandler(byteService, logger)
	changeLogHandler := handler.NewChangeLogHandler(changeLogService, logger)
	taskHandler := handler.NewTaskHandler(taskRepo, tracker, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Client routes
	mux.HandleFunc("POST /api/clients", clientHandler.CreateClient)
	mux.HandleFunc("GET /api/clients", clientHandler.ListClients)
	mux.HandleFunc("GET /api/clients/{id}", clientHandler.GetClient)
	mux.HandleFunc("PATCH /api/clients/{id}", clientHandler.UpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", clientHandler.DeleteClient)

	// Teamspace routes
	mux.HandleFunc("POST /api/teamspaces", teamspaceHandler.CreateTeamspace)
	mux.HandleFunc("GET /api/teamspaces", teamspaceHandler.ListTeamspaces)
	mux.HandleFunc("GET /api/teamspaces/{id}", teamspaceHandler.GetTeamspace)
	mux.HandleFunc("PATCH /api/teamspaces/{id}", teamspaceHandler.UpdateTeamspace)
	mux.HandleFunc("DELETE /api/teamspaces/{id}", teamspaceHandler.DeleteTeamspace)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.UploadDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/diff", docHandler.DiffRevisions)
	mux.HandleFunc("DELETE /api/documents/{id}/recommendations", docHandler.DeleteRecommendations)

	// Byte routes
	mux.HandleFunc("POST /api/bytes", byteHandler.CreateByte)
	mux.HandleFunc("GET /api/bytes", byteHandler.ListBytes)
	mux.HandleFunc("GET /api/bytes/{id}", byteHandler.GetByte)
	mux.HandleFunc("PATCH /api/bytes/{id}", byteHandler.UpdateByte)
	mux.HandleFunc("DELETE /api/bytes/{id}", byteHandler.DeleteByte)
	mux.HandleFunc("GET /api/bytes/{id}/recommendations", byteHandler.GetRecommendations)

	// Change log routes
	mux.HandleFunc("POST /api/changelogs", changeLogHandler.CreateChangeLog)
	mux.HandleFunc("GET /api/changelogs", changeLogHandler.ListChangeLogs)

	// Task routes
	mux.HandleFunc("GET /api/tasks", taskHandler.ListTasks)
	mux.HandleFunc("GET /api/tasks/{task_id}", taskHandler.GetTask)
	mux.HandleFunc("POST /api/tasks/poll", taskHandler.TriggerPoll)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.Auth(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Background poll loop for outstanding remote jobs
	go tracker.Run(ctx, cfg.TaskPollInterval)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
