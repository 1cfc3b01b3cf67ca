package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aviary-hq/aviary-api/internal/config"
	"github.com/aviary-hq/aviary-api/internal/database"
	"github.com/aviary-hq/aviary-api/internal/handlers"
	"github.com/aviary-hq/aviary-api/internal/hub"
	authmw "github.com/aviary-hq/aviary-api/internal/middleware"
	"github.com/aviary-hq/aviary-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	workspaceService := services.NewWorkspaceService(db)
	collectionService := services.NewCollectionService(db)
	openapiService := services.NewOpenAPIService()
	parserService := services.NewParserService(openapiService)
	importService := services.NewImportService(
		collectionService,
		workspaceService,
		parserService,
		&http.Client{Timeout: cfg.ImportFetchTimeout},
		cfg.ImportMaxFetchBytes,
		log,
	)

	eventHub := hub.NewHub()
	go eventHub.Run()

	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, eventHub)
	collectionHandler := handlers.NewCollectionHandler(workspaceService, collectionService)
	importHandler := handlers.NewImportHandler(importService, eventHub)
	eventsHandler := handlers.NewEventsHandler(eventHub, workspaceService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	app.Use(authmw.RequestLogger(log))

	protected := app.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/workspace", workspaceHandler.Create)
	protected.Get(handlers.ListByUserRoute, workspaceHandler.ListByUser)
	protected.Get(handlers.ListByTeamRoute, workspaceHandler.ListByTeam)
	protected.Get("/workspace/:workspaceId", workspaceHandler.Get)
	protected.Put("/workspace/:workspaceId", workspaceHandler.Update)
	protected.Delete("/workspace/:workspaceId", workspaceHandler.Delete)

	protected.Get("/workspace/:workspaceId/users", workspaceHandler.GetUsers)
	protected.Post("/workspace/:workspaceId/user", workspaceHandler.AddUsers)
	protected.Put("/workspace/:workspaceId/user/:userId", workspaceHandler.ChangeRole)
	protected.Delete("/workspace/:workspaceId/user/:userId", workspaceHandler.RemoveUser)

	protected.Post("/workspace/:workspaceId/importFile/collection", importHandler.ImportFile)
	protected.Post("/workspace/:workspaceId/importUrl/collection", importHandler.ImportURL)
	protected.Post("/workspace/:workspaceId/importJson/collection", importHandler.ImportInline)

	protected.Get("/workspace/:workspaceId/collections", collectionHandler.ListByWorkspace)
	protected.Get("/workspace/:workspaceId/events", eventsHandler.Connect)

	app.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handlers.ListRouteAliases(app),
	}

	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}
}
