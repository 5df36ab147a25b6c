package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dfryer1193/blogcontext/blog/application"
	"github.com/dfryer1193/blogcontext/blog/domain"
	"github.com/dfryer1193/blogcontext/blog/persistence"
	"github.com/dfryer1193/blogcontext/internal/config"
	"github.com/dfryer1193/blogcontext/internal/logging"
	"github.com/dfryer1193/blogcontext/internal/middleware"
	"github.com/dfryer1193/blogcontext/internal/rest"
	"github.com/dfryer1193/blogcontext/shared/db"
	"github.com/dfryer1193/blogcontext/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	var database db.Database = sqlite.NewSQLiteDB(&cfg.SQLite)
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	blogService := application.NewBlogService(
		persistence.NewBlogRepository(database.DB()),
		db.NewTransactor(database.DB()),
		domain.NewEditor(nil),
		application.NewMarkdownRenderer(cfg.BaseURL),
	)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	rest.NewApi(router, blogService)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
		return
	}

	log.Info().Msg("Server stopped")
}
