package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/clientes_api/internal/authz"
	"github.com/Skotchmaster/clientes_api/internal/config"
	"github.com/Skotchmaster/clientes_api/internal/db"
	"github.com/Skotchmaster/clientes_api/internal/events"
	"github.com/Skotchmaster/clientes_api/internal/handlers"
	"github.com/Skotchmaster/clientes_api/internal/logging"
	"github.com/Skotchmaster/clientes_api/internal/repo"
	"github.com/Skotchmaster/clientes_api/internal/search"
	"github.com/Skotchmaster/clientes_api/internal/service"
	"github.com/Skotchmaster/clientes_api/internal/tokens"
	httpserver "github.com/Skotchmaster/clientes_api/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	gdb, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var index search.Index = search.Nop{}
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Error("es_init_failed", "url", cfg.ESURL, "error", err)
			os.Exit(1)
		}
		index = search.NewESIndex(esClient, search.IndexName)
		logger.Info("search_enabled", "url", cfg.ESURL)
	}

	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.JWTAccessTTL)
	store := repo.New(gdb, cfg.DBQueryTimeout)

	e := httpserver.New(&httpserver.Deps{
		Logger: logger,
		Tokens: issuer,
		Policy: authz.DefaultPolicy(cfg.ProtectClientCreate),
		AuthHandler: &handlers.AuthHandler{Auth: &service.AuthService{
			Users: store, Tokens: issuer, Events: publisher,
		}},
		ClientesHandler: &handlers.ClientesHandler{Clientes: &service.ClienteService{
			Store: store, Index: index, Events: publisher,
		}},
		HealthHandler: &handlers.HealthHandler{DB: gdb, Timeout: cfg.DBQueryTimeout},
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}

	logger.Info("shutdown_complete")
}
