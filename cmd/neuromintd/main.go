package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neuromint/neuromint-go/internal/api"
	"github.com/neuromint/neuromint-go/internal/config"
	"github.com/neuromint/neuromint-go/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "[neuromintd] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	var db store.DB
	if cfg.DBPath != "" {
		sqlDB, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			logger.Fatalf("open database %s: %v", cfg.DBPath, err)
		}
		if err := sqlDB.Migrate(); err != nil {
			logger.Fatalf("migrate database: %v", err)
		}
		defer sqlDB.Close()
		db = sqlDB
	} else {
		logger.Println("persistence disabled; best records will not be kept")
	}

	srv := api.NewServer(db, api.Options{
		SessionTTL:  cfg.SessionTTL,
		Diagnostics: cfg.Diagnostics,
		Logger:      logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatalf("listen %s: %v", cfg.Addr, err)
	}
	logger.Printf("listening on %s", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	case sig := <-stop:
		logger.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}
}
