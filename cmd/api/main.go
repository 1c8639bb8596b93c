package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"train-booking/internal/config"
	"train-booking/internal/database"
	"train-booking/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	err = ensureSchema(schemaCtx, db, cfg.StrictStartup)
	cancelSchema()
	if err != nil {
		log.Fatalf("Error creating table: %v", err)
	}

	srv := server.NewServer(cfg, db)

	// Create a listener on the desired address
	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatalf("Error creating listener: %v", err)
	}

	errChan := make(chan error, 1)

	go func() {
		log.Printf("Server started on %s...", srv.Addr)
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server encountered an error: %v", err)
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-stop:
		log.Printf("Received signal %s, initiating graceful shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shut down the server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}

// openStore builds the store from cfg. Without strict startup a store that
// cannot be configured is logged and replaced by one that fails every request
// with a connection error.
func openStore(cfg config.Config) (database.Service, error) {
	db, err := database.New(cfg.DB)
	if err == nil {
		return db, nil
	}
	if cfg.StrictStartup {
		return nil, err
	}
	log.Printf("Error opening database: %v", err)
	return database.Unavailable(cfg.DB.Name, err), nil
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// ensureSchema creates the bookings table. The error is returned only with
// strict startup; otherwise it is logged and requests surface it later.
func ensureSchema(ctx context.Context, db schemaEnsurer, strict bool) error {
	if err := db.EnsureSchema(ctx); err != nil {
		if strict {
			return err
		}
		log.Printf("Error creating table: %v", err)
		return nil
	}
	log.Println("Table created successfully or already exists")
	return nil
}
