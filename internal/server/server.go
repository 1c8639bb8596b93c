package server

import (
	"fmt"
	"net/http"
	"time"

	"train-booking/internal/config"
	"train-booking/internal/database"
)

type Server struct {
	port int
	db   database.Service
}

// NewServer wires the booking handlers to db and returns an http.Server
// listening on the configured port.
func NewServer(cfg config.Config, db database.Service) *http.Server {
	s := &Server{
		port: cfg.Port,
		db:   db,
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}
}
