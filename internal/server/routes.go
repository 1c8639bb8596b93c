package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"train-booking/internal/database"
	"train-booking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxBodyBytes = 1 << 20

// RegisterRoutes sets up the router with all endpoints.
func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	}))

	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)

	r.Post("/book", s.CreateBookingHandler)
	r.Get("/bookings", s.GetAllBookingsHandler)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

type createBookingResponse struct {
	Message   string                     `json:"message"`
	BookingID int64                      `json:"booking_id"`
	Data      map[string]json.RawMessage `json:"data"`
}

type listBookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// writeStoreError maps a database.Service error to a 500 response.
func writeStoreError(w http.ResponseWriter, err error) {
	if database.IsConnection(err) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Database connection failed"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Database error: " + err.Error()})
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Train Booking API is running securely!",
		"endpoints": map[string]string{
			"POST /book":    "Create a new booking",
			"GET /bookings": "Get all bookings",
			"GET /health":   "Health check",
		},
	})
}

// healthHandler reports whether the store is reachable.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := s.db.Health(r.Context())
	status := http.StatusOK
	if stats["status"] != "healthy" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, stats)
}

// CreateBookingHandler handles booking creation.
func (s *Server) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("Error reading booking body: %v", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request payload"})
		return
	}
	log.Printf("Received booking data: %s", body)

	req, data, err := models.ParseBookingRequest(body)
	switch {
	case errors.Is(err, models.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request payload"})
		return
	case err != nil:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := s.db.CreateBooking(r.Context(), req)
	if err != nil {
		log.Printf("Error creating booking: %v", err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		Message:   "Booking added successfully!",
		BookingID: id,
		Data:      data,
	})
}

// GetAllBookingsHandler retrieves all bookings, newest first.
func (s *Server) GetAllBookingsHandler(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.db.GetAllBookings(r.Context())
	if err != nil {
		log.Printf("Error retrieving bookings: %v", err)
		writeStoreError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, listBookingsResponse{Bookings: bookings})
}
