package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"train-booking/internal/database"
	"train-booking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDatabase is a mock implementation of the database.Service interface
type MockDatabase struct {
	mock.Mock
}

func (m *MockDatabase) Health(ctx context.Context) map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockDatabase) Close() error {
	return nil
}

func (m *MockDatabase) EnsureSchema(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDatabase) CreateBooking(ctx context.Context, req *models.BookingRequest) (int64, error) {
	args := m.Called(req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDatabase) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called()
	bookings, _ := args.Get(0).([]models.Booking)
	return bookings, args.Error(1)
}

const validBooking = `{"name":"A","phone_no":"123","from_station":"X","to_station":"Y","travel_date":"2024-01-01",` +
	`"travel_time":"10:00","no_of_passengers":2,"class":"AC","selected_seats":["A1","A2"]}`

func newTestServer() (*MockDatabase, http.Handler) {
	db := new(MockDatabase)
	s := &Server{db: db}
	return db, s.RegisterRoutes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestCreateBookingHandler(t *testing.T) {
	db, h := newTestServer()
	db.On("CreateBooking", mock.MatchedBy(func(req *models.BookingRequest) bool {
		return *req.Name == "A" && req.NoOfPassengers == 2 &&
			assert.ObjectsAreEqual([]string{"A1", "A2"}, req.SelectedSeats)
	})).Return(int64(42), nil)

	rr := do(t, h, http.MethodPost, "/book", validBooking)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	body := decode(t, rr)
	assert.Equal(t, "Booking added successfully!", body["message"])
	assert.Equal(t, float64(42), body["booking_id"])

	var submitted map[string]any
	require.NoError(t, json.Unmarshal([]byte(validBooking), &submitted))
	assert.Equal(t, submitted, body["data"])
	db.AssertExpectations(t)
}

func TestCreateBookingHandlerMissingField(t *testing.T) {
	db, h := newTestServer()

	rr := do(t, h, http.MethodPost, "/book", `{"name":"A","phone_no":"123","travel_date":"2024-01-01"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"error": "Missing field: from_station"}, decode(t, rr))
	db.AssertNotCalled(t, "CreateBooking", mock.Anything)
}

func TestCreateBookingHandlerInvalidPassengers(t *testing.T) {
	db, h := newTestServer()
	body := bytes.Replace([]byte(validBooking), []byte(`"no_of_passengers":2`), []byte(`"no_of_passengers":"two"`), 1)

	rr := do(t, h, http.MethodPost, "/book", string(body))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]any{"error": "Invalid field: no_of_passengers"}, decode(t, rr))
	db.AssertNotCalled(t, "CreateBooking", mock.Anything)
}

func TestCreateBookingHandlerInvalidPayload(t *testing.T) {
	_, h := newTestServer()

	for _, body := range []string{"{", "[1,2]"} {
		rr := do(t, h, http.MethodPost, "/book", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, map[string]any{"error": "Invalid request payload"}, decode(t, rr))
	}
}

func TestCreateBookingHandlerConnectionError(t *testing.T) {
	db, h := newTestServer()
	db.On("CreateBooking", mock.Anything).
		Return(int64(0), &database.ConnectionError{Err: errors.New("dial tcp: connection refused")})

	rr := do(t, h, http.MethodPost, "/book", validBooking)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, map[string]any{"error": "Database connection failed"}, decode(t, rr))
}

func TestCreateBookingHandlerStatementError(t *testing.T) {
	db, h := newTestServer()
	db.On("CreateBooking", mock.Anything).
		Return(int64(0), &database.StatementError{Op: "insert booking", Err: errors.New("Column 'name' cannot be null")})

	rr := do(t, h, http.MethodPost, "/book", validBooking)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, map[string]any{"error": "Database error: Column 'name' cannot be null"}, decode(t, rr))
}

func TestGetAllBookingsHandler(t *testing.T) {
	db, h := newTestServer()
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{ID: 2, Name: "B", SelectedSeats: []string{}, CreatedAt: created.Add(time.Minute)},
		{
			ID:             1,
			Name:           "A",
			PhoneNo:        "123",
			FromStation:    "X",
			ToStation:      "Y",
			TravelDate:     "2024-01-01",
			TravelTime:     "10:00",
			NoOfPassengers: 2,
			Class:          "AC",
			SelectedSeats:  []string{"A1", "A2"},
			CreatedAt:      created,
		},
	}
	db.On("GetAllBookings").Return(bookings, nil)

	rr := do(t, h, http.MethodGet, "/bookings", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, bookings, resp.Bookings)

	raw := decode(t, rr)["bookings"].([]any)
	assert.Equal(t, []any{}, raw[0].(map[string]any)["selected_seats"])
	assert.Equal(t, []any{"A1", "A2"}, raw[1].(map[string]any)["selected_seats"])
	db.AssertExpectations(t)
}

func TestGetAllBookingsHandlerEmpty(t *testing.T) {
	db, h := newTestServer()
	db.On("GetAllBookings").Return(nil, nil)

	rr := do(t, h, http.MethodGet, "/bookings", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"bookings":[]}`, rr.Body.String())
}

func TestGetAllBookingsHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"connection", &database.ConnectionError{Err: errors.New("timeout")}, "Database connection failed"},
		{"statement", &database.StatementError{Op: "list bookings", Err: errors.New("Unknown column 'class'")}, "Database error: Unknown column 'class'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, h := newTestServer()
			db.On("GetAllBookings").Return(nil, tt.err)

			rr := do(t, h, http.MethodGet, "/bookings", "")

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Equal(t, map[string]any{"error": tt.want}, decode(t, rr))
		})
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		stats  map[string]string
		status int
	}{
		{"healthy", map[string]string{"status": "healthy", "database": "connected"}, http.StatusOK},
		{"disconnected", map[string]string{"status": "unhealthy", "database": "disconnected"}, http.StatusInternalServerError},
		{"ping failure", map[string]string{"status": "unhealthy", "error": "server has gone away"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, h := newTestServer()
			db.On("Health").Return(tt.stats)

			rr := do(t, h, http.MethodGet, "/health", "")

			assert.Equal(t, tt.status, rr.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.stats, body)
		})
	}
}

func TestRootHandler(t *testing.T) {
	db, h := newTestServer()

	rr := do(t, h, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "Train Booking API is running securely!", body["message"])
	assert.Equal(t, map[string]any{
		"POST /book":    "Create a new booking",
		"GET /bookings": "Get all bookings",
		"GET /health":   "Health check",
	}, body["endpoints"])
	db.AssertNotCalled(t, "Health")
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	db, h := newTestServer()
	db.On("GetAllBookings").Return([]models.Booking{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Origin", "https://tickets.example.org")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/book", nil)
	req.Header.Set("Origin", "https://tickets.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
