package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"train-booking/internal/config"
	"train-booking/internal/models"

	"github.com/go-sql-driver/mysql"
)

// Service represents a service that interacts with the bookings store.
type Service interface {
	// Health reports whether a live connection to the store can be obtained.
	// The "status" key is "healthy" or "unhealthy".
	Health(ctx context.Context) map[string]string

	// Close terminates the connection pool.
	Close() error

	// EnsureSchema creates the bookings table if it does not exist.
	EnsureSchema(ctx context.Context) error

	CreateBooking(ctx context.Context, req *models.BookingRequest) (int64, error)
	GetAllBookings(ctx context.Context) ([]models.Booking, error)
}

const healthTimeout = 2 * time.Second

type service struct {
	db   *sql.DB
	name string
	// openErr is set when the pool could not be built; every operation then
	// fails with a ConnectionError wrapping it.
	openErr error
}

// Open returns a pool of TLS connections to the MySQL server described by
// cfg. No connection is made until the pool is first used.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	tlsCfg, err := tlsConfig(cfg.SSLCAPath, cfg.Host)
	if err != nil {
		return nil, err
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Timeout = cfg.ConnectTimeout
	mc.TLS = tlsCfg

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("build mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

func New(cfg config.DBConfig) (Service, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return &service{db: db, name: cfg.Name}, nil
}

// Unavailable returns a Service for a store that could not be configured.
// Health reports it as disconnected and every store operation returns a
// ConnectionError wrapping err.
func Unavailable(name string, err error) Service {
	return &service{name: name, openErr: err}
}

// conn acquires a dedicated connection for one request. Callers must close it.
func (s *service) conn(ctx context.Context) (*sql.Conn, error) {
	if s.openErr != nil {
		return nil, &ConnectionError{Err: s.openErr}
	}
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return c, nil
}

func (s *service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	conn, err := s.conn(ctx)
	if err != nil {
		log.Printf("Health check: %v", err)
		return map[string]string{"status": "unhealthy", "database": "disconnected"}
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return map[string]string{"status": "unhealthy", "error": err.Error()}
	}
	return map[string]string{"status": "healthy", "database": "connected"}
}

// Close closes the connection pool.
func (s *service) Close() error {
	if s.db == nil {
		return nil
	}
	log.Printf("Disconnected from database: %s", s.name)
	return s.db.Close()
}

func (s *service) EnsureSchema(ctx context.Context) error {
	stmt, err := createTableStatement()
	if err != nil {
		return err
	}

	conn, err := s.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return &StatementError{Op: "create table", Err: err}
	}
	return nil
}

func (s *service) CreateBooking(ctx context.Context, req *models.BookingRequest) (int64, error) {
	query := `
		INSERT INTO bookings
		(name, phone_no, from_station, to_station, travel_date, travel_time, no_of_passengers, class, selected_seats)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	conn, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, query,
		req.Name,
		req.PhoneNo,
		req.FromStation,
		req.ToStation,
		req.TravelDate,
		req.TravelTime,
		req.NoOfPassengers,
		req.Class,
		models.JoinSeats(req.SelectedSeats),
	)
	if err != nil {
		return 0, &StatementError{Op: "insert booking", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StatementError{Op: "insert booking", Err: err}
	}
	return id, nil
}

// GetAllBookings returns every booking, newest first.
func (s *service) GetAllBookings(ctx context.Context) ([]models.Booking, error) {
	query := `
		SELECT id, name, phone_no, from_station, to_station, travel_date, travel_time,
			no_of_passengers, class, selected_seats, created_at
		FROM bookings
		ORDER BY created_at DESC, id DESC
	`
	conn, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, &StatementError{Op: "list bookings", Err: err}
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var (
			booking   models.Booking
			seats     sql.NullString
			createdAt sql.NullTime
		)
		err := rows.Scan(
			&booking.ID,
			&booking.Name,
			&booking.PhoneNo,
			&booking.FromStation,
			&booking.ToStation,
			&booking.TravelDate,
			&booking.TravelTime,
			&booking.NoOfPassengers,
			&booking.Class,
			&seats,
			&createdAt,
		)
		if err != nil {
			return nil, &StatementError{Op: "scan booking", Err: err}
		}
		booking.SelectedSeats = models.SplitSeats(seats.String)
		booking.CreatedAt = createdAt.Time
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, &StatementError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}
