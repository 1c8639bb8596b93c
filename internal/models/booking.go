package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Booking is a stored train-ticket booking.
type Booking struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PhoneNo        string    `json:"phone_no"`
	FromStation    string    `json:"from_station"`
	ToStation      string    `json:"to_station"`
	TravelDate     string    `json:"travel_date"`
	TravelTime     string    `json:"travel_time"`
	NoOfPassengers int       `json:"no_of_passengers"`
	Class          string    `json:"class"`
	SelectedSeats  []string  `json:"selected_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// BookingRequest is a validated booking submission. Text fields are nil when
// the client sent an explicit null.
type BookingRequest struct {
	Name           *string
	PhoneNo        *string
	FromStation    *string
	ToStation      *string
	TravelDate     *string
	TravelTime     *string
	NoOfPassengers int
	Class          *string
	SelectedSeats  []string
}

// RequiredFields lists the keys a booking submission must carry, in the
// order they are checked.
var RequiredFields = []string{
	"name",
	"phone_no",
	"from_station",
	"to_station",
	"travel_date",
	"travel_time",
	"no_of_passengers",
	"class",
	"selected_seats",
}

// ErrInvalidPayload is returned when the body is not a JSON object.
var ErrInvalidPayload = errors.New("invalid request payload")

// ParseBookingRequest decodes body into a BookingRequest. The raw object is
// returned as well so it can be echoed back to the client.
func ParseBookingRequest(body []byte) (*BookingRequest, map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, nil, ErrInvalidPayload
	}

	for _, field := range RequiredFields {
		if _, ok := raw[field]; !ok {
			return nil, raw, ValidationError{Field: field, Reason: ReasonMissing}
		}
	}

	req := &BookingRequest{}
	texts := []struct {
		field string
		dst   **string
	}{
		{"name", &req.Name},
		{"phone_no", &req.PhoneNo},
		{"from_station", &req.FromStation},
		{"to_station", &req.ToStation},
		{"travel_date", &req.TravelDate},
		{"travel_time", &req.TravelTime},
		{"class", &req.Class},
	}
	for _, t := range texts {
		if err := json.Unmarshal(raw[t.field], t.dst); err != nil {
			return nil, raw, ValidationError{Field: t.field, Reason: ReasonInvalid, Err: err}
		}
	}

	n, err := parsePassengerCount(raw["no_of_passengers"])
	if err != nil {
		return nil, raw, ValidationError{Field: "no_of_passengers", Reason: ReasonInvalid, Err: err}
	}
	req.NoOfPassengers = n

	seats, err := parseSeats(raw["selected_seats"])
	if err != nil {
		return nil, raw, ValidationError{Field: "selected_seats", Reason: ReasonInvalid, Err: err}
	}
	req.SelectedSeats = seats

	return req, raw, nil
}

// parsePassengerCount accepts a JSON number, truncated toward zero, or a
// string holding a decimal integer.
func parsePassengerCount(raw json.RawMessage) (int, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}

	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return boundPassengerCount(i)
		}
		f, err := val.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return 0, fmt.Errorf("passenger count %s out of range", val)
		}
		return int(f), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("passenger count %q is not an integer", val)
		}
		return boundPassengerCount(i)
	default:
		return 0, fmt.Errorf("passenger count must be a number, got %T", v)
	}
}

// boundPassengerCount keeps the count within the store's signed INT column.
func boundPassengerCount(i int64) (int, error) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, fmt.Errorf("passenger count %d out of range", i)
	}
	return int(i), nil
}

func parseSeats(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	seats := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			seats = append(seats, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return nil, fmt.Errorf("seat %s is neither a string nor a number", item)
		}
		seats = append(seats, n.String())
	}
	return seats, nil
}
