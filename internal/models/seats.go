package models

import "strings"

const seatSeparator = ","

// JoinSeats flattens a seat list into the stored text form.
func JoinSeats(seats []string) string {
	return strings.Join(seats, seatSeparator)
}

// SplitSeats reverses JoinSeats. Empty text yields an empty, non-nil list.
func SplitSeats(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, seatSeparator)
}
