package model

import (
	"fmt"
	"time"
)

// SpotStatus is the allocation state of a single spot.
type SpotStatus string

const (
	SpotAvailable SpotStatus = "A"
	SpotOccupied  SpotStatus = "O"
)

// Display returns the human-readable form of the status.
func (s SpotStatus) Display() string {
	if s == SpotOccupied {
		return "Occupied"
	}
	return "Available"
}

// ParkingSpot is the smallest allocatable unit. A spot is Occupied exactly
// when one open Reservation references it; only the reservation engine's
// booking and release transitions may flip the status.
type ParkingSpot struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	LotID      uint       `json:"lot_id" gorm:"not null;index;uniqueIndex:uniq_lot_spot_number,priority:1"`
	SpotNumber string     `json:"spot_number" gorm:"size:10;not null;uniqueIndex:uniq_lot_spot_number,priority:2"`
	Status     SpotStatus `json:"status" gorm:"type:char(1);not null;default:'A';index"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// FormatSpotNumber renders the zero-padded spot label for the n-th spot of a
// lot, e.g. FormatSpotNumber(1) == "P001".
func FormatSpotNumber(n int) string {
	return fmt.Sprintf("P%03d", n)
}
