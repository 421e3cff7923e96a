package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParkingLot represents a physical parking location containing numbered spots.
// NumberOfSpots mirrors the count of owned ParkingSpot records and is kept in
// sync by lot creation and resize.
type ParkingLot struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	PrimeLocationName string          `json:"prime_location_name" gorm:"size:100;not null;index"`
	Address           string          `json:"address" gorm:"size:255;not null"`
	PinCode           string          `json:"pin_code" gorm:"size:10;not null"`
	NumberOfSpots     int             `json:"number_of_spots" gorm:"not null"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"` // Price per hour
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	// Relations
	Spots []ParkingSpot `json:"spots,omitempty" gorm:"foreignKey:LotID"`
}

// LotSummary is a ParkingLot enriched with live availability counts for
// list endpoints. The counts are derived from spot statuses on every
// computation, never stored.
type LotSummary struct {
	ParkingLot
	AvailableSpots int64 `json:"available_spots"`
	OccupiedSpots  int64 `json:"occupied_spots"`
}
