package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation links one user to one spot for a bounded time window. A nil
// LeavingTimestamp means the reservation is open and the user is parked.
//
// Open is a storage-level marker: set to true while the reservation is open
// and NULLed on release. The composite unique indexes on (user_id, open) and
// (spot_id, open) make "at most one open reservation per user and per spot"
// a database invariant rather than a read-then-write check.
type Reservation struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	SpotID           uint             `json:"spot_id" gorm:"not null;index;uniqueIndex:uniq_open_spot,priority:1"`
	UserID           uint             `json:"user_id" gorm:"not null;index;uniqueIndex:uniq_open_user,priority:1"`
	VehicleNumber    string           `json:"vehicle_number" gorm:"size:20;not null"`
	ParkingTimestamp time.Time        `json:"parking_timestamp" gorm:"not null"`
	LeavingTimestamp *time.Time       `json:"leaving_timestamp,omitempty"`
	ParkingCost      *decimal.Decimal `json:"parking_cost,omitempty" gorm:"type:decimal(10,2)"`
	Open             *bool            `json:"-" gorm:"uniqueIndex:uniq_open_user,priority:2;uniqueIndex:uniq_open_spot,priority:2"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsOpen reports whether the reservation has no recorded end time.
func (r *Reservation) IsOpen() bool {
	return r.LeavingTimestamp == nil
}

// StatusDisplay returns "Active" for open reservations, "Completed" otherwise.
func (r *Reservation) StatusDisplay() string {
	if r.IsOpen() {
		return "Active"
	}
	return "Completed"
}

// DurationHours returns the exact elapsed hours between parking and leaving,
// or zero while the reservation is still open.
func (r *Reservation) DurationHours() float64 {
	if r.LeavingTimestamp == nil {
		return 0
	}
	return r.LeavingTimestamp.Sub(r.ParkingTimestamp).Hours()
}

// CalculateCost computes the parking cost for a closed reservation at the
// given hourly price: billed hours are the exact elapsed hours with a floor
// of one hour, and the result is rounded to two decimal places (half away
// from zero). An open reservation costs zero.
func (r *Reservation) CalculateCost(pricePerHour decimal.Decimal) decimal.Decimal {
	if r.LeavingTimestamp == nil {
		return decimal.Zero
	}
	hours := decimal.NewFromFloat(r.DurationHours())
	one := decimal.NewFromInt(1)
	if hours.LessThan(one) {
		hours = one
	}
	return hours.Mul(pricePerHour).Round(2)
}

// ReservationDetail is a Reservation with its display fields resolved. Spot
// or lot references that can no longer be resolved (a historical reservation
// whose spot was removed by a lot shrink) render as "Unknown".
type ReservationDetail struct {
	Reservation
	SpotNumber string `json:"spot_number"`
	LotName    string `json:"lot_name"`
	LotAddress string `json:"lot_address"`
	Status     string `json:"status"`
}
