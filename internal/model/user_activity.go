package model

import "time"

// Activity types recorded by the reservation engine and export pipeline.
const (
	ActivityBookingCreated   = "booking_created"
	ActivityBookingCompleted = "booking_completed"
	ActivityExportRequested  = "csv_export_requested"
	ActivityExportCancelled  = "csv_export_cancelled"
	ActivityReminderSent     = "reminder_sent"
	ActivityReportSent       = "monthly_report_sent"
)

// UserActivity is an append-only event record consumed by reporting. The
// payload is opaque JSON; writers never read it back.
type UserActivity struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	ActivityType string    `json:"activity_type" gorm:"size:50;not null;index"`
	ActivityData string    `json:"activity_data" gorm:"type:text"`
	Timestamp    time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
}
