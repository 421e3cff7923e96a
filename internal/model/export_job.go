package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExportStatus represents the lifecycle state of a CSV export job.
type ExportStatus string

const (
	ExportStatusPending    ExportStatus = "pending"
	ExportStatusProcessing ExportStatus = "processing"
	ExportStatusCompleted  ExportStatus = "completed"
	ExportStatusFailed     ExportStatus = "failed"
	ExportStatusCancelled  ExportStatus = "cancelled"
)

// ExportJob tracks a CSV export of a user's parking history, executed by the
// background task queue.
type ExportJob struct {
	ID           uint         `json:"-" gorm:"primaryKey"`
	JobID        string       `json:"job_id" gorm:"type:char(36);uniqueIndex;not null"`
	UserID       uint         `json:"user_id" gorm:"not null;index"`
	Status       ExportStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	FilePath     string       `json:"-" gorm:"size:255"`
	DownloadURL  string       `json:"download_url,omitempty" gorm:"size:255"`
	ErrorMessage string       `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
}

// BeforeCreate assigns the public job id before creating the record.
func (j *ExportJob) BeforeCreate(tx *gorm.DB) error {
	if j.JobID == "" {
		j.JobID = uuid.New().String()
	}
	return nil
}

// Expired reports whether the generated file is past its expiry time.
func (j *ExportJob) Expired(now time.Time) bool {
	return j.ExpiresAt != nil && now.After(*j.ExpiresAt)
}
