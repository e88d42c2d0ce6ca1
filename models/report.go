package models

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses. A report moves pending -> in_progress -> verified;
// verified is terminal. "Collector marks done" and "collector's photo is
// confirmed" are one transition, so there is no separate completed state.
const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusVerified   = "verified"
)

// Report is one waste sighting submitted by a reporter, doubling as the
// collection task collectors claim and verify.
type Report struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             uint      `json:"user_id" gorm:"index;not null"`
	Location           string    `json:"location" gorm:"not null"`
	WasteType          string    `json:"waste_type" gorm:"not null"`
	Amount             string    `json:"amount" gorm:"not null"`
	ImageURL           string    `json:"image_url"`
	ThumbnailURL       string    `json:"thumbnail_url"`
	VerificationResult *string   `json:"verification_result,omitempty"`
	Status             string    `json:"status" gorm:"index;default:pending"`
	CollectorID        *uint     `json:"collector_id,omitempty" gorm:"index"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CollectedWaste records a completed, verified collection against a
// report. The unique index on ReportID keeps a retried award idempotent:
// a report is collected at most once.
type CollectedWaste struct {
	Model
	ReportID       uuid.UUID `json:"report_id" gorm:"type:uuid;uniqueIndex;not null"`
	CollectorID    uint      `json:"collector_id" gorm:"index;not null"`
	CollectionDate time.Time `json:"collection_date"`
	Status         string    `json:"status"`
}

// CreateReportRequest is the payload of the report submission endpoint.
type CreateReportRequest struct {
	Location           string `json:"location" binding:"required" conform:"trim"`
	WasteType          string `json:"waste_type" binding:"required" conform:"trim"`
	Amount             string `json:"amount" binding:"required" conform:"trim"`
	ImageURL           string `json:"image_url"`
	VerificationResult string `json:"verification_result"`
}

// CollectionTask is the collector-facing view of a report.
type CollectionTask struct {
	ID          uuid.UUID `json:"id"`
	Location    string    `json:"location"`
	WasteType   string    `json:"waste_type"`
	Amount      string    `json:"amount"`
	Status      string    `json:"status"`
	Date        string    `json:"date"`
	CollectorID *uint     `json:"collector_id,omitempty"`
}

// TaskView converts a report to its collector-facing form.
func (r *Report) TaskView() CollectionTask {
	return CollectionTask{
		ID:          r.ID,
		Location:    r.Location,
		WasteType:   r.WasteType,
		Amount:      r.Amount,
		Status:      r.Status,
		Date:        r.CreatedAt.Format("2006-01-02"),
		CollectorID: r.CollectorID,
	}
}
