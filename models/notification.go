package models

// Notification types used across the lifecycle and ledger flows.
const (
	NotificationTypeReward     = "reward"
	NotificationTypeCollection = "collection"
	NotificationTypeRedemption = "redemption"
)

// Notification represents a user-facing event delivered by polling.
// Only the read flag ever changes after creation.
type Notification struct {
	Model
	UserID  uint   `json:"user_id" gorm:"index;not null"`
	Message string `json:"message" gorm:"not null"`
	Type    string `json:"type"`
	IsRead  bool   `json:"is_read" gorm:"default:false"`
}
