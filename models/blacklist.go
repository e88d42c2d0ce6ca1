package models

// Blacklist holds access tokens invalidated by logout.
type Blacklist struct {
	Model
	Token string `json:"token" gorm:"index;not null"`
	Email string `json:"email"`
}
