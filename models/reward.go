package models

// Reward is the per-user cached point summary. The transaction ledger is
// authoritative; Points here is a derived value kept in sync by
// incremental updates and reconciled from the ledger when drift is
// detected.
type Reward struct {
	Model
	UserID         uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Points         int    `json:"points" gorm:"default:0"`
	Level          int    `json:"level" gorm:"default:1"`
	IsAvailable    bool   `json:"is_available" gorm:"default:true"`
	Name           string `json:"name"`
	CollectionInfo string `json:"collection_info"`
}

// RewardItem is a redeemable catalogue entry as presented to the user.
// ID 0 is reserved for "redeem all points".
type RewardItem struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Cost           int    `json:"cost"`
	Description    string `json:"description"`
	CollectionInfo string `json:"collection_info"`
}
