package models

// Transaction kinds. Amounts are always stored positive; the sign of a
// transaction is implied by its type.
const (
	TransactionEarnedReport  = "earned_report"
	TransactionEarnedCollect = "earned_collect"
	TransactionRedeemed      = "redeemed"
)

// Transaction is one immutable entry in a user's point ledger. The
// repository layer exposes no update or delete path for it.
type Transaction struct {
	Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Type        string `json:"type" gorm:"not null"`
	Amount      int    `json:"amount" gorm:"not null"`
	Description string `json:"description"`
}

// ValidTransactionType reports whether t is one of the enumerated kinds.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionEarnedReport, TransactionEarnedCollect, TransactionRedeemed:
		return true
	}
	return false
}

// Earns reports whether the transaction adds to the balance.
func (t *Transaction) Earns() bool {
	return t.Type == TransactionEarnedReport || t.Type == TransactionEarnedCollect
}
