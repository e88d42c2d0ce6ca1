package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/greenloop/models"
	"gorm.io/gorm"
)

// TransactionRepository is the append-only point ledger. There is
// deliberately no update or delete method: transactions are immutable
// facts and the balance is an aggregation over them.
type TransactionRepository interface {
	Append(txn *models.Transaction) error
	SumBalance(userID uint) (int, error)
	ListRecent(userID uint, limit int) ([]models.Transaction, error)
}

type transactionRepo struct {
	DB *gorm.DB
}

func NewTransactionRepo(db *GormDB) TransactionRepository {
	return &transactionRepo{db.DB}
}

func (r *transactionRepo) Append(txn *models.Transaction) error {
	if err := r.DB.Create(txn).Error; err != nil {
		return errors.Wrap(err, "could not append transaction")
	}
	return nil
}

// SumBalance folds the user's ledger in the database: earned kinds add,
// redeemed subtracts. The result may be negative here; the service layer
// clamps it at zero.
func (r *transactionRepo) SumBalance(userID uint) (int, error) {
	var balance int
	err := r.DB.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(CASE WHEN type LIKE 'earned%' THEN amount ELSE -amount END), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, errors.Wrap(err, "could not sum transactions")
	}
	return balance, nil
}

func (r *transactionRepo) ListRecent(userID uint, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list transactions")
	}
	return transactions, nil
}
