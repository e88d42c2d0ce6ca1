package db

import (
	"github.com/pkg/errors"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
	"gorm.io/gorm"
)

type RewardRepository interface {
	GetOrCreateReward(userID uint) (*models.Reward, error)
	GetRewardByUserID(userID uint) (*models.Reward, error)
	AddPoints(userID uint, delta int) error
	RedeemAll(userID uint) (int, error)
	RedeemCost(userID uint, cost int, description string) error
	SetPoints(userID uint, points int) error
	GetRewardByID(rewardID uint) (*models.Reward, error)
	ListAvailableRewards() ([]models.Reward, error)
}

type rewardRepo struct {
	DB *gorm.DB
}

func NewRewardRepo(db *GormDB) RewardRepository {
	return &rewardRepo{db.DB}
}

// GetOrCreateReward returns the user's reward record, creating the
// zero-point default on first need. The unique index on user_id is the
// real guard against concurrent creation; on a duplicate-key failure we
// re-read the row the other writer won with.
func (r *rewardRepo) GetOrCreateReward(userID uint) (*models.Reward, error) {
	var reward models.Reward
	err := r.DB.Where("user_id = ?", userID).First(&reward).Error
	if err == nil {
		return &reward, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "could not fetch reward")
	}

	reward = models.Reward{
		UserID:         userID,
		Points:         0,
		Level:          1,
		IsAvailable:    true,
		Name:           "Default Reward",
		CollectionInfo: "Points earned from reporting and collecting waste",
	}
	if err := r.DB.Create(&reward).Error; err != nil {
		var existing models.Reward
		if ferr := r.DB.Where("user_id = ?", userID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, errors.Wrap(err, "could not create reward")
	}
	return &reward, nil
}

func (r *rewardRepo) GetRewardByUserID(userID uint) (*models.Reward, error) {
	var reward models.Reward
	err := r.DB.Where("user_id = ?", userID).First(&reward).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "error fetching reward for user %d", userID)
	}
	return &reward, nil
}

// AddPoints adjusts the cached point total as an increment, never as a
// read-then-write, so concurrent earners cannot lose updates.
func (r *rewardRepo) AddPoints(userID uint, delta int) error {
	result := r.DB.Model(&models.Reward{}).
		Where("user_id = ?", userID).
		Update("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not update reward points")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RedeemAll zeroes the record and appends the matching redemption
// transaction in one database transaction. Returns the number of points
// redeemed.
func (r *rewardRepo) RedeemAll(userID uint) (int, error) {
	var redeemed int
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var reward models.Reward
		if err := tx.Where("user_id = ?", userID).First(&reward).Error; err != nil {
			return err
		}
		redeemed = reward.Points
		if redeemed <= 0 {
			return apiError.ErrInsufficientPoints
		}
		result := tx.Model(&models.Reward{}).
			Where("user_id = ? AND points = ?", userID, redeemed).
			Update("points", 0)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost a race with a concurrent adjustment; caller retries.
			return apiError.ErrInsufficientPoints
		}
		return appendRedemption(tx, userID, redeemed, "Redeemed all points")
	})
	if err != nil {
		return 0, err
	}
	return redeemed, nil
}

// RedeemCost subtracts a specific reward's cost, guarded by an atomic
// conditional decrement: the WHERE clause re-checks the balance so two
// concurrent redemptions cannot overdraw.
func (r *rewardRepo) RedeemCost(userID uint, cost int, description string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Reward{}).
			Where("user_id = ? AND points >= ?", userID, cost).
			Update("points", gorm.Expr("points - ?", cost))
		if result.Error != nil {
			return errors.Wrap(result.Error, "could not redeem reward")
		}
		if result.RowsAffected == 0 {
			return apiError.ErrInsufficientPoints
		}
		return appendRedemption(tx, userID, cost, description)
	})
}

// appendRedemption is the single transaction-creation path shared by
// full and per-reward redemption.
func appendRedemption(tx *gorm.DB, userID uint, amount int, description string) error {
	return tx.Create(&models.Transaction{
		UserID:      userID,
		Type:        models.TransactionRedeemed,
		Amount:      amount,
		Description: description,
	}).Error
}

// SetPoints overwrites the cached total. Only the ledger reconciliation
// path uses it.
func (r *rewardRepo) SetPoints(userID uint, points int) error {
	return r.DB.Model(&models.Reward{}).
		Where("user_id = ?", userID).
		Update("points", points).Error
}

func (r *rewardRepo) GetRewardByID(rewardID uint) (*models.Reward, error) {
	var reward models.Reward
	if err := r.DB.First(&reward, rewardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, errors.Wrap(err, "could not fetch reward")
	}
	return &reward, nil
}

func (r *rewardRepo) ListAvailableRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	err := r.DB.Where("is_available = ?", true).Find(&rewards).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list rewards")
	}
	return rewards, nil
}
