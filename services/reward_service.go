package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/techagentng/greenloop/config"
	"github.com/techagentng/greenloop/db"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
)

const defaultTransactionLimit = 10

// RewardService owns the point ledger and the cached per-user reward
// record. The ledger is the source of truth; the reward record is a
// derived cache reconciled from it on demand.
type RewardService interface {
	AppendTransaction(userID uint, kind string, amount int, description string) error
	GetUserBalance(userID uint) int
	GetRewardTransactions(userID uint, limit int) []models.Transaction
	GetOrCreateReward(userID uint) (*models.Reward, error)
	GetAvailableRewards(userID uint) []models.RewardItem
	RedeemReward(userID uint, rewardID uint) (*models.Reward, error)
	ReconcileReward(userID uint) (*models.Reward, error)
}

type rewardService struct {
	Config           *config.Config
	rewardRepo       db.RewardRepository
	transactionRepo  db.TransactionRepository
	notificationRepo db.NotificationRepository
}

func NewRewardService(rewardRepo db.RewardRepository, transactionRepo db.TransactionRepository, notificationRepo db.NotificationRepository, conf *config.Config) RewardService {
	return &rewardService{
		Config:           conf,
		rewardRepo:       rewardRepo,
		transactionRepo:  transactionRepo,
		notificationRepo: notificationRepo,
	}
}

// AppendTransaction validates and records one immutable ledger entry.
// Write failures propagate: silently losing a reward write is not an
// acceptable degraded state.
func (s *rewardService) AppendTransaction(userID uint, kind string, amount int, description string) error {
	if amount < 0 {
		return fmt.Errorf("%w: amount must be non-negative, got %d", apiError.ErrValidation, amount)
	}
	if !models.ValidTransactionType(kind) {
		return fmt.Errorf("%w: unrecognized transaction type %q", apiError.ErrValidation, kind)
	}
	return s.transactionRepo.Append(&models.Transaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount,
		Description: description,
	})
}

// GetUserBalance folds the user's ledger and clamps the result at zero.
// Clamping is a defensive guard against bookkeeping errors, not an
// expected case. Store failures degrade to zero and are logged.
func (s *rewardService) GetUserBalance(userID uint) int {
	balance, err := s.transactionRepo.SumBalance(userID)
	if err != nil {
		log.Errorf("error computing balance for user %d: %v", userID, err)
		return 0
	}
	if balance < 0 {
		return 0
	}
	return balance
}

// GetRewardTransactions lists the most recent ledger entries, newest
// first. Store failures degrade to the empty slice.
func (s *rewardService) GetRewardTransactions(userID uint, limit int) []models.Transaction {
	if limit <= 0 {
		limit = defaultTransactionLimit
	}
	transactions, err := s.transactionRepo.ListRecent(userID, limit)
	if err != nil {
		log.Errorf("error fetching transactions for user %d: %v", userID, err)
		return []models.Transaction{}
	}
	return transactions
}

func (s *rewardService) GetOrCreateReward(userID uint) (*models.Reward, error) {
	return s.rewardRepo.GetOrCreateReward(userID)
}

// GetAvailableRewards returns the redeemable catalogue with the user's
// own balance prepended as entry 0 ("redeem all points").
func (s *rewardService) GetAvailableRewards(userID uint) []models.RewardItem {
	items := []models.RewardItem{
		{
			ID:             0,
			Name:           "Your Points",
			Cost:           s.GetUserBalance(userID),
			Description:    "Redeem your earned points",
			CollectionInfo: "Points earned from reporting and collecting waste",
		},
	}

	rewards, err := s.rewardRepo.ListAvailableRewards()
	if err != nil {
		log.Errorf("error listing available rewards: %v", err)
		return items
	}
	for _, r := range rewards {
		items = append(items, models.RewardItem{
			ID:             r.ID,
			Name:           r.Name,
			Cost:           r.Points,
			Description:    fmt.Sprintf("Level %d reward", r.Level),
			CollectionInfo: r.CollectionInfo,
		})
	}
	return items
}

// RedeemReward spends points. Reward ID 0 redeems the user's full
// balance; any other ID redeems a catalogue entry at its cost. Both
// paths share one redemption-transaction helper in the repository.
func (s *rewardService) RedeemReward(userID uint, rewardID uint) (*models.Reward, error) {
	if _, err := s.rewardRepo.GetOrCreateReward(userID); err != nil {
		return nil, err
	}

	var redeemed int
	var description string
	if rewardID == 0 {
		points, err := s.rewardRepo.RedeemAll(userID)
		if err != nil {
			return nil, err
		}
		redeemed = points
		description = fmt.Sprintf("Redeemed all points: %d", points)
	} else {
		target, err := s.rewardRepo.GetRewardByID(rewardID)
		if err != nil {
			return nil, err
		}
		if !target.IsAvailable {
			return nil, fmt.Errorf("%w: reward %d is not available", apiError.ErrValidation, rewardID)
		}
		if err := s.rewardRepo.RedeemCost(userID, target.Points, fmt.Sprintf("Redeemed: %s", target.Name)); err != nil {
			return nil, err
		}
		redeemed = target.Points
		description = fmt.Sprintf("Redeemed: %s", target.Name)
	}

	if err := s.notificationRepo.Create(&models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("You redeemed %d points! %s", redeemed, description),
		Type:    models.NotificationTypeRedemption,
	}); err != nil {
		log.Errorf("error creating redemption notification for user %d: %v", userID, err)
	}

	return s.rewardRepo.GetRewardByUserID(userID)
}

// ReconcileReward recomputes the cached point total from the ledger and
// overwrites it when the two have drifted. The ledger always wins.
func (s *rewardService) ReconcileReward(userID uint) (*models.Reward, error) {
	reward, err := s.rewardRepo.GetOrCreateReward(userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.transactionRepo.SumBalance(userID)
	if err != nil {
		return nil, err
	}
	if balance < 0 {
		balance = 0
	}

	if reward.Points != balance {
		log.Warnf("reward cache drift for user %d: cached=%d ledger=%d", userID, reward.Points, balance)
		if err := s.rewardRepo.SetPoints(userID, balance); err != nil {
			return nil, err
		}
		reward.Points = balance
	}
	return reward, nil
}
