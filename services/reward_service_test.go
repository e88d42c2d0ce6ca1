package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/greenloop/config"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
)

func newRewardServiceForTest() (RewardService, *mockTransactionRepo, *mockRewardRepo, *mockNotificationRepo) {
	txns := &mockTransactionRepo{}
	rewards := newMockRewardRepo(txns)
	notifs := &mockNotificationRepo{}
	svc := NewRewardService(rewards, txns, notifs, &config.Config{})
	return svc, txns, rewards, notifs
}

func TestAppendTransactionValidation(t *testing.T) {
	svc, txns, _, _ := newRewardServiceForTest()

	err := svc.AppendTransaction(1, models.TransactionEarnedReport, -5, "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiError.ErrValidation))

	err = svc.AppendTransaction(1, "earned_lottery", 5, "bad kind")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiError.ErrValidation))

	assert.Empty(t, txns.transactions, "invalid transactions must not be persisted")

	require.NoError(t, svc.AppendTransaction(1, models.TransactionEarnedReport, 10, "ok"))
	assert.Len(t, txns.transactions, 1)
}

func TestAppendTransactionWriteFailurePropagates(t *testing.T) {
	svc, txns, _, _ := newRewardServiceForTest()
	txns.failWith = fmt.Errorf("disk on fire")

	err := svc.AppendTransaction(1, models.TransactionEarnedCollect, 25, "collect")
	require.Error(t, err, "write failures must reach the caller")
}

func TestGetUserBalanceClampedAndOrderIndependent(t *testing.T) {
	svc, _, _, _ := newRewardServiceForTest()

	// Redemption recorded before the earn: the fold is commutative, so
	// insertion order must not change the result.
	require.NoError(t, svc.AppendTransaction(7, models.TransactionRedeemed, 30, "spend"))
	require.NoError(t, svc.AppendTransaction(7, models.TransactionEarnedReport, 10, "report"))
	require.NoError(t, svc.AppendTransaction(7, models.TransactionEarnedCollect, 50, "collect"))

	assert.Equal(t, 30, svc.GetUserBalance(7))
}

func TestGetUserBalanceNeverNegative(t *testing.T) {
	svc, _, _, _ := newRewardServiceForTest()

	require.NoError(t, svc.AppendTransaction(3, models.TransactionEarnedReport, 10, "report"))
	require.NoError(t, svc.AppendTransaction(3, models.TransactionRedeemed, 40, "overdraw in history"))

	assert.Equal(t, 0, svc.GetUserBalance(3))
}

func TestEarnThenRedeemSameAmountIsZero(t *testing.T) {
	svc, _, _, _ := newRewardServiceForTest()

	require.NoError(t, svc.AppendTransaction(2, models.TransactionEarnedReport, 42, "report"))
	require.NoError(t, svc.AppendTransaction(2, models.TransactionRedeemed, 42, "redeem"))

	assert.Equal(t, 0, svc.GetUserBalance(2))
}

func TestReadPathsDegradeOnStoreFailure(t *testing.T) {
	svc, txns, _, _ := newRewardServiceForTest()
	require.NoError(t, svc.AppendTransaction(1, models.TransactionEarnedReport, 10, "report"))

	txns.failWith = fmt.Errorf("connection reset")

	assert.Equal(t, 0, svc.GetUserBalance(1), "balance reads degrade to zero")
	assert.Empty(t, svc.GetRewardTransactions(1, 10), "transaction reads degrade to empty")
}

func TestGetRewardTransactionsDefaultLimitAndOrder(t *testing.T) {
	svc, _, _, _ := newRewardServiceForTest()

	for i := 0; i < 15; i++ {
		require.NoError(t, svc.AppendTransaction(1, models.TransactionEarnedReport, i+1, "entry"))
	}

	got := svc.GetRewardTransactions(1, 0)
	require.Len(t, got, 10, "default limit is 10")
	assert.Equal(t, 15, got[0].Amount, "most recent first")
}

func TestGetOrCreateRewardIsIdempotentUnderConcurrency(t *testing.T) {
	svc, _, rewards, _ := newRewardServiceForTest()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetOrCreateReward(99)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, rewards.createCalls, "exactly one reward record per user")

	reward, err := svc.GetOrCreateReward(99)
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Points)
	assert.Equal(t, 1, reward.Level)
	assert.True(t, reward.IsAvailable)
}

func TestRedeemRewardInsufficientPoints(t *testing.T) {
	svc, _, rewards, _ := newRewardServiceForTest()

	_, err := svc.GetOrCreateReward(5)
	require.NoError(t, err)
	require.NoError(t, rewards.AddPoints(5, 20))
	rewards.catalogue[3] = &models.Reward{Points: 100, IsAvailable: true, Name: "Tote Bag"}

	_, err = svc.RedeemReward(5, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apiError.ErrInsufficientPoints))

	reward, err := rewards.GetRewardByUserID(5)
	require.NoError(t, err)
	assert.Equal(t, 20, reward.Points, "failed redemption must leave the balance unchanged")
}

func TestRedeemRewardSpecificCost(t *testing.T) {
	svc, txns, rewards, notifs := newRewardServiceForTest()

	_, err := svc.GetOrCreateReward(5)
	require.NoError(t, err)
	require.NoError(t, rewards.AddPoints(5, 80))
	rewards.catalogue[3] = &models.Reward{Points: 50, IsAvailable: true, Name: "Tote Bag"}

	reward, err := svc.RedeemReward(5, 3)
	require.NoError(t, err)
	assert.Equal(t, 30, reward.Points)

	require.Len(t, txns.transactions, 1)
	assert.Equal(t, models.TransactionRedeemed, txns.transactions[0].Type)
	assert.Equal(t, 50, txns.transactions[0].Amount)

	require.Len(t, notifs.notifications, 1)
	assert.Equal(t, models.NotificationTypeRedemption, notifs.notifications[0].Type)
}

func TestRedeemRewardAllPoints(t *testing.T) {
	svc, txns, rewards, _ := newRewardServiceForTest()

	_, err := svc.GetOrCreateReward(6)
	require.NoError(t, err)
	require.NoError(t, rewards.AddPoints(6, 35))

	reward, err := svc.RedeemReward(6, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, reward.Points)

	require.Len(t, txns.transactions, 1)
	assert.Equal(t, 35, txns.transactions[0].Amount)
}

func TestReconcileRewardOverwritesDriftedCache(t *testing.T) {
	svc, _, rewards, _ := newRewardServiceForTest()

	require.NoError(t, svc.AppendTransaction(4, models.TransactionEarnedReport, 10, "report"))
	require.NoError(t, svc.AppendTransaction(4, models.TransactionEarnedCollect, 25, "collect"))

	_, err := svc.GetOrCreateReward(4)
	require.NoError(t, err)
	require.NoError(t, rewards.SetPoints(4, 999)) // simulated drift

	reward, err := svc.ReconcileReward(4)
	require.NoError(t, err)
	assert.Equal(t, 35, reward.Points, "the ledger wins on drift")
}

func TestGetAvailableRewardsIncludesOwnBalanceEntry(t *testing.T) {
	svc, _, rewards, _ := newRewardServiceForTest()

	require.NoError(t, svc.AppendTransaction(8, models.TransactionEarnedReport, 10, "report"))
	rewards.catalogue[2] = &models.Reward{Points: 50, IsAvailable: true, Name: "Tote Bag"}

	items := svc.GetAvailableRewards(8)
	require.NotEmpty(t, items)
	assert.Equal(t, uint(0), items[0].ID)
	assert.Equal(t, 10, items[0].Cost)
	assert.Len(t, items, 2)
}
