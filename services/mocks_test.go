package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
	"github.com/techagentng/greenloop/services/verifier"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mirror the conditional-update
// semantics of the real repositories so the race-sensitive paths
// (claim, redemption guard, one-collection-per-report) behave the same
// way under test.

type mockTransactionRepo struct {
	mu           sync.Mutex
	transactions []models.Transaction
	failWith     error
}

func (m *mockTransactionRepo) Append(txn *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	txn.ID = uint(len(m.transactions) + 1)
	m.transactions = append(m.transactions, *txn)
	return nil
}

func (m *mockTransactionRepo) SumBalance(userID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	balance := 0
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		if t.Earns() {
			balance += t.Amount
		} else {
			balance -= t.Amount
		}
	}
	return balance, nil
}

func (m *mockTransactionRepo) ListRecent(userID uint, limit int) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Transaction
	for i := len(m.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.transactions[i].UserID == userID {
			out = append(out, m.transactions[i])
		}
	}
	return out, nil
}

type mockRewardRepo struct {
	mu          sync.Mutex
	rewards     map[uint]*models.Reward
	catalogue   map[uint]*models.Reward
	txns        *mockTransactionRepo
	createCalls int
}

func newMockRewardRepo(txns *mockTransactionRepo) *mockRewardRepo {
	return &mockRewardRepo{
		rewards:   make(map[uint]*models.Reward),
		catalogue: make(map[uint]*models.Reward),
		txns:      txns,
	}
}

func (m *mockRewardRepo) GetOrCreateReward(userID uint) (*models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reward, ok := m.rewards[userID]; ok {
		return reward, nil
	}
	m.createCalls++
	reward := &models.Reward{
		UserID:      userID,
		Points:      0,
		Level:       1,
		IsAvailable: true,
	}
	reward.ID = userID
	m.rewards[userID] = reward
	return reward, nil
}

func (m *mockRewardRepo) GetRewardByUserID(userID uint) (*models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reward, ok := m.rewards[userID]
	if !ok {
		return nil, nil
	}
	copied := *reward
	return &copied, nil
}

func (m *mockRewardRepo) AddPoints(userID uint, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reward, ok := m.rewards[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	reward.Points += delta
	return nil
}

func (m *mockRewardRepo) RedeemAll(userID uint) (int, error) {
	m.mu.Lock()
	reward, ok := m.rewards[userID]
	if !ok {
		m.mu.Unlock()
		return 0, gorm.ErrRecordNotFound
	}
	redeemed := reward.Points
	if redeemed <= 0 {
		m.mu.Unlock()
		return 0, apiError.ErrInsufficientPoints
	}
	reward.Points = 0
	m.mu.Unlock()
	err := m.txns.Append(&models.Transaction{
		UserID: userID, Type: models.TransactionRedeemed, Amount: redeemed,
		Description: "Redeemed all points",
	})
	return redeemed, err
}

func (m *mockRewardRepo) RedeemCost(userID uint, cost int, description string) error {
	m.mu.Lock()
	reward, ok := m.rewards[userID]
	if !ok || reward.Points < cost {
		m.mu.Unlock()
		return apiError.ErrInsufficientPoints
	}
	reward.Points -= cost
	m.mu.Unlock()
	return m.txns.Append(&models.Transaction{
		UserID: userID, Type: models.TransactionRedeemed, Amount: cost,
		Description: description,
	})
}

func (m *mockRewardRepo) SetPoints(userID uint, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reward, ok := m.rewards[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	reward.Points = points
	return nil
}

func (m *mockRewardRepo) GetRewardByID(rewardID uint) (*models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if reward, ok := m.catalogue[rewardID]; ok {
		copied := *reward
		return &copied, nil
	}
	return nil, apiError.ErrNotFound
}

func (m *mockRewardRepo) ListAvailableRewards() ([]models.Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reward
	for _, r := range m.catalogue {
		if r.IsAvailable {
			out = append(out, *r)
		}
	}
	return out, nil
}

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
	failWith      error
}

func (m *mockNotificationRepo) Create(notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	notification.ID = uint(len(m.notifications) + 1)
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *mockNotificationRepo) MarkRead(notificationID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.notifications {
		if m.notifications[i].ID == notificationID {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepo) ListUnread(userID uint) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

type mockReportRepo struct {
	mu        sync.Mutex
	reports   map[uuid.UUID]*models.Report
	collected map[uuid.UUID]*models.CollectedWaste
	txns      *mockTransactionRepo
	rewards   *mockRewardRepo
	notifs    *mockNotificationRepo
}

func newMockReportRepo(txns *mockTransactionRepo, rewards *mockRewardRepo, notifs *mockNotificationRepo) *mockReportRepo {
	return &mockReportRepo{
		reports:   make(map[uuid.UUID]*models.Report),
		collected: make(map[uuid.UUID]*models.CollectedWaste),
		txns:      txns,
		rewards:   rewards,
		notifs:    notifs,
	}
}

func (m *mockReportRepo) CreateWithAward(report *models.Report, points int) (*models.Report, error) {
	m.mu.Lock()
	stored := *report
	m.reports[report.ID] = &stored
	m.mu.Unlock()

	if err := m.txns.Append(&models.Transaction{
		UserID: report.UserID, Type: models.TransactionEarnedReport, Amount: points,
		Description: "Points earned for reporting waste",
	}); err != nil {
		return nil, err
	}
	if err := m.rewards.AddPoints(report.UserID, points); err != nil {
		return nil, err
	}
	if err := m.notifs.Create(&models.Notification{
		UserID: report.UserID, Type: models.NotificationTypeReward,
		Message: "You've earned points for reporting waste!",
	}); err != nil {
		return nil, err
	}
	return report, nil
}

func (m *mockReportRepo) GetReportByID(reportID uuid.UUID) (*models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[reportID]
	if !ok {
		return nil, apiError.ErrNotFound
	}
	copied := *report
	return &copied, nil
}

func (m *mockReportRepo) ListRecentReports(limit int) ([]models.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Report
	for _, r := range m.reports {
		if len(out) == limit {
			break
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockReportRepo) ListCollectionTasks(limit int) ([]models.Report, error) {
	return m.ListRecentReports(limit)
}

func (m *mockReportRepo) Claim(reportID uuid.UUID, collectorID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[reportID]
	if !ok {
		return apiError.ErrNotFound
	}
	if report.Status != models.ReportStatusPending {
		return apiError.ErrAlreadyClaimed
	}
	report.Status = models.ReportStatusInProgress
	cid := collectorID
	report.CollectorID = &cid
	return nil
}

func (m *mockReportRepo) CompleteVerification(reportID uuid.UUID, collectorID uint, points int) error {
	m.mu.Lock()
	report, ok := m.reports[reportID]
	if !ok || report.Status != models.ReportStatusInProgress ||
		report.CollectorID == nil || *report.CollectorID != collectorID {
		m.mu.Unlock()
		return apiError.ErrInvalidTransition
	}
	if _, exists := m.collected[reportID]; exists {
		m.mu.Unlock()
		return apiError.ErrInvalidTransition
	}
	report.Status = models.ReportStatusVerified
	m.collected[reportID] = &models.CollectedWaste{
		ReportID:    reportID,
		CollectorID: collectorID,
		Status:      models.ReportStatusVerified,
	}
	m.mu.Unlock()

	if err := m.txns.Append(&models.Transaction{
		UserID: collectorID, Type: models.TransactionEarnedCollect, Amount: points,
		Description: "Points earned for collecting waste",
	}); err != nil {
		return err
	}
	if err := m.rewards.AddPoints(collectorID, points); err != nil {
		return err
	}
	return m.notifs.Create(&models.Notification{
		UserID: collectorID, Type: models.NotificationTypeCollection,
		Message: "Verification successful!",
	})
}

func (m *mockReportRepo) GetCollectedWasteByReportID(reportID uuid.UUID) (*models.CollectedWaste, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	collected, ok := m.collected[reportID]
	if !ok {
		return nil, apiError.ErrNotFound
	}
	copied := *collected
	return &copied, nil
}

// stubVerifier returns canned answers, or blocks until the context
// expires when wait is set.
type stubVerifier struct {
	analysis     *verifier.WasteAnalysis
	verification *verifier.WasteVerification
	err          error
	wait         bool
}

func (s *stubVerifier) Analyze(ctx context.Context, imageURL string) (*verifier.WasteAnalysis, error) {
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.analysis, s.err
}

func (s *stubVerifier) Verify(ctx context.Context, imageURL string, expected verifier.Expected) (*verifier.WasteVerification, error) {
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.verification, s.err
}
