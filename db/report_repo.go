package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	apiError "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/models"
	"gorm.io/gorm"
)

type ReportRepository interface {
	CreateWithAward(report *models.Report, points int) (*models.Report, error)
	GetReportByID(reportID uuid.UUID) (*models.Report, error)
	ListRecentReports(limit int) ([]models.Report, error)
	ListCollectionTasks(limit int) ([]models.Report, error)
	Claim(reportID uuid.UUID, collectorID uint) error
	CompleteVerification(reportID uuid.UUID, collectorID uint, points int) error
	GetCollectedWasteByReportID(reportID uuid.UUID) (*models.CollectedWaste, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

// CreateWithAward inserts the report and, in the same database
// transaction, appends the reporter's fixed bonus to the ledger, bumps
// the cached reward total, and queues the notification. A failure
// partway rolls everything back so the ledger and report can't diverge.
func (r *reportRepo) CreateWithAward(report *models.Report, points int) (*models.Report, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return errors.Wrap(err, "could not create report")
		}
		if err := tx.Create(&models.Transaction{
			UserID:      report.UserID,
			Type:        models.TransactionEarnedReport,
			Amount:      points,
			Description: "Points earned for reporting waste",
		}).Error; err != nil {
			return errors.Wrap(err, "could not append report transaction")
		}
		if err := tx.Model(&models.Reward{}).
			Where("user_id = ?", report.UserID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return errors.Wrap(err, "could not update reward points")
		}
		return tx.Create(&models.Notification{
			UserID:  report.UserID,
			Message: fmt.Sprintf("You've earned %d points for reporting waste!", points),
			Type:    models.NotificationTypeReward,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepo) GetReportByID(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := r.DB.Where("id = ?", reportID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, errors.Wrap(err, "could not fetch report")
	}
	return &report, nil
}

func (r *reportRepo) ListRecentReports(limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list reports")
	}
	return reports, nil
}

func (r *reportRepo) ListCollectionTasks(limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list collection tasks")
	}
	return reports, nil
}

// Claim is the pending -> in_progress transition. The status check
// lives in the WHERE clause so two collectors racing for the same
// report resolve at the database: exactly one UPDATE matches.
func (r *reportRepo) Claim(reportID uuid.UUID, collectorID uint) error {
	result := r.DB.Model(&models.Report{}).
		Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
		Updates(map[string]interface{}{
			"status":       models.ReportStatusInProgress,
			"collector_id": collectorID,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not claim report")
	}
	if result.RowsAffected == 0 {
		var report models.Report
		if err := r.DB.Where("id = ?", reportID).First(&report).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apiError.ErrNotFound
			}
			return errors.Wrap(err, "could not fetch report")
		}
		return apiError.ErrAlreadyClaimed
	}
	return nil
}

// CompleteVerification is the in_progress -> verified transition. One
// database transaction covers the status flip, the CollectedWaste row,
// the collector's ledger entry, the reward-cache increment, and the
// notification. The unique index on collected_wastes.report_id makes a
// retried award idempotent: the second attempt fails the insert and the
// whole transaction rolls back.
func (r *reportRepo) CompleteVerification(reportID uuid.UUID, collectorID uint, points int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ? AND collector_id = ?",
				reportID, models.ReportStatusInProgress, collectorID).
			Update("status", models.ReportStatusVerified)
		if result.Error != nil {
			return errors.Wrap(result.Error, "could not update report status")
		}
		if result.RowsAffected == 0 {
			return apiError.ErrInvalidTransition
		}
		if err := tx.Create(&models.CollectedWaste{
			ReportID:       reportID,
			CollectorID:    collectorID,
			CollectionDate: time.Now(),
			Status:         models.ReportStatusVerified,
		}).Error; err != nil {
			return errors.Wrap(err, "could not create collected waste record")
		}
		if err := tx.Create(&models.Transaction{
			UserID:      collectorID,
			Type:        models.TransactionEarnedCollect,
			Amount:      points,
			Description: "Points earned for collecting waste",
		}).Error; err != nil {
			return errors.Wrap(err, "could not append collection transaction")
		}
		if err := tx.Model(&models.Reward{}).
			Where("user_id = ?", collectorID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return errors.Wrap(err, "could not update reward points")
		}
		return tx.Create(&models.Notification{
			UserID:  collectorID,
			Message: fmt.Sprintf("Verification successful! You earned %d points!", points),
			Type:    models.NotificationTypeCollection,
		}).Error
	})
}

func (r *reportRepo) GetCollectedWasteByReportID(reportID uuid.UUID) (*models.CollectedWaste, error) {
	var collected models.CollectedWaste
	err := r.DB.Where("report_id = ?", reportID).First(&collected).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, errors.Wrap(err, "could not fetch collected waste")
	}
	return &collected, nil
}
