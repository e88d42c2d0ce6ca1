package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/greenloop/models"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	MarkRead(notificationID uint) error
	ListUnread(userID uint) ([]models.Notification, error)
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) Create(notification *models.Notification) error {
	if err := r.DB.Create(notification).Error; err != nil {
		return errors.Wrap(err, "could not create notification")
	}
	return nil
}

// MarkRead is idempotent: flipping an already-read notification is a
// no-op, not an error.
func (r *notificationRepo) MarkRead(notificationID uint) error {
	err := r.DB.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("is_read", true).Error
	if err != nil {
		return errors.Wrap(err, "could not mark notification read")
	}
	return nil
}

func (r *notificationRepo) ListUnread(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list notifications")
	}
	return notifications, nil
}
