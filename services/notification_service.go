package services

import (
	log "github.com/sirupsen/logrus"
	"github.com/techagentng/greenloop/config"
	"github.com/techagentng/greenloop/db"
	"github.com/techagentng/greenloop/models"
)

// NotificationService is the mailbox of user-facing events. Delivery is
// pull-based: clients poll ListUnread on a timer; PollInterval tells
// them how often.
type NotificationService interface {
	Emit(userID uint, message string, notificationType string) error
	MarkRead(notificationID uint) error
	ListUnread(userID uint) []models.Notification
	PollInterval() string
}

type notificationService struct {
	Config           *config.Config
	notificationRepo db.NotificationRepository
}

func NewNotificationService(notificationRepo db.NotificationRepository, conf *config.Config) NotificationService {
	return &notificationService{
		Config:           conf,
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) Emit(userID uint, message string, notificationType string) error {
	return s.notificationRepo.Create(&models.Notification{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
	})
}

func (s *notificationService) MarkRead(notificationID uint) error {
	return s.notificationRepo.MarkRead(notificationID)
}

// ListUnread degrades to the empty slice on store failure; a polling
// client treats "no notifications" as a valid answer.
func (s *notificationService) ListUnread(userID uint) []models.Notification {
	notifications, err := s.notificationRepo.ListUnread(userID)
	if err != nil {
		log.Errorf("error listing unread notifications for user %d: %v", userID, err)
		return []models.Notification{}
	}
	return notifications
}

func (s *notificationService) PollInterval() string {
	return s.Config.NotificationPollInterval.String()
}
