package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/server/response"
)

func (s *Server) handleGetUnreadNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{
			"notifications": s.NotificationService.ListUnread(userID),
			"poll_interval": s.NotificationService.PollInterval(),
		}, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		notificationID, err := strconv.ParseUint(c.Param("notificationID"), 10, 32)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid notification id"))
			return
		}

		if err := s.NotificationService.MarkRead(uint(notificationID)); err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}
		response.JSON(c, "Notification marked as read", http.StatusOK, nil, nil)
	}
}
