package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/greenloop/errors"
	"github.com/techagentng/greenloop/server/response"
)

func (s *Server) handleGetUserBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"balance": s.RewardService.GetUserBalance(userID)}, nil)
	}
}

func (s *Server) handleGetRewardTransactions() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		response.JSON(c, "", http.StatusOK, s.RewardService.GetRewardTransactions(userID, limit), nil)
	}
}

func (s *Server) handleGetAvailableRewards() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}
		response.JSON(c, "", http.StatusOK, s.RewardService.GetAvailableRewards(userID), nil)
	}
}

func (s *Server) handleRedeemReward() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.New("userID not found in context", http.StatusInternalServerError))
			return
		}

		rewardID, err := strconv.ParseUint(c.Param("rewardID"), 10, 32)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ValidationError("invalid reward id"))
			return
		}

		reward, err := s.RewardService.RedeemReward(userID, uint(rewardID))
		if err != nil {
			response.JSON(c, "", errs.StatusFor(err), nil, err)
			return
		}
		response.JSON(c, "Reward redeemed successfully", http.StatusOK, reward, nil)
	}
}
