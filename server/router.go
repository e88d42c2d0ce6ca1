package server

import (
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(ginlogger.SetLogger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	loginLimiter := rateLimiter(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", loginLimiter, s.handleSignup())
	apirouter.POST("/auth/login", loginLimiter, s.handleLogin())
	apirouter.GET("/google/login", s.HandleGoogleLogin())
	apirouter.GET("/auth/google/callback", s.HandleGoogleCallback())
	apirouter.POST("/password/forgot", loginLimiter, s.HandleForgotPassword())
	apirouter.POST("/password/reset/:token", s.ResetPassword())
	apirouter.GET("/reports/recent", s.handleGetRecentReports())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())

	authorized.POST("/user/report", s.handleCreateReport())
	authorized.POST("/user/report/analyze", s.handleAnalyzeWaste())
	authorized.GET("/user/report/tasks", s.handleGetCollectionTasks())
	authorized.PUT("/user/report/:reportID/claim", s.handleClaimReport())
	authorized.POST("/user/report/:reportID/verify", s.handleSubmitVerification())

	authorized.GET("/user/rewards", s.handleGetAvailableRewards())
	authorized.GET("/user/rewards/balance", s.handleGetUserBalance())
	authorized.GET("/user/rewards/transactions", s.handleGetRewardTransactions())
	authorized.POST("/user/rewards/redeem/:rewardID", s.handleRedeemReward())

	authorized.GET("/user/notifications/unread", s.handleGetUnreadNotifications())
	authorized.PUT("/user/notifications/:notificationID/read", s.handleMarkNotificationRead())
}
