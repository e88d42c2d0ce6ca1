package main

import (
	"context"
	"log"

	"github.com/techagentng/greenloop/config"
	"github.com/techagentng/greenloop/db"
	"github.com/techagentng/greenloop/logger"
	"github.com/techagentng/greenloop/mailingservices"
	"github.com/techagentng/greenloop/server"
	"github.com/techagentng/greenloop/services"
	"github.com/techagentng/greenloop/services/verifier"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.Setup(conf.Debug)

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init(conf)

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	rewardRepo := db.NewRewardRepo(gormDB)
	transactionRepo := db.NewTransactionRepo(gormDB)
	notificationRepo := db.NewNotificationRepo(gormDB)

	geminiVerifier, err := verifier.NewGeminiVerifier(context.Background(), conf.GeminiApiKey, conf.GeminiModel)
	if err != nil {
		log.Fatalf("error creating verifier: %v", err)
	}
	defer geminiVerifier.Close()

	mediaService, err := services.NewMediaService(conf)
	if err != nil {
		log.Fatalf("error creating media service: %v", err)
	}

	authService := services.NewAuthService(authRepo, mailgunClient, conf)
	reportService := services.NewReportService(reportRepo, rewardRepo, geminiVerifier, conf)
	rewardService := services.NewRewardService(rewardRepo, transactionRepo, notificationRepo, conf)
	notificationService := services.NewNotificationService(notificationRepo, conf)

	s := &server.Server{
		Config:              conf,
		Mail:                mailgunClient,
		AuthRepository:      authRepo,
		AuthService:         authService,
		ReportService:       reportService,
		RewardService:       rewardService,
		NotificationService: notificationService,
		MediaService:        mediaService,
		DB:                  *gormDB,
	}

	s.Start()
}
