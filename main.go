// File: mastera/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mastera/bot"
	"mastera/config"
	"mastera/cron"
	"mastera/database"
	complaintRepoPkg "mastera/database/repository/complaint"
	masterRepoPkg "mastera/database/repository/master"
	offerRepoPkg "mastera/database/repository/offer"
	orderRepoPkg "mastera/database/repository/order"
	requestRepoPkg "mastera/database/repository/request"
	reviewRepoPkg "mastera/database/repository/review"
	sequenceRepoPkg "mastera/database/repository/sequence"
	"mastera/handlers"
	"mastera/routes"
	"mastera/services/entitlement"
	"mastera/services/matching"
	"mastera/services/offer"
	"mastera/services/order"
	"mastera/services/ratelimit"
	"mastera/services/review"
	"mastera/services/stats"
	"mastera/services/sweep"
	"mastera/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// repositories.
	masterRepo := masterRepoPkg.NewMongoMasterRepo()
	requestRepo := requestRepoPkg.NewMongoRequestRepo()
	offerRepo := offerRepoPkg.NewMongoOfferRepo()
	orderRepo := orderRepoPkg.NewMongoOrderRepo()
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo()
	complaintRepo := complaintRepoPkg.NewMongoComplaintRepo()
	sequence := sequenceRepoPkg.NewMongoSequence()

	// services.
	limiter := ratelimit.NewKeyedLimiter()

	matchingService := &matching.DefaultMatchingService{
		MasterRepo: masterRepo,
	}

	offerService := &offer.DefaultOfferService{
		Requests: requestRepo,
		Masters:  masterRepo,
		Offers:   offerRepo,
		Orders:   orderRepo,
		Sequence: sequence,
		Matching: matchingService,
		Logger:   logger,
	}

	orderService := &order.DefaultOrderService{
		Requests: requestRepo,
		Masters:  masterRepo,
		Logger:   logger,
	}

	reviewService := &review.DefaultReviewService{
		Requests: requestRepo,
		Reviews:  reviewRepo,
		Masters:  masterRepo,
		Sequence: sequence,
		Logger:   logger,
	}

	entitlementService := &entitlement.DefaultEntitlementService{
		Masters: masterRepo,
		Logger:  logger,
	}

	statsService := &stats.DefaultStatsService{
		Requests: requestRepo,
		Masters:  masterRepo,
		Offers:   offerRepo,
		Reviews:  reviewRepo,
	}

	sessions := bot.NewSessionStore(utils.GetSessionClient(), config.AppConfig.FormSessionLifetime)
	tgBot, err := bot.New(bot.Deps{
		Masters:      masterRepo,
		Requests:     requestRepo,
		Reviews:      reviewRepo,
		Complaints:   complaintRepo,
		Sequence:     sequence,
		Offers:       offerService,
		Orders:       orderService,
		ReviewSvc:    reviewService,
		Entitlements: entitlementService,
		Stats:        statsService,
		Limiter:      limiter,
		Sessions:     sessions,
		Logger:       logger,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: failed to create telegram bot: %v", err)
	}

	// The bot renders every product notification, so the services deliver
	// through it.
	offerService.Notifier = tgBot
	offerService.Admin = tgBot
	orderService.Notifier = tgBot
	orderService.Admin = tgBot

	sweeper := &sweep.Sweeper{
		Requests:       requestRepo,
		Masters:        masterRepo,
		Orders:         orderService,
		Limiter:        limiter,
		Admin:          tgBot,
		Logger:         logger,
		ConfirmTimeout: config.AppConfig.ConfirmTimeout,
		DocRetention:   config.AppConfig.DocumentRetention,
		LimiterIdle:    config.AppConfig.LimiterIdleCutoff,
	}
	cron.InitSweepWorker(sweeper)

	go tgBot.Start()

	// Create the Gin router for the ops API.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		AdminHandler: handlers.NewAdminHandler(statsService, complaintRepo),
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetSessionClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: shutting down...")

	tgBot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: stopped gracefully")
}
