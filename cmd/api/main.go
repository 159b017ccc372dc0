package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	cardgw "amerilend-backend/internal/adapter/gateway/card"
	chaingw "amerilend-backend/internal/adapter/gateway/chain"
	ratesgw "amerilend-backend/internal/adapter/gateway/rates"
	httpadp "amerilend-backend/internal/adapter/http"
	"amerilend-backend/internal/adapter/middleware"
	"amerilend-backend/internal/adapter/notifier"
	"amerilend-backend/internal/adapter/repository/mysql"
	"amerilend-backend/internal/config"
	"amerilend-backend/internal/infrastructure/cache"
	"amerilend-backend/internal/infrastructure/db"
	"amerilend-backend/internal/token"
	appuc "amerilend-backend/internal/usecase/application"
	"amerilend-backend/internal/usecase/settlement"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.ActionSecret == config.DefaultActionSecret {
		log.Println("WARNING: ADMIN_ACTION_SECRET not set, using built-in fallback; action links are forgeable")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	apps := mysql.NewApplicationRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	unit := mysql.NewGormUoW(gdb)

	tokens := token.NewService(cfg.ActionSecret, token.DefaultTTL)
	notify := notifier.NewLog(tokens, cfg.BaseURL)

	cards := cardgw.NewClient(cardgw.Config{
		APILoginID:     cfg.AuthorizeNetLoginID,
		TransactionKey: cfg.AuthorizeNetTransactionKey,
		Endpoint:       cfg.AuthorizeNetEndpoint,
	})
	chain := chaingw.NewClient(chaingw.Config{
		EthRPCURL: cfg.EthRPCURL,
		BtcAPIURL: cfg.BtcAPIURL,
	})
	rates := ratesgw.NewSource(rdb, nil)

	applicationUC := appuc.NewUsecase(unit, apps, notify, notify)
	settlementUC := settlement.NewUsecase(unit, payments, apps, cards, chain, rates, notify)

	h := httpadp.NewHandler()
	applicationH := httpadp.NewApplicationHandler(applicationUC)
	adminH := httpadp.NewAdminHandler(applicationUC)
	actionH := httpadp.NewAdminActionHandler(tokens, applicationUC, cfg.BaseURL+"/admin")
	paymentH := httpadp.NewPaymentHandler(settlementUC, rates)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	adminKey := middleware.AdminKeyMiddleware(cfg.AdminAPIKey)

	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/applications", applicationH.Submit, idemp)
	api.GET("/applications/:application_id", applicationH.Get)

	api.POST("/payments/intent", paymentH.CreateIntent, idemp)
	api.POST("/payments/:payment_id/verify-crypto", paymentH.VerifyCrypto, idemp)
	api.GET("/payments/:payment_id", paymentH.Status)
	api.GET("/payments/rates", paymentH.Rates)

	action := api.Group("/admin-action")
	action.GET("/approve/:token", actionH.Approve)
	action.GET("/reject/:token", actionH.RejectForm)
	action.POST("/reject/:token", actionH.Reject)

	admin := api.Group("/admin", adminKey)
	admin.POST("/applications/:application_id/approve", adminH.Approve)
	admin.POST("/applications/:application_id/reject", adminH.Reject)
	admin.POST("/applications/:application_id/review", adminH.Review)
	admin.POST("/applications/:application_id/disburse", adminH.Disburse)
	admin.POST("/payments/:payment_id/confirm", paymentH.Confirm)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
