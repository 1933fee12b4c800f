package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fastfood-vn/backend/internal/accounts"
	"github.com/fastfood-vn/backend/internal/config"
	"github.com/fastfood-vn/backend/internal/httpx"
	kafkax "github.com/fastfood-vn/backend/internal/kafka"
	"github.com/fastfood-vn/backend/internal/menus"
	"github.com/fastfood-vn/backend/internal/orders"
	"github.com/fastfood-vn/backend/internal/otp"
	"github.com/fastfood-vn/backend/internal/payments"
	"github.com/fastfood-vn/backend/internal/postgres"
	"github.com/fastfood-vn/backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		logrus.WithError(err).Fatal("migrate")
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logrus.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pubCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pubStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	pubClaimed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderClaimed, 1024)
	pubOTP := kafkax.NewProducer(cfg.KafkaBrokers, otp.TopicEmailRequested, 1024)
	producers := []*kafkax.Producer{pubCreated, pubStatus, pubClaimed, pubOTP}
	for _, p := range producers {
		p.Start(ctx)
	}

	orderSvc := &orders.Service{
		Store:      &orders.Repo{DB: db},
		PubCreated: pubCreated,
		PubStatus:  pubStatus,
		PubClaimed: pubClaimed,
		Name:       cfg.ServiceName,
	}
	otpSvc := &otp.Service{
		Store:    &otp.Repo{DB: db},
		Producer: pubOTP,
		Redis:    rdb,
		TTL:      cfg.OTPTTL,
		Throttle: cfg.OTPThrottle,
		Name:     cfg.ServiceName,
	}
	accountSvc := &accounts.Service{
		Users: &accounts.Repo{DB: db},
		OTP:   otpSvc,
	}
	paymentSvc := &payments.Service{
		Orders: orderSvc.Store,
		Gateway: &payments.Gateway{
			BaseURL: "https://payments.example",
			Secret:  os.Getenv("PAYMENT_SECRET"),
		},
		DB: db,
	}

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Svc: orderSvc, Redis: rdb}).Register(router)
	(&httpx.ShipperHandler{Svc: orderSvc}).Register(router)
	(&httpx.MerchantHandler{Menus: &menus.Repo{DB: db}, Orders: orderSvc}).Register(router)
	(&httpx.AccountsHandler{Svc: accountSvc, OTPDebug: cfg.OTPDebug}).Register(router)
	(&httpx.PaymentsHandler{Svc: paymentSvc}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	for _, p := range producers {
		p.Close()
	}
	cancel()
	for _, p := range producers {
		p.WaitClosed()
	}
}
