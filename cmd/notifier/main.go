package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fastfood-vn/backend/internal/config"
	kafkax "github.com/fastfood-vn/backend/internal/kafka"
	"github.com/fastfood-vn/backend/internal/notifier"
	"github.com/fastfood-vn/backend/internal/otp"
	"github.com/fastfood-vn/backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:  rdb,
		Mailer: notifier.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom),
		Name:   cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "otp-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, otp.TopicEmailRequested, workers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		logrus.WithFields(logrus.Fields{
			"group":   group,
			"topic":   otp.TopicEmailRequested,
			"workers": workers,
		}).Info("notifier consumer started")
		if err := cons.Start(ctx, svc.HandleEmailRequested); err != nil {
			logrus.WithError(err).Error("consumer exit")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("shutting down notifier...")
	cancel()
	<-done
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
