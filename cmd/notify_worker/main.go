package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/mycookbook-api/config"
	"github.com/oksasatya/mycookbook-api/pkg/helpers"
	"github.com/oksasatya/mycookbook-api/pkg/mailer"
	mailtpl "github.com/oksasatya/mycookbook-api/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify-worker", cfg.Env, cfg.LogLevel)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; notify worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	dispatcher := &mailer.Dispatcher{
		Sender: mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase),
		Brand: mailtpl.Brand{
			CompanyName: cfg.CompanyName,
			AppName:     cfg.AppName,
			LogoURL:     cfg.LogoURL,
			SupportURL:  cfg.SupportURL,
			FrontendURL: cfg.FrontendURL,
		},
	}
	handle := func(ctx context.Context, body []byte) error {
		c, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return dispatcher.Handle(c, body)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	logger.WithField("queue", cfg.RabbitMQNotifyQueue).Info("notify worker listening")
	err = consumer.Run(ctx, handle, mailer.ErrPermanent, func(err error) {
		logger.WithError(err).WithField("dropped", errors.Is(err, mailer.ErrPermanent)).Warn("notification failed")
	})
	if err != nil {
		logger.WithError(err).Error("consumer stopped")
		return
	}
	logger.Info("shutting down...")
}
