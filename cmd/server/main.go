package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/GabeHenrique/ong-connect-api/internal/app"
	"github.com/GabeHenrique/ong-connect-api/internal/config"
	"github.com/GabeHenrique/ong-connect-api/internal/database"
	"github.com/GabeHenrique/ong-connect-api/internal/logger"
	"github.com/GabeHenrique/ong-connect-api/internal/mail"
	"github.com/GabeHenrique/ong-connect-api/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog := logger.New(cfg.Env)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, appLog)
	if err != nil {
		fatal(appLog, "failed to connect to database", err)
	}

	// Run migrations
	if err := database.MigrateDatabase(db, appLog); err != nil {
		fatal(appLog, "failed to run migrations", err)
	}

	store, err := storage.NewS3Storage(storage.Config{
		Region:     cfg.AWSRegion,
		AccessKey:  cfg.AWSAccessKeyID,
		SecretKey:  cfg.AWSSecretAccessKey,
		Bucket:     cfg.AWSBucketName,
		Endpoint:   cfg.AWSEndpoint,
		PublicRead: cfg.AWSPublicRead,
	})
	if err != nil {
		fatal(appLog, "failed to create storage client", err)
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer, err = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			fatal(appLog, "failed to create mailer", err)
		}
	} else {
		appLog.Warn("SMTP_HOST is not set, password reset emails will only be logged")
		mailer = mail.NewLogMailer(appLog)
	}

	sessionStore, err := app.NewSessionStore(cfg)
	if err != nil {
		fatal(appLog, "failed to create session store", err)
	}

	application, err := app.New(app.Dependencies{
		Config:   cfg,
		Log:      appLog,
		DB:       db,
		Storage:  store,
		Mailer:   mailer,
		Sessions: sessionStore,
	})
	if err != nil {
		fatal(appLog, "failed to initialize application", err)
	}

	// Start server
	appLog.Info("server starting", "port", cfg.Port)
	if err := application.Router().Run(":" + cfg.Port); err != nil {
		fatal(appLog, "failed to start server", err)
	}
}

func fatal(appLog *slog.Logger, msg string, err error) {
	logger.WithError(appLog, err).Error(msg)
	os.Exit(1)
}
