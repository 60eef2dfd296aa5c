package main

import (
	"company-data-manager/internal/config"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/infrastructure/events"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/jobs"
	"company-data-manager/internal/logger"
	"company-data-manager/internal/routes"
	"company-data-manager/internal/usecase/user"
	"company-data-manager/pkg/mqtt"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env, cfg.Log.File); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if cfg.Database.Driver == "postgres" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		logger.Fatal("Database configuration is missing. Please set DB_HOST and DB_NAME environment variables.")
	}
	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is missing. Please set JWT_SECRET environment variable.")
	}

	db, err := sqlstore.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	userService := user.NewService(sqlstore.NewUserRepository(db), sqlstore.NewRecordRepository(db), cfg)
	if _, err := userService.EnsureManager(ctx); err != nil {
		logger.Fatal("Failed to bootstrap manager account", zap.Error(err))
	}

	uploads, err := storage.NewFileStore(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}
	documents, err := storage.NewFileStore(cfg.Storage.DocumentDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		logger.Fatal("Failed to prepare document directory", zap.Error(err))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.MQTT.Enabled {
		client := mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            30,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
			PublishTimeout:       5 * time.Second,
		}, logger.Logger)
		if err := client.Connect(); err != nil {
			// Events are best effort.
			logger.Error("MQTT broker unavailable, shipment events will not be published", zap.Error(err))
		} else {
			defer client.Disconnect()
			publisher = events.NewMQTTPublisher(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS)
		}
	}

	scheduler := jobs.NewScheduler(jobs.NewMaintenance(
		db,
		cfg.Maintenance.Schedule,
		sqlstore.NewLeaveRepository(db),
		uploads,
		sqlstore.NewShipmentRepository(db),
		documents,
	))
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start background jobs", zap.Error(err))
	}

	router := routes.SetupRoutes(ctx, cfg, db, publisher, uploads, documents)

	host := cfg.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	addr := net.JoinHostPort(host, port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}
	scheduler.Stop(shutdownCtx)

	logger.Info("Server exited properly")
}
