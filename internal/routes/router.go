package routes

import (
	"company-data-manager/internal/config"
	"company-data-manager/internal/delivery/http/handler"
	"company-data-manager/internal/infrastructure/database/sqlstore"
	"company-data-manager/internal/infrastructure/events"
	"company-data-manager/internal/infrastructure/storage"
	"company-data-manager/internal/logger"
	"company-data-manager/internal/middleware"
	"company-data-manager/internal/usecase/cargorequest"
	"company-data-manager/internal/usecase/leave"
	"company-data-manager/internal/usecase/message"
	"company-data-manager/internal/usecase/record"
	"company-data-manager/internal/usecase/shipment"
	"company-data-manager/internal/usecase/user"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires repositories, services and handlers into one engine.
// uploads holds leave attachments, documents holds shipment documents.
// Background work started here ends when ctx is done.
func SetupRoutes(ctx context.Context, cfg *config.Config, db *sqlstore.DB, publisher events.Publisher, uploads, documents *storage.FileStore) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.Storage.MaxUploadBytes))
	router.Use(middleware.RateLimitMiddleware(ctx, cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := sqlstore.NewUserRepository(db)
	recordRepository := sqlstore.NewRecordRepository(db)
	leaveRepository := sqlstore.NewLeaveRepository(db)
	shipmentRepository := sqlstore.NewShipmentRepository(db)
	cargoRequestRepository := sqlstore.NewCargoRequestRepository(db)
	messageRepository := sqlstore.NewMessageRepository(db)

	userHandler := handler.NewUserHandler(user.NewService(userRepository, recordRepository, cfg))
	recordHandler := handler.NewRecordHandler(record.NewService(recordRepository, cfg))
	leaveHandler := handler.NewLeaveHandler(leave.NewService(leaveRepository, uploads))
	shipmentHandler := handler.NewShipmentHandler(shipment.NewService(shipmentRepository, userRepository, publisher, documents))
	cargoRequestHandler := handler.NewCargoRequestHandler(cargorequest.NewService(cargoRequestRepository, shipmentRepository, cfg))
	messageHandler := handler.NewMessageHandler(message.NewService(messageRepository, userRepository, shipmentRepository))

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProfileRoutes(protected)
			leaveHandler.RegisterRoutes(protected)
			shipmentHandler.RegisterRoutes(protected)
			messageHandler.RegisterRoutes(protected)

			client := protected.Group("")
			client.Use(middleware.ClientOnly())
			{
				cargoRequestHandler.RegisterClientRoutes(client)
			}

			staff := protected.Group("")
			staff.Use(middleware.StaffOnly())
			{
				shipmentHandler.RegisterStaffRoutes(staff)
				cargoRequestHandler.RegisterStaffRoutes(staff)
			}

			manager := protected.Group("")
			manager.Use(middleware.ManagerOnly())
			{
				userHandler.RegisterManagerRoutes(manager)
				recordHandler.RegisterManagerRoutes(manager)
				leaveHandler.RegisterManagerRoutes(manager)
				shipmentHandler.RegisterManagerRoutes(manager)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
