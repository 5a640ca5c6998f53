// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/config"
	"barberlink_backend/internal/firebase"
	"barberlink_backend/internal/jobs"
	"barberlink_backend/internal/middleware"
	"barberlink_backend/internal/profile"
	"barberlink_backend/internal/session"
	"barberlink_backend/internal/shop"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Handlers
	profileHandler *profile.Handler
	shopHandler    *shop.Handler

	// Session core
	reconciler *session.Reconciler

	// Jobs
	verificationSweepJob *jobs.VerificationSweepJob

	// Middleware instances
	authMW       gin.HandlerFunc
	barberRoleMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	profileHandler *profile.Handler,
	shopHandler *shop.Handler,
	reconciler *session.Reconciler,
	verificationSweepJob *jobs.VerificationSweepJob,
	firebaseService *firebase.Service,
	profileRepo profile.Repository,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(firebaseService, profileRepo, logger.Named("AuthMiddleware"))
	barberRoleMW := middleware.RoleAuthMiddleware(common.RoleBarber, common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "UP", "message": "BarberLink API is healthy!"}
		if reconciler != nil {
			diag := reconciler.Diagnostics()
			if diag.ProfileSyncDegraded {
				body["profile_sync"] = "degraded"
			}
		}
		c.JSON(http.StatusOK, body)
	})

	v1 := router.Group("/api/v1")

	profileHandler.RegisterRoutes(v1)
	shopHandler.RegisterRoutes(v1, authMW, barberRoleMW)

	// Server-side sign-out support: revokes the caller's refresh tokens so
	// every device is forced back through sign-in.
	authGroup := v1.Group("/auth", authMW)
	authGroup.POST("/revoke", func(c *gin.Context) {
		uid := middleware.GetSubjectIDFromContext(c)
		if uid == "" {
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("No authenticated subject."))
			return
		}
		if err := firebaseService.RevokeRefreshTokens(c.Request.Context(), uid); err != nil {
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Failed to revoke refresh tokens."))
			return
		}
		common.RespondOK(c, "Refresh tokens revoked.", nil)
	})

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:           httpServer,
		router:               router,
		cfg:                  cfg,
		logger:               logger,
		profileHandler:       profileHandler,
		shopHandler:          shopHandler,
		reconciler:           reconciler,
		verificationSweepJob: verificationSweepJob,
		authMW:               authMW,
		barberRoleMW:         barberRoleMW,
	}, nil
}

func (s *Server) Start() error {
	if s.reconciler != nil {
		s.reconciler.Start()
	}

	if s.verificationSweepJob != nil {
		err := s.verificationSweepJob.SetupAndStart()
		if err != nil {
			s.logger.Error("Failed to setup and start verification sweep job", zap.Error(err))
		}
	} else {
		s.logger.Info("Verification sweep job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.verificationSweepJob != nil {
		s.verificationSweepJob.Stop()
	}
	if s.reconciler != nil {
		s.reconciler.Close()
	}
	return s.httpServer.Shutdown(ctx)
}
