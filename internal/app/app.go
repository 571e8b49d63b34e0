package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GabeHenrique/ong-connect-api/internal/auth"
	"github.com/GabeHenrique/ong-connect-api/internal/config"
	"github.com/GabeHenrique/ong-connect-api/internal/constants"
	"github.com/GabeHenrique/ong-connect-api/internal/handlers"
	"github.com/GabeHenrique/ong-connect-api/internal/mail"
	"github.com/GabeHenrique/ong-connect-api/internal/middleware"
	"github.com/GabeHenrique/ong-connect-api/internal/repository"
	"github.com/GabeHenrique/ong-connect-api/internal/services"
	"github.com/GabeHenrique/ong-connect-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators the application is built on.
type Dependencies struct {
	Config   *config.Config
	Log      *slog.Logger
	DB       *gorm.DB
	Storage  storage.Storage
	Mailer   mail.Mailer
	Sessions sessions.Store
}

// App is the application context. Everything a request handler needs is
// reachable from here; nothing is read from package globals.
type App struct {
	Config *config.Config
	Log    *slog.Logger
	DB     *gorm.DB
	Tokens *auth.TokenManager

	AuthService       *services.AuthService
	EventService      *services.EventService
	EnrollmentService *services.EnrollmentService

	sessions sessions.Store
}

// New wires repositories and services on top of deps.
func New(deps Dependencies) (*App, error) {
	cfg := deps.Config

	tokens, err := auth.NewTokenManager(
		cfg.JWTSecret,
		cfg.JWTResetSecret,
		time.Duration(cfg.JWTTTLHours)*time.Hour,
		time.Duration(cfg.ResetTokenTTLMinutes)*time.Minute,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	userRepo := repository.NewUserRepository(deps.DB)
	eventRepo := repository.NewEventRepository(deps.DB)
	enrollmentRepo := repository.NewEnrollmentRepository(deps.DB)

	return &App{
		Config:            cfg,
		Log:               deps.Log,
		DB:                deps.DB,
		Tokens:            tokens,
		AuthService:       services.NewAuthService(userRepo, tokens, deps.Mailer, cfg.FrontendURL, deps.Log),
		EventService:      services.NewEventService(eventRepo, userRepo, deps.Storage),
		EnrollmentService: services.NewEnrollmentService(eventRepo, userRepo, enrollmentRepo),
		sessions:          deps.Sessions,
	}, nil
}

// NewSessionStore returns a Redis backed store when a Redis host is
// configured and a cookie store otherwise.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.JWTTTLHours * 3600,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// Router builds the gin engine with all routes.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = a.Config.MaxUploadMB << 20

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(a.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{a.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
		ExposeHeaders:    []string{constants.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(sessions.Sessions(constants.SessionCookieName, a.sessions))

	authHandler := handlers.NewAuthHandler(a.AuthService)
	eventHandler := handlers.NewEventHandler(a.EventService, a.EnrollmentService, a.Config.MaxUploadMB)

	requireAuth := middleware.RequireAuth(a.Tokens)
	loadEvent := middleware.LoadEvent(a.EventService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "ONG Connect API is running",
		})
	})

	// Auth routes (public)
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/signout", authHandler.Signout)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)
	}

	events := r.Group("/events")
	{
		events.GET("", eventHandler.ListEvents)
		events.GET("/:id", eventHandler.GetEvent)

		events.POST("", requireAuth,
			middleware.Authorize(middleware.ActionCreateEvent, nil),
			eventHandler.CreateEvent)
		events.PUT("/:id", requireAuth, loadEvent,
			middleware.Authorize(middleware.ActionModifyEvent, middleware.EventOwner),
			eventHandler.UpdateEvent)
		events.DELETE("/:id", requireAuth, loadEvent,
			middleware.Authorize(middleware.ActionModifyEvent, middleware.EventOwner),
			eventHandler.DeleteEvent)

		events.POST("/:id/toggle-attendance/:userEmail", requireAuth, loadEvent,
			middleware.Authorize(middleware.ActionEnroll, middleware.EventSubject("userEmail")),
			eventHandler.ToggleAttendance)
		events.POST("/:id/apply", requireAuth, loadEvent, eventHandler.ApplyForEvent)

		events.GET("/user/:email", requireAuth, eventHandler.ListUserEvents)
		events.GET("/:id/applications", requireAuth, loadEvent,
			middleware.Authorize(middleware.ActionViewApplications, middleware.EventOwner),
			eventHandler.ListApplications)
	}

	return r
}
