package server

import (
	"log"
	"net/http"
	"time"

	"lifeops-server/auth"
	"lifeops-server/cache"
	"lifeops-server/confs"
	"lifeops-server/db"
	"lifeops-server/handlers"
	httpHandler "lifeops-server/handlers/http"
	"lifeops-server/repositories"
	"lifeops-server/services"
	"lifeops-server/usecases"
	"lifeops-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app     *gin.Engine
	db      db.Database
	cfg     confs.Config
	janitor *services.Janitor
}

func NewServer(database db.Database, cfg confs.Config) *Server {
	return New(database, cfg, usecases.SystemClock(cfg.Location))
}

// New wires every route against database using clock for "now" and "today".
func New(database db.Database, cfg confs.Config, clock usecases.Clock) *Server {
	s := &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}
	if err := httpHandler.RegisterValidators(); err != nil {
		log.Printf("warning: could not register validators: %v", err)
	}
	s.setup(clock)
	return s
}

func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(s.cfg.CORSOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = s.cfg.CORSOrigins
		config.AllowCredentials = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return config
}

func (s *Server) setup(clock usecases.Clock) {
	s.app.Use(cors.New(s.corsConfig()))

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	sessionRepo := repositories.NewSessionPgRepository(s.db)
	taskRepo := repositories.NewTaskPgRepository(s.db)
	householdRepo := repositories.NewHouseholdPgRepository(s.db)

	manager := ws.NewManager()
	reports := cache.NewReportCache[usecases.AnalyticsReport](s.cfg.AnalyticsCacheTTL).WithClock(clock.Now)
	tokens := auth.NewTokenIssuer(s.cfg.JWTSecret, s.cfg.AccessTokenTTL, s.cfg.RefreshTokenTTL).WithClock(clock.Now)

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(userRepo, sessionRepo, tokens, s.cfg.SessionTTL, clock)
	taskUseCase := usecases.NewTaskUseCase(taskRepo, householdRepo, clock, s.cfg.FreeTaskLimit).
		WithPublisher(manager).
		WithInvalidator(reports)
	householdUseCase := usecases.NewHouseholdUseCase(householdRepo, clock, s.cfg.InviteTTL).WithInvalidator(reports)
	analyticsUseCase := usecases.NewAnalyticsUseCase(taskRepo, householdRepo, reports, clock)
	settingsUseCase := usecases.NewSettingsUseCase(userRepo).WithInvalidator(reports)

	s.janitor = services.NewJanitor(sessionRepo, householdRepo, reports).WithClock(clock.Now)

	// Initialize handlers
	mobileAuthHandler := httpHandler.NewMobileAuthHandler(authUseCase)
	sessionHandler := httpHandler.NewSessionHandler(authUseCase, s.cfg.CookieSecure).WithClock(clock.Now)
	taskHandler := httpHandler.NewTaskHandler(taskUseCase, clock.Location)
	householdHandler := httpHandler.NewHouseholdHandler(householdUseCase)
	settingsHandler := httpHandler.NewSettingsHandler(settingsUseCase)
	dashboardHandler := httpHandler.NewDashboardHandler(taskUseCase, householdUseCase, analyticsUseCase)
	wsHandler := handlers.NewWSHandler(manager).WithAllowedOrigins(s.cfg.CORSOrigins)
	healthHandler := handlers.NewHealthHandler(manager, reports, s.janitor)

	requireBearer := httpHandler.RequireUser(auth.NewBearerProvider(tokens), authUseCase)
	requireSession := httpHandler.RequireUser(auth.NewSessionProvider(sessionRepo, clock.Now), authUseCase)

	s.app.GET("/health", healthHandler.Health)

	// Mobile API, bearer tokens
	mobile := s.app.Group("/api/mobile")
	{
		authRoutes := mobile.Group("/auth")
		{
			authRoutes.POST("/login", mobileAuthHandler.Login)
			authRoutes.POST("/register", mobileAuthHandler.Register)
			authRoutes.POST("/refresh", mobileAuthHandler.Refresh)
			authRoutes.GET("/me", requireBearer, mobileAuthHandler.Me)
		}

		tasks := mobile.Group("/tasks", requireBearer)
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/uncomplete", taskHandler.UncompleteTask)
		}

		mobile.GET("/ws", requireBearer, wsHandler.HandleUserWS)
	}

	// Browser API, session cookie
	web := s.app.Group("/api/web")
	{
		session := web.Group("/session")
		{
			session.POST("/register", sessionHandler.Register)
			session.POST("/login", sessionHandler.Login)
			session.POST("/logout", sessionHandler.Logout)
		}

		web.GET("/invites/:token", householdHandler.GetInvite)

		authed := web.Group("", requireSession)
		{
			authed.GET("/dashboard", dashboardHandler.GetDashboard)
			authed.GET("/analytics", dashboardHandler.GetAnalytics)

			tasks := authed.Group("/tasks")
			{
				tasks.GET("", taskHandler.GetTasks)
				tasks.POST("", taskHandler.CreateTask)
				tasks.GET("/:id", taskHandler.GetTask)
				tasks.PATCH("/:id", taskHandler.UpdateTask)
				tasks.DELETE("/:id", taskHandler.DeleteTask)
				tasks.POST("/:id/complete", taskHandler.CompleteTask)
				tasks.POST("/:id/uncomplete", taskHandler.UncompleteTask)
			}

			household := authed.Group("/household")
			{
				household.GET("", householdHandler.GetHousehold)
				household.POST("", householdHandler.CreateHousehold)
				household.POST("/leave", householdHandler.Leave)
				household.DELETE("/members/:userId", householdHandler.RemoveMember)
				household.POST("/invites", householdHandler.CreateInvite)
				household.DELETE("/invites/:id", householdHandler.RevokeInvite)
			}

			authed.POST("/invites/:token/accept", householdHandler.AcceptInvite)

			settings := authed.Group("/settings")
			{
				settings.GET("", settingsHandler.GetSettings)
				settings.PATCH("/profile", settingsHandler.UpdateProfile)
				settings.POST("/password", settingsHandler.ChangePassword)
				settings.POST("/plan", settingsHandler.ChangePlan)
			}

			authed.GET("/ws", wsHandler.HandleUserWS)
			authed.GET("/ws/connected", wsHandler.GetConnectedUsers)
		}
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Start launches the janitor and serves until the listener fails.
func (s *Server) Start() {
	if err := s.janitor.Start(s.cfg.JanitorInterval); err != nil {
		log.Printf("warning: janitor not started: %v", err)
	} else {
		defer s.janitor.Stop()
	}

	log.Printf("LifeOps server listening on %s", s.cfg.HTTPAddr)
	if err := s.app.Run(s.cfg.HTTPAddr); err != nil {
		panic(err)
	}
}
