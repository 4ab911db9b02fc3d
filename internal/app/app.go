package app

import (
	"net/http"

	"clubdesk-backend/internal/announcements"
	"clubdesk-backend/internal/applications"
	"clubdesk-backend/internal/attendance"
	"clubdesk-backend/internal/auth"
	"clubdesk-backend/internal/config"
	"clubdesk-backend/internal/constants"
	"clubdesk-backend/internal/dashboard"
	"clubdesk-backend/internal/database"
	"clubdesk-backend/internal/emails"
	"clubdesk-backend/internal/events"
	"clubdesk-backend/internal/health"
	"clubdesk-backend/internal/invitations"
	"clubdesk-backend/internal/middleware"
	"clubdesk-backend/internal/notifications"
	"clubdesk-backend/internal/pkg/cache"
	"clubdesk-backend/internal/registrations"
	"clubdesk-backend/internal/teams"
	"clubdesk-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and routes.
// DB and Redis handles are returned so the entrypoint can verify
// connectivity before listening.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis); the same client feeds the health marker and caches
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Health surface
	var dbPinger health.DBPinger
	if db != nil {
		dbPinger = gormPinger{db}
	}
	healthHandlers := &health.Handlers{Rdb: rdb, DB: dbPinger}
	app.Get("/health", healthHandlers.Live)
	app.Get("/health/json", healthHandlers.JSON)

	var mailer emails.Sender = &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}

	// Auth (public login/signup/verify; me/logout read the session directly)
	var userFinder auth.UserFinder
	var authService *auth.Service
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
		authService = &auth.Service{DB: db}
	}
	authHandlers := &auth.Handlers{
		Service:       authService,
		UserFinder:    userFinder,
		Rdb:           rdb,
		Config:        sessionCfg,
		Emails:        mailer,
		VerifyBaseURL: cfg.VerifyBaseURL,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Post("/signup", authHandlers.Signup)
	authGroup.Get("/verify", authHandlers.VerifyEmail)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	if db != nil {
		summaryCache := &cache.Cache{Rdb: rdb}
		notifService := &notifications.Service{DB: db}

		// Events
		eventService := &events.Service{DB: db}
		eventHandlers := &events.Handlers{Service: eventService}
		eventGroup := app.Group("/api/v1/events", middleware.RequireAuth())
		eventGroup.Get("/", eventHandlers.List)
		eventGroup.Get("/:id", eventHandlers.Get)
		eventGroup.Post("/", middleware.AuthorizePermission(constants.ManageEvents), eventHandlers.Create)
		eventGroup.Patch("/:id/status", middleware.AuthorizePermission(constants.ManageEvents), eventHandlers.SetStatus)
		eventGroup.Patch("/:id", middleware.AuthorizePermission(constants.ManageEvents), eventHandlers.Update)
		eventGroup.Delete("/:id", middleware.AuthorizePermission(constants.ManageEvents), eventHandlers.Delete)

		// Registrations
		regService := &registrations.Service{DB: db, Cache: summaryCache}
		regHandlers := &registrations.Handlers{Service: regService}
		regGroup := app.Group("/api/v1/registrations", middleware.RequireAuth())
		regGroup.Post("/register", regHandlers.Register)
		regGroup.Post("/cancel", regHandlers.Cancel)
		regGroup.Get("/mine", regHandlers.Mine)
		regGroup.Get("/export/:event_id", middleware.AuthorizePermission(constants.ExportRegistrations), regHandlers.Export)

		// Attendance (core only)
		attService := &attendance.Service{DB: db, Cache: summaryCache}
		attHandlers := &attendance.Handlers{Service: attService}
		attGroup := app.Group("/api/v1/attendance", middleware.RequireAuth(), middleware.AuthorizePermission(constants.RecordAttendance))
		attGroup.Get("/sheet/:event_id", attHandlers.GetSheet)
		attGroup.Post("/update", attHandlers.Update)
		attGroup.Get("/audit/:event_id", attHandlers.AuditTrail)

		// Teams
		teamService := &teams.Service{DB: db}
		teamHandlers := &teams.Handlers{Service: teamService}
		teamGroup := app.Group("/api/v1/teams", middleware.RequireAuth())
		teamGroup.Post("/", teamHandlers.Create)
		teamGroup.Get("/leaderboard", teamHandlers.Leaderboard)
		teamGroup.Get("/event/:event_id", teamHandlers.ListByEvent)
		teamGroup.Get("/:id", teamHandlers.Get)
		teamGroup.Post("/:id/points", middleware.AuthorizePermission(constants.AdjustTeamPoints), teamHandlers.AdjustPoints)

		// Invitations
		invService := &invitations.Service{DB: db, Notifications: notifService, Emails: mailer}
		invHandlers := &invitations.Handlers{Service: invService}
		invGroup := app.Group("/api/v1/invitations", middleware.RequireAuth())
		invGroup.Post("/send", invHandlers.Send)
		invGroup.Post("/reinvite", invHandlers.Reinvite)
		invGroup.Post("/:id/cancel", invHandlers.Cancel)
		invGroup.Post("/:id/respond", invHandlers.Respond)
		invGroup.Get("/team/:team_id", invHandlers.TeamStatus)
		invGroup.Get("/available/:team_id", invHandlers.AvailableMembers)

		// Applications
		applService := &applications.Service{DB: db, Notifications: notifService}
		applHandlers := &applications.Handlers{Service: applService}
		applGroup := app.Group("/api/v1/applications", middleware.RequireAuth())
		applGroup.Post("/apply", applHandlers.Apply)
		applGroup.Post("/:id/withdraw", applHandlers.Withdraw)
		applGroup.Post("/:id/respond", applHandlers.Respond)
		applGroup.Get("/team/:team_id", applHandlers.ListForTeam)
		applGroup.Get("/mine", applHandlers.Mine)

		// Notifications
		notifHandlers := &notifications.Handlers{Service: notifService}
		notifGroup := app.Group("/api/v1/notifications", middleware.RequireAuth())
		notifGroup.Get("/", notifHandlers.List)
		notifGroup.Post("/:id/read", notifHandlers.MarkRead)

		// Announcements
		annService := &announcements.Service{DB: db, Cache: summaryCache}
		annHandlers := &announcements.Handlers{Service: annService}
		annGroup := app.Group("/api/v1/announcements", middleware.RequireAuth())
		annGroup.Get("/", annHandlers.List)
		annGroup.Get("/unseen", annHandlers.UnseenCount)
		annGroup.Post("/seen", annHandlers.MarkSeen)
		annGroup.Post("/", middleware.AuthorizePermission(constants.ManageAnnouncements), annHandlers.Create)
		annGroup.Patch("/:id", middleware.AuthorizePermission(constants.ManageAnnouncements), annHandlers.Update)

		// Member administration (core only)
		userService := &users.Service{DB: db}
		userHandlers := &users.Handlers{Service: userService}
		userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
		userGroup.Get("/members", middleware.AuthorizePermission(constants.ViewMembers), userHandlers.ListMembers)
		userGroup.Get("/pending", middleware.AuthorizePermission(constants.ManagePendingUsers), userHandlers.ListPending)
		userGroup.Post("/pending", middleware.AuthorizePermission(constants.ManagePendingUsers), userHandlers.AddPending)
		userGroup.Delete("/pending/:id", middleware.AuthorizePermission(constants.ManagePendingUsers), userHandlers.RemovePending)
		userGroup.Post("/pending/:id/promote", middleware.AuthorizePermission(constants.ManagePendingUsers), userHandlers.Promote)
		userGroup.Patch("/:id/role", middleware.AuthorizePermission(constants.AssignRole), userHandlers.UpdateRole)

		// Dashboards
		dashService := &dashboard.Service{DB: db, Cache: summaryCache}
		dashHandlers := &dashboard.Handlers{Service: dashService}
		dashGroup := app.Group("/api/v1/dashboard", middleware.RequireAuth())
		dashGroup.Get("/summary", dashHandlers.MemberSummary)
		dashGroup.Get("/admin", middleware.AuthorizePermission(constants.ViewAdminDashboard), dashHandlers.AdminSummary)
	}

	return app, db, rdb, nil
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Handler adapts the Fiber app to net/http for serverless hosting.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
