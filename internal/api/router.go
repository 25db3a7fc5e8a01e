package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalops/portal-system/internal/api/handler"
	"github.com/hospitalops/portal-system/internal/api/middleware"
	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/service"
	mongodb "github.com/hospitalops/portal-system/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal_http"))

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	alerts := mongodb.NewAlertRepository(db)
	inpatients := mongodb.NewInpatientRepository(db)
	pharmacy := mongodb.NewPharmacyRepository(db)
	meetings := mongodb.NewMeetingRepository(db)

	authService := service.NewAuthService(users, jwtSecret, 24*time.Hour)
	portal := service.NewPortalService(users, alerts, inpatients, pharmacy, meetings, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(portal)
	alertHandler := handler.NewAlertHandler(portal)
	inpatientHandler := handler.NewInpatientHandler(portal)
	pharmacyHandler := handler.NewPharmacyHandler(portal)
	meetingHandler := handler.NewMeetingHandler(portal)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	v1.GET("/users/me", userHandler.Me)
	v1.PATCH("/users/:id/role", userHandler.UpdateRole)
	v1.PATCH("/users/:id", userHandler.UpdateProfile)

	v1.GET("/alerts", alertHandler.List)
	v1.POST("/alerts", alertHandler.Create)
	v1.DELETE("/alerts/:id", alertHandler.Delete, adminOnly)

	v1.GET("/inpatients", inpatientHandler.List)
	v1.POST("/inpatients", inpatientHandler.Create)
	v1.DELETE("/inpatients/:id", inpatientHandler.Delete, adminOnly)
	v1.PATCH("/inpatients/:id/status", inpatientHandler.UpdateStatus)
	v1.PATCH("/inpatients/:id/record", inpatientHandler.UpdateRecord)

	v1.GET("/pharmacy/stock", pharmacyHandler.ListStock)
	v1.PATCH("/pharmacy/stock", pharmacyHandler.UpdateStock)

	v1.GET("/prescriptions", pharmacyHandler.ListPrescriptions)
	v1.PATCH("/prescriptions/:id/status", pharmacyHandler.UpdatePrescriptionStatus)

	v1.GET("/meetings", meetingHandler.ListMeetings)
	v1.POST("/meetings", meetingHandler.CreateMeeting)
	v1.DELETE("/meetings/:id", meetingHandler.DeleteMeeting, adminOnly)

	v1.GET("/schedules", meetingHandler.ListSchedules)
	v1.POST("/schedules", meetingHandler.CreateSchedule)

	return e
}
