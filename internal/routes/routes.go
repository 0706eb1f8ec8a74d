package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vinayvardhann/careflow-scheduler/internal/cache"
	"github.com/vinayvardhann/careflow-scheduler/internal/config"
	"github.com/vinayvardhann/careflow-scheduler/internal/handlers"
	"github.com/vinayvardhann/careflow-scheduler/internal/middleware"
	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/notify"
	"github.com/vinayvardhann/careflow-scheduler/internal/repository"
	"github.com/vinayvardhann/careflow-scheduler/internal/service"
	"github.com/vinayvardhann/careflow-scheduler/internal/utils"
)

// Dependencies are the long-lived components the routes are wired to.
type Dependencies struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Cache cache.Cache
	Hub   *notify.Hub
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	utils.RegisterValidators()

	store := repository.NewStore(deps.DB)
	stats := service.NewStatsAggregator(store, deps.Cache, deps.Cfg.Redis.StatsTTL, deps.Cfg.StatsTimeZone)
	appointments := service.NewAppointmentService(store, deps.Hub, stats)
	doctors := service.NewDoctorService(store.Doctors, stats)

	authHandler := handlers.NewAuthHandler(deps.DB, store.Users, deps.Cfg)
	doctorHandler := handlers.NewDoctorHandler(doctors)
	appointmentHandler := handlers.NewAppointmentHandler(appointments, stats, deps.Hub)

	auth := middleware.AuthMiddleware(deps.Cfg)
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "CareFlow API is running"})
	})

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		authRoutes.POST("/logout", auth, authHandler.Logout)
		authRoutes.GET("/profile", auth, authHandler.GetProfile)
		authRoutes.PUT("/profile", auth, authHandler.UpdateProfile)
	}

	doctorRoutes := api.Group("/doctors")
	{
		doctorRoutes.GET("", doctorHandler.GetDoctors)
		doctorRoutes.GET("/:id", doctorHandler.GetDoctorByID)
		doctorRoutes.POST("", auth, middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.CreateDoctor)
		doctorRoutes.PUT("/:id", auth, middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor), doctorHandler.UpdateDoctor)
		doctorRoutes.DELETE("/:id", auth, middleware.RoleAuthMiddleware(models.RoleAdmin), doctorHandler.DeleteDoctor)
	}

	appointmentRoutes := api.Group("/appointments")
	appointmentRoutes.Use(auth)
	{
		appointmentRoutes.GET("", appointmentHandler.GetAppointments)
		appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
		appointmentRoutes.GET("/stats", appointmentHandler.GetStats)
		appointmentRoutes.GET("/report", middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleDoctor), appointmentHandler.GetScheduleReport)
		appointmentRoutes.GET("/events", appointmentHandler.StreamEvents)
		appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
		appointmentRoutes.PUT("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		appointmentRoutes.PUT("/:id", appointmentHandler.RescheduleAppointment)
		appointmentRoutes.DELETE("/:id", appointmentHandler.CancelAppointment)
	}
}
