package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/hostelwise-backend/internal/api/handlers"
	"github.com/princeprakhar/hostelwise-backend/internal/api/middleware"
	"github.com/princeprakhar/hostelwise-backend/internal/cache"
	"github.com/princeprakhar/hostelwise-backend/internal/config"
	"github.com/princeprakhar/hostelwise-backend/internal/services"
	"github.com/princeprakhar/hostelwise-backend/pkg/logger"
	"gorm.io/gorm"
)

type Services struct {
	Auth     *services.AuthService
	Colleges *services.CollegeService
	Hostels  *services.HostelService
	Reviews  *services.ReviewService
	Photos   *services.PhotoService
	Admin    *services.AdminService
}

func NewServices(db *gorm.DB, cfg *config.Config, c cache.Cache, notifier services.Notifier, store services.ObjectStore) *Services {
	hostels := services.NewHostelService(db, c, notifier, cfg.HostelPageSize)
	return &Services{
		Auth:     services.NewAuthService(db, cfg.JWTSecret),
		Colleges: services.NewCollegeService(db, c, cfg.CacheTTL, notifier),
		Hostels:  hostels,
		Reviews:  services.NewReviewService(db, hostels, c, cfg.CacheTTL, notifier, cfg.ReviewPageSize),
		Photos:   services.NewPhotoService(store),
		Admin:    services.NewAdminService(db),
	}
}

func SetupRoutes(router *gin.Engine, svc *Services, cfg *config.Config) {
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))

	// multipart bodies above this spill to disk
	router.MaxMultipartMemory = 8 << 20

	authHandler := handlers.NewAuthHandler(svc.Auth)
	collegeHandler := handlers.NewCollegeHandler(svc.Colleges)
	hostelHandler := handlers.NewHostelHandler(svc.Hostels)
	reviewHandler := handlers.NewReviewHandler(svc.Reviews, svc.Photos)
	adminHandler := handlers.NewAdminHandler(svc.Admin)

	requireAuth := middleware.AuthMiddleware(cfg, svc.Auth)
	optionalAuth := middleware.OptionalAuth(cfg, svc.Auth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/profile", requireAuth, authHandler.GetProfile)
		auth.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		auth.GET("/is-admin", requireAuth, authHandler.IsAdmin)
	}

	colleges := api.Group("/colleges")
	{
		colleges.GET("", optionalAuth, collegeHandler.List)
		colleges.POST("", requireAuth, collegeHandler.Submit)
		colleges.GET("/:college_id", optionalAuth, collegeHandler.Get)
		colleges.GET("/:college_id/hostels", optionalAuth, hostelHandler.ListByCollege)
		colleges.POST("/:college_id/hostels", requireAuth, hostelHandler.Submit)
		colleges.GET("/:college_id/hostels/:hostel_id", optionalAuth, hostelHandler.Get)
	}

	hostels := api.Group("/hostels")
	{
		hostels.GET("/:hostel_id/reviews", optionalAuth, reviewHandler.ListForHostel)
		hostels.GET("/:hostel_id/reviews/stats", optionalAuth, reviewHandler.Stats)
	}

	reviews := api.Group("/reviews")
	{
		reviews.GET("", optionalAuth, reviewHandler.ListPublished)
		reviews.POST("", requireAuth, reviewHandler.Create)
		reviews.POST("/photos", requireAuth, reviewHandler.UploadPhotos)
		reviews.GET("/:review_id", optionalAuth, reviewHandler.Get)
		reviews.POST("/:review_id/upvote", requireAuth, reviewHandler.Upvote)
	}

	admin := api.Group("/admin", requireAuth, middleware.AdminOnly())
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)

		admin.GET("/colleges", collegeHandler.AdminList)
		admin.POST("/colleges", collegeHandler.AdminCreate)
		admin.PUT("/colleges/:id", collegeHandler.Update)
		admin.DELETE("/colleges/:id", collegeHandler.Delete)
		admin.POST("/colleges/:id/approve", collegeHandler.Approve)

		admin.GET("/hostels", hostelHandler.AdminList)
		admin.POST("/hostels", hostelHandler.AdminCreate)
		admin.PUT("/hostels/:id", hostelHandler.Update)
		admin.DELETE("/hostels/:id", hostelHandler.Delete)
		admin.POST("/hostels/:id/approve", hostelHandler.Approve)

		admin.GET("/reviews", reviewHandler.AdminList)
		admin.GET("/reviews/pending", reviewHandler.Pending)
		admin.POST("/reviews/:id/approve", reviewHandler.Approve)
		admin.POST("/reviews/:id/reject", reviewHandler.Reject)
		admin.DELETE("/reviews/:id", reviewHandler.Delete)
	}

	logger.Info("Routes initialized successfully")
}
