package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/picfeed/picfeed/auth"
	"github.com/picfeed/picfeed/config"
	"github.com/picfeed/picfeed/controllers"
	"github.com/picfeed/picfeed/middleware"
	"github.com/picfeed/picfeed/utils"
)

// SetupRouter wires routes, middlewares, and controllers around the injected
// store handles.
func SetupRouter(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.GinLogger())
	r.Use(utils.GinRecovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	users := auth.NewUsers(db)
	hasher := auth.NewHasher(nil)
	svc := auth.NewService(users, hasher)
	sessions := auth.NewSessionStore(rdb, time.Duration(cfg.SessionTTLHours)*time.Hour)
	resolver := auth.NewResolver(sessions, users)

	authController := controllers.NewAuthController(svc, sessions)
	postController := controllers.NewPostController(db, users, cfg.PostsPerPage, cfg.PrefetchFactor, cfg.UploadLimitMB)
	adminController := controllers.NewAdminController(db, users)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Session(resolver))

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.RequireLogin(), authController.Logout)
	authGroup.GET("/me", middleware.RequireLogin(), authController.Me)

	api.GET("/posts", postController.Index)
	api.GET("/posts/:id", postController.Show)
	api.POST("/posts", middleware.RequireLogin(), middleware.CSRF(), postController.Create)
	api.GET("/image/:filename", postController.Image)
	api.POST("/comments", middleware.RequireLogin(), middleware.CSRF(), postController.CreateComment)
	api.GET("/users/:account_name/posts", postController.UserPosts)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireLogin(), middleware.RequireAdmin())
	adminGroup.GET("/banned", adminController.BanCandidates)
	adminGroup.POST("/banned", middleware.CSRF(), adminController.Ban)

	api.GET("/initialize", adminController.Initialize)

	r.NoRoute(func(ctx *gin.Context) {
		utils.NotFound(ctx, 40400, "route not found")
	})

	return r
}
