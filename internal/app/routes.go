package app

import (
	"Camp/internal/auth"
	"Camp/internal/cache"
	"Camp/internal/config"
	"Camp/internal/handlers"
	"Camp/internal/repo"
	"Camp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine. The session store, flash
// store and cookie policy all derive from the one cfg.Session; nothing else
// may construct a second session configuration.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	sessions := auth.NewStore(rdb, cfg.Session.Secret, cfg.Session.TTL.Duration())
	flashes := auth.NewFlashes(rdb)
	renderer := handlers.NewErrorRenderer(flashes, cfg.Session.CookieSecure)
	r.Use(renderer.Middleware())
	r.NoRoute(renderer.NoRoute())

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	cookie := handlers.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: int(cfg.Session.TTL.Duration().Seconds()),
		Secure: cfg.Session.CookieSecure,
	}
	guard := auth.RequireSession(sessions, cfg.Session.CookieName)

	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	strategy := auth.NewPasswordStrategy(userRepo)
	authHandler := handlers.NewAuthHandler(sessions, flashes, strategy, userSvc, cookie)
	RegisterAuthRoutes(r, guard, authHandler)

	campRepo := repo.NewPGCampgroundRepo(db)
	reviewRepo := repo.NewPGReviewRepo(db)
	campCache := cache.NewCampgroundCache(rdb, cfg.Redis.DefaultTTL.Duration())
	campSvc := service.NewCampgroundService(campRepo, reviewRepo, campCache)
	campHandler := handlers.NewCampgroundHandler(campSvc)
	RegisterCampgroundRoutes(r, guard, campHandler)
}

// RegisterAuthRoutes registers the public auth surface plus guarded logout.
func RegisterAuthRoutes(r *gin.Engine, guard gin.HandlerFunc, h *handlers.AuthHandler) {
	r.GET("/register", handlers.Wrap(h.RegisterForm))
	r.POST("/register", handlers.Wrap(h.Register))
	r.GET("/login", handlers.Wrap(h.LoginForm))
	r.POST("/login", handlers.Wrap(h.Login))
	r.POST("/logout", guard, handlers.Wrap(h.Logout))
}

// RegisterCampgroundRoutes registers campground CRUD and nested reviews, all
// behind the session guard, listing and detail included.
func RegisterCampgroundRoutes(r *gin.Engine, guard gin.HandlerFunc, h *handlers.CampgroundHandler) {
	g := r.Group("/campgrounds", guard)
	g.GET("", handlers.Wrap(h.List))
	g.POST("", handlers.Wrap(h.Create))
	g.GET("/:id", handlers.Wrap(h.GetByID))
	g.PUT("/:id", handlers.Wrap(h.Update))
	g.DELETE("/:id", handlers.Wrap(h.Delete))
	g.POST("/:id/reviews", handlers.Wrap(h.AddReview))
	g.DELETE("/:id/reviews/:reviewId", handlers.Wrap(h.DeleteReview))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Campgrounds API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
