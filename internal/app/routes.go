package app

import (
	"net/http"

	"github.com/kntgio-z/test-repo/internal/cache"
	"github.com/kntgio-z/test-repo/internal/config"
	"github.com/kntgio-z/test-repo/internal/handlers"
	"github.com/kntgio-z/test-repo/internal/repo"
	"github.com/kntgio-z/test-repo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine. rdb may be nil; the
// account service then runs uncached.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/hello", helloHandler())
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	accountRepo := repo.NewPGAccountRepo(db)
	var accountCache *cache.AccountCache
	if rdb != nil {
		accountCache = cache.NewAccountCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	accountSvc := service.NewAccountService(accountRepo, accountCache)
	accountHandler := handlers.NewAccountHandler(accountSvc)
	registerAccountRoutes(r, accountHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Accounts API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func helloHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Hello, World!"})
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
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAccountRoutes(r *gin.Engine, h *handlers.AccountHandler) {
	r.GET("/username/:id", h.GetUsername)
	r.GET("/pressure/:payload", h.Pressure)
	r.POST("/new", h.Create)
	r.PATCH("/edit", h.Update)
	r.DELETE("/delete", h.Delete)
}
