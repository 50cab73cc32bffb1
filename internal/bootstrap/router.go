package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/studioform/onboarding-backend/config"
	httpapi "github.com/studioform/onboarding-backend/internal/api/http"
	"github.com/studioform/onboarding-backend/internal/api/http/middleware"
	"github.com/studioform/onboarding-backend/internal/auth"
	briefhttp "github.com/studioform/onboarding-backend/internal/brief/http"
	featurehttp "github.com/studioform/onboarding-backend/internal/features/http"
	genhttp "github.com/studioform/onboarding-backend/internal/generation/http"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projecthttp "github.com/studioform/onboarding-backend/internal/projects/http"
	"github.com/studioform/onboarding-backend/internal/storage/media"
	wizardhttp "github.com/studioform/onboarding-backend/internal/wizard/http"
)

// SetGinMode switches gin to release mode in production. Call it
// before any engine is built.
func SetGinMode(production bool) {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
}

type RouterDeps struct {
	Config   *config.Config
	Log      *logger.Logger
	DB       *sql.DB
	Redis    *redis.Client
	Services *Services
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Config.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, "X-User-Id", "X-User-Email", "X-User-Name"},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(maxBody(dep.Config.Server.MaxBodyBytes))

	var dbPing, redisPing httpapi.Pinger
	if dep.DB != nil {
		dbPing = dep.DB
	}
	if dep.Redis != nil {
		redisPing = httpapi.PingerFunc(func(ctx context.Context) error { return dep.Redis.Ping(ctx).Err() })
	}
	health := httpapi.NewHealthHandler(dep.Config.App.Name, dep.Config.App.Version, dbPing, redisPing)
	health.RegisterRoutes(r)

	svc := dep.Services
	api := r.Group("/api")
	api.Use(auth.WithUser(svc.Users))

	projecthttp.New(svc.Projects, dep.Log).Register(api)
	featurehttp.New(svc.Features, dep.Log).Register(api.Group("/feature-selections"))
	media.NewHandler(svc.Media, dep.Log).Register(api.Group("/media"))
	genhttp.New(svc.Generation, dep.Log).Register(api)
	briefhttp.New(svc.Exporter, dep.Log).Register(api)
	if svc.Wizard != nil {
		wizardhttp.New(svc.Wizard, dep.Log).Register(api)
	}

	return r
}

// maxBody caps request bodies; uploads and logo payloads are the largest.
func maxBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
