package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"KMA-backend/docs"
	"KMA-backend/internal/attendance"
	"KMA-backend/internal/meetings"
	"KMA-backend/internal/members"
	"KMA-backend/internal/platform/auth"
	"KMA-backend/internal/platform/logger"
	"KMA-backend/internal/platform/metrics"
	"KMA-backend/internal/report"
	"KMA-backend/internal/subcommittees"
)

const APIPrefix = "/api/v1"

func NewRouter(app *App) *gin.Engine {
	cfg := app.Config

	r := gin.New()
	r.Use(logger.Gin(app.Log), gin.Recovery(), app.Metrics.Middleware())
	_ = r.SetTrustedProxies(nil)

	if cfg.IsDev() {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowOrigins,
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		docs.SwaggerInfo.BasePath = APIPrefix
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) {
		if err := app.DB.PingContext(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler(app.Registry)))
	}

	// /api/v1
	api := r.Group(APIPrefix)
	var adminOnly []gin.HandlerFunc
	if cfg.Auth.Enabled {
		api.Use(auth.RequireAuth([]byte(cfg.Auth.JWTSecret)))
		adminOnly = append(adminOnly, auth.RequireRole(cfg.Auth.AdminRole))
	}

	members.RegisterRoutes(api, app.Members, adminOnly...)
	subcommittees.RegisterRoutes(api, app.Subcommittees)
	attendance.RegisterRoutes(api, app.Attendance, adminOnly...)
	report.RegisterRoutes(api, app.Reports)
	meetings.RegisterRoutes(api, app.Meetings)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})
	return r
}
