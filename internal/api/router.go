package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"janelas-backend/config"
	"janelas-backend/internal/mw"
	"janelas-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, p TableProvider, s store.Store, webpushOptions *webpush.Options, tz *time.Location) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(p, s, webpushOptions, tz)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	pageTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	pages := cache.New(pageTTL, 2*pageTTL)
	caching := mw.Cache(pages, pageTTL)
	handler.flushPages = pages.Flush

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/dashboard", caching, handler.GetDashboard)
		api.GET("/windows", caching, handler.GetWindows)
		api.GET("/next", caching, handler.GetNext)
		api.GET("/legend", handler.GetLegend)
		api.GET("/export.csv", handler.GetExportCSV)
		api.POST("/refresh", handler.Refresh)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
