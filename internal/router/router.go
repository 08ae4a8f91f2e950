// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cywf/AudiFi-sub000/internal/config"
	"github.com/cywf/AudiFi-sub000/internal/handler"
	"github.com/cywf/AudiFi-sub000/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication. Health is
// exempt from rate limiting so probes never get throttled.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated catalog under /v1. Responses
// are cacheable, so the Redis cache middleware wraps the whole group; rdb
// may be nil, in which case caching is disabled.
func RegisterPublic(e *echo.Echo, p *handler.PublicBrowseHandler, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	g.GET("/ipos", p.ListIPOs)
	g.GET("/ipos/:id", p.GetIPO)
	g.GET("/ipos/:id/holders", p.ListHolders)
}

// RegisterAPI registers the authenticated surface under /v1. WalletAuth
// runs on every route; the artist lifecycle additionally requires the
// "artist" role while market and dividend routes accept any authenticated
// wallet.
func RegisterAPI(e *echo.Echo, a *handler.ArtistIPOHandler, m *handler.MarketHandler, d *handler.DividendHandler, jwtSecret string, rdb *redis.Client) {
	auth := e.Group("/v1")
	auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	auth.Use(middleware.WalletAuth(jwtSecret))

	// Artist lifecycle and revenue operations.
	artist := auth.Group("", middleware.RequireRole("artist"))
	artist.POST("/ipos", a.CreateIPO)
	artist.POST("/ipos/:id/launch", a.LaunchIPO)
	artist.POST("/ipos/:id/close", a.CloseIPO)
	artist.POST("/ipos/:id/cancel", a.CancelIPO)
	artist.POST("/ipos/:id/revenue", a.RecordRevenue)
	artist.GET("/ipos/:id/revenue", a.ListRevenue)
	artist.POST("/revenue/:id/process", a.ProcessRevenue)

	// Market operations for any authenticated wallet.
	auth.POST("/ipos/:id/mint", m.Mint)
	auth.POST("/ipos/:id/transfer", m.Transfer)
	auth.GET("/ipos/:id/resale-quote", m.QuoteResale)
	auth.POST("/ipos/:id/resales", m.RecordResale)
	auth.GET("/ipos/:id/resales", m.ListResales)
	auth.GET("/ipos/:id/position", m.Position)

	// Dividend claiming.
	auth.POST("/dividends/:id/claim", d.Claim)
	auth.POST("/dividends/claim-all", d.ClaimAll)
	auth.GET("/dividends/outstanding", d.Outstanding)
}
