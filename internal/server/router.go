package server

import (
	"time"

	"github.com/Baaaki/backyard-marquee/internal/handler"
	"github.com/Baaaki/backyard-marquee/internal/metrics"
	"github.com/Baaaki/backyard-marquee/internal/middleware"
	"github.com/Baaaki/backyard-marquee/internal/security"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// maxBodyBytes caps JSON request bodies. A full lineup is well under this.
const maxBodyBytes = 1 << 20

const (
	scopeAuth         = "auth"
	scopeArtistSearch = "artist_search"
)

// Deps is everything the router mounts.
type Deps struct {
	Tokens         *security.TokenManager
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	AllowedOrigins []string
	Production     bool
	StaticDir      string

	Auth    *handler.AuthHandler
	Lineups *handler.LineupHandler
	Artists *handler.ArtistHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// NewRouter wires middleware and routes. All API routes live under /api.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	// Match on the raw path so an encoded slash stays inside one segment ("AC%2FDC").
	router.UseRawPath = true
	router.UnescapePathValues = true

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(metrics.Middleware())
	router.Use(cors.New(corsConfig(d.AllowedOrigins)))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(d.Production))
	router.Use(middleware.MaxBodySize(maxBodyBytes))

	limit := func(scope string) gin.HandlerFunc {
		if d.RateLimiter == nil {
			return middleware.Passthrough()
		}
		return d.RateLimiter.Middleware(scope)
	}
	requireAuth := middleware.RequireAuth(d.Tokens)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", d.Health.Health)

		auth := api.Group("/auth", limit(scopeAuth))
		{
			auth.POST("/register", d.Auth.Register)
			auth.POST("/login", d.Auth.Login)
		}

		lineups := api.Group("/lineups")
		{
			lineups.GET("", requireAuth, d.Lineups.List)
			lineups.GET("/:id", middleware.OptionalAuth(d.Tokens), d.Lineups.Get)
			lineups.POST("", requireAuth, d.Lineups.Create)
			lineups.PUT("/:id", requireAuth, d.Lineups.Update)
			lineups.DELETE("/:id", requireAuth, d.Lineups.Delete)
		}

		api.GET("/artists/search", limit(scopeArtistSearch), d.Artists.Search)

		stats := api.Group("/stats")
		{
			stats.GET("/leaderboard", d.Stats.Leaderboard)
			stats.GET("/artist/:name", d.Stats.Artist)
			stats.GET("/browse", d.Stats.Browse)
			stats.GET("/search-artists", d.Stats.SearchArtists)
			stats.GET("/site", d.Stats.Site)
		}
	}

	router.NoRoute(handler.NewSPAHandler(d.StaticDir).NoRoute)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
