package api

import (
	"automarket/app/favorite"
	"automarket/app/listing"
	"automarket/app/reference"
	"automarket/app/root"
	"automarket/app/user"
	"automarket/internal"
	"automarket/pkg/middleware"
	"context"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EngineConfig holds the HTTP level settings of the router
type EngineConfig struct {
	CORSOrigins []string
	RateLimit   int
	BodyLimit   int64
	CacheTTL    time.Duration

	// Redis, when set, backs the rate limiter so all instances share it
	Redis *redis.Client

	TurnstileEnabled bool
	TurnstileSecret  string
}

type handler func(c *gin.Context, d *internal.Deps)

// NewEngine builds the gin engine with every route mounted under /api.
// Background goroutines started here stop with ctx
func NewEngine(ctx context.Context, d *internal.Deps, cfg EngineConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetUint("userID"); v != 0 {
					fields = append(fields, zap.Uint("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	with := func(h handler) gin.HandlerFunc {
		return func(c *gin.Context) { h(c, d) }
	}

	var rateLimiter gin.HandlerFunc
	if cfg.Redis != nil {
		rateLimiter = middleware.RedisRateLimiterMiddleware(cfg.Redis, cfg.RateLimit, time.Second)
	} else {
		rateLimiter = middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateLimit * 2,
		})
	}

	jwt := middleware.NewJWTMiddleware(d.Users)
	turnstile := middleware.NewTurnstileMiddleware(cfg.TurnstileEnabled, cfg.TurnstileSecret)
	store := persist.NewMemoryStore(cfg.CacheTTL)
	cached := func() gin.HandlerFunc {
		return cache.CacheByRequestURI(store, cfg.CacheTTL)
	}

	m := router.Group("/api", rateLimiter, middleware.BodySizeLimiter(cfg.BodyLimit))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
		m.GET("/heartbeat", root.Heartbeat)

		// POST /api/register/ 		-> Registers a new, unverified user
		m.POST("/register/", turnstile, with(user.UserRegister))

		// POST /api/login/ 		-> Returns an access and a refresh token
		m.POST("/login/", with(user.UserLogin))

		// POST /api/token/refresh/ 	-> Exchanges a refresh token for an access token
		m.POST("/token/refresh/", with(user.UserRefresh))

		// POST /api/email-verification/resend/ -> Mails a new verification code
		m.POST("/email-verification/resend/", turnstile, with(user.UserResendVerification))

		// POST /api/email-verification/:code/ 	-> Verifies a user
		m.POST("/email-verification/:code/", with(user.UserVerify))

		// GET /api/brands/, /api/locations/ 	-> Reference data
		m.GET("/brands/", cached(), with(reference.BrandList))
		m.GET("/locations/", cached(), with(reference.LocationList))
	}

	p := m.Group("/profile", jwt)
	{
		// GET /api/profile/ 		-> Returns the profile of the signed in user
		p.GET("/", with(user.UserProfile))

		// POST|PATCH /api/profile/ 	-> Updates the profile
		p.POST("/", with(user.UserProfileUpdate))
		p.PATCH("/", with(user.UserProfileUpdate))

		// DELETE /api/profile/delete/ 	-> Deletes the account and everything it owns
		p.DELETE("/delete/", with(user.UserDelete))
	}

	l := m.Group("/listings")
	{
		// GET /api/listings/ 		-> Public, paginated list of visible listings
		l.GET("/", with(listing.ListingList))

		// GET /api/listings/mine/ 	-> The signed in user's listings, hidden ones included
		l.GET("/mine/", jwt, with(listing.ListingMine))

		// POST /api/listings/create/ 	-> Creates a listing
		l.POST("/create/", jwt, with(listing.ListingCreate))

		// GET /api/listings/:id/ 	-> Returns a listing
		l.GET("/:id/", jwt, with(listing.ListingFetch))

		// PATCH /api/listings/:id/ 	-> Updates a listing owned by the user
		l.PATCH("/:id/", jwt, with(listing.ListingEdit))

		// DELETE /api/listings/:id/ 	-> Deletes a listing owned by the user
		l.DELETE("/:id/", jwt, with(listing.ListingDelete))

		// POST /api/listings/:id/hide/, /show/ -> Toggles public visibility
		l.POST("/:id/hide/", jwt, with(listing.ListingHide))
		l.POST("/:id/show/", jwt, with(listing.ListingShow))
	}

	f := m.Group("/favorites", jwt)
	{
		// GET /api/favorites/ 		-> The signed in user's favorites
		f.GET("/", with(favorite.FavoriteList))

		// POST /api/favorites/add/:listing_id/ 	-> Adds a favorite
		f.POST("/add/:listing_id/", with(favorite.FavoriteAdd))

		// POST /api/favorites/remove/:listing_id/ 	-> Removes a favorite
		f.POST("/remove/:listing_id/", with(favorite.FavoriteRemove))
	}

	return router
}
