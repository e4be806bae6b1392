package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"labstock-backend/internal/mw"
	"labstock-backend/internal/store"
)

// RouterOptions tune the request middleware.
type RouterOptions struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
	IPHeader        string
}

func (o RouterOptions) withDefaults() RouterOptions {
	if o.RateLimitPerSec <= 0 {
		o.RateLimitPerSec = 10
	}
	if o.RateLimitBurst <= 0 {
		o.RateLimitBurst = 5
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	return o
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, opts RouterOptions) *gin.Engine {
	opts = opts.withDefaults()
	r := gin.Default()

	handler := NewHandler(s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst, opts.IPHeader)

	// Catalog responses change rarely; cache them briefly.
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter, mw.Actor())
	{
		api.GET("/equipment", caching, handler.ListEquipment)
		api.GET("/equipment/:id", caching, handler.GetEquipment)

		api.POST("/orders", handler.CreateOrder)
		api.GET("/orders", handler.ListOrders)
		api.GET("/orders/:id", handler.GetOrder)
		api.PUT("/orders/:id", handler.UpdateOrder)
		api.DELETE("/orders/:id", handler.DeleteOrder)

		api.POST("/stocks", handler.CreateStock)
		api.GET("/stocks", handler.ListStocks)
		api.GET("/stocks/:id", handler.GetStock)
		api.PUT("/stocks/:id", handler.UpdateStock)
		api.DELETE("/stocks/:id", handler.DeleteStock)

		api.POST("/instances", handler.CreateInstance)
		api.GET("/instances", handler.ListInstances)
		api.GET("/instances/:id", handler.GetInstance)
		api.PUT("/instances/:id", handler.UpdateInstance)
		api.POST("/instances/:id/receive", handler.ReceiveInstance)
		api.DELETE("/instances/:id", handler.DeleteInstance)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
