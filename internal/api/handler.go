package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/admin"
	"storefront-service/internal/catalog"
	"storefront-service/internal/order"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "sid"
	sessionKey    = "session"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog  *catalog.API
	sessions *session.Registry
	orders   *order.Service
	admin    *admin.Service
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalogAPI *catalog.API, sessions *session.Registry, orders *order.Service, adminService *admin.Service) *Handler {
	return &Handler{
		catalog:  catalogAPI,
		sessions: sessions,
		orders:   orders,
		admin:    adminService,
		logger:   util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine, corsOrigins []string) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", sessionHeader},
		ExposeHeaders:    []string{"Content-Length", sessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", h.getProducts)
			products.GET("/featured", h.getFeatured)
			products.GET("/trending", h.getTrending)
			products.GET("/deals", h.getDealProducts)
			products.GET("/new-arrivals", h.getNewArrivals)
			products.GET("/:id", h.getProduct)
			products.GET("/:id/reviews", h.getReviews)
			products.POST("/:id/reviews", h.withSession(), h.addReview)
		}

		v1.GET("/categories", h.getCategories)
		v1.GET("/categories/:slug", h.getCategory)
		v1.GET("/filters", h.getFilterOptions)
		v1.GET("/sort-options", h.getSortOptions)
		v1.GET("/deals", h.getDeals)
		v1.GET("/banners", h.getBanners)

		shop := v1.Group("", h.withSession())
		{
			shop.GET("/search", h.search)

			shop.GET("/cart", h.getCart)
			shop.DELETE("/cart", h.clearCart)
			shop.POST("/cart/items", h.addCartItem)
			shop.PATCH("/cart/items/:id", h.updateCartItem)
			shop.DELETE("/cart/items/:id", h.removeCartItem)
			shop.POST("/cart/toggle", h.toggleCart)
			shop.POST("/cart/open", h.openCart)
			shop.POST("/cart/close", h.closeCart)

			shop.GET("/wishlist", h.getWishlist)
			shop.DELETE("/wishlist", h.clearWishlist)
			shop.POST("/wishlist/items", h.addWishlistItem)
			shop.DELETE("/wishlist/items/:productId", h.removeWishlistItem)
			shop.POST("/wishlist/toggle", h.toggleWishlist)

			shop.POST("/auth/login", h.login)
			shop.POST("/auth/register", h.register)
			shop.POST("/auth/logout", h.logout)
			shop.GET("/auth/me", h.me)
			shop.PATCH("/auth/me", h.updateProfile)

			shop.POST("/orders", h.placeOrder)
			shop.GET("/orders", h.listOrders)

			shop.GET("/admin/overview", h.adminOverview)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"sessions": h.sessions.Len(),
		"time":     time.Now().Unix(),
	})
}

// withSession resolves the shopper's session from the X-Session-ID header
// or the sid cookie, starting a new one when neither is present.
func (h *Handler) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}
		if id == "" {
			id = uuid.New().String()
			c.SetCookie(sessionCookie, id, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
		}
		c.Header(sessionHeader, id)

		c.Set(sessionKey, h.sessions.Get(c.Request.Context(), id))
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// catalogError maps a failed catalog call to a response
func (h *Handler) catalogError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	h.logger.Warn("Catalog request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(status, gin.H{
		"error":   "Catalog request failed",
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
