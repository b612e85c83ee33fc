package api

import (
	"context"
	"errors"
	"net/http"

	"storefront-service/internal/admin"
	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/models"
	"storefront-service/internal/notify"
	"storefront-service/internal/order"
	"storefront-service/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cartView struct {
	cart.State
	Summary cart.Summary `json:"summary"`
}

func viewCart(s cart.State) cartView {
	return cartView{State: s, Summary: s.Summarize()}
}

// run handles one session event and returns the notices it raised
func run(c *gin.Context, sess *session.Session, fn func(ctx context.Context)) []notify.Notice {
	var notices []notify.Notice
	sess.Do(c.Request.Context(), func(ctx context.Context) {
		sess.Notices.Drain()
		fn(ctx)
		notices = sess.Notices.Drain()
	})
	return notices
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cart": viewCart(currentSession(c).Cart.State())})
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, ok := h.catalog.Store().Product(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	sess := currentSession(c)
	var added bool
	notices := run(c, sess, func(ctx context.Context) {
		added = sess.Cart.AddToCart(ctx, product, req.Size, req.Color, req.Quantity)
	})

	c.JSON(http.StatusOK, gin.H{
		"added":   added,
		"cart":    viewCart(sess.Cart.State()),
		"notices": notices,
	})
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess := currentSession(c)
	notices := run(c, sess, func(ctx context.Context) {
		sess.Cart.UpdateQuantity(ctx, c.Param("id"), *req.Quantity)
	})
	c.JSON(http.StatusOK, gin.H{"cart": viewCart(sess.Cart.State()), "notices": notices})
}

func (h *Handler) removeCartItem(c *gin.Context) {
	sess := currentSession(c)
	notices := run(c, sess, func(ctx context.Context) {
		sess.Cart.RemoveFromCart(ctx, c.Param("id"))
	})
	c.JSON(http.StatusOK, gin.H{"cart": viewCart(sess.Cart.State()), "notices": notices})
}

func (h *Handler) clearCart(c *gin.Context) {
	h.cartCommand(c, func(ctx context.Context, m *cart.Machine) { m.ClearCart(ctx) })
}

func (h *Handler) toggleCart(c *gin.Context) {
	h.cartCommand(c, func(ctx context.Context, m *cart.Machine) { m.ToggleCart(ctx) })
}

func (h *Handler) openCart(c *gin.Context) {
	h.cartCommand(c, func(ctx context.Context, m *cart.Machine) { m.OpenCart(ctx) })
}

func (h *Handler) closeCart(c *gin.Context) {
	h.cartCommand(c, func(ctx context.Context, m *cart.Machine) { m.CloseCart(ctx) })
}

func (h *Handler) cartCommand(c *gin.Context, fn func(ctx context.Context, m *cart.Machine)) {
	sess := currentSession(c)
	notices := run(c, sess, func(ctx context.Context) { fn(ctx, sess.Cart) })
	c.JSON(http.StatusOK, gin.H{"cart": viewCart(sess.Cart.State()), "notices": notices})
}

func wishlistView(sess *session.Session) gin.H {
	items := sess.Wishlist.Items()
	return gin.H{"items": items, "count": len(items)}
}

func (h *Handler) getWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"wishlist": wishlistView(currentSession(c))})
}

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *Handler) bindWishlistProduct(c *gin.Context) (models.Product, bool) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return models.Product{}, false
	}
	product, ok := h.catalog.Store().Product(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return models.Product{}, false
	}
	return product, true
}

func (h *Handler) addWishlistItem(c *gin.Context) {
	product, ok := h.bindWishlistProduct(c)
	if !ok {
		return
	}

	sess := currentSession(c)
	var added bool
	notices := run(c, sess, func(ctx context.Context) {
		added = sess.Wishlist.AddToWishlist(ctx, product)
	})
	c.JSON(http.StatusOK, gin.H{"added": added, "wishlist": wishlistView(sess), "notices": notices})
}

func (h *Handler) toggleWishlist(c *gin.Context) {
	product, ok := h.bindWishlistProduct(c)
	if !ok {
		return
	}

	sess := currentSession(c)
	var saved bool
	notices := run(c, sess, func(ctx context.Context) {
		saved = sess.Wishlist.ToggleWishlist(ctx, product)
	})
	c.JSON(http.StatusOK, gin.H{"saved": saved, "wishlist": wishlistView(sess), "notices": notices})
}

func (h *Handler) removeWishlistItem(c *gin.Context) {
	sess := currentSession(c)
	var removed bool
	notices := run(c, sess, func(ctx context.Context) {
		removed = sess.Wishlist.RemoveFromWishlist(ctx, c.Param("productId"))
	})
	c.JSON(http.StatusOK, gin.H{"removed": removed, "wishlist": wishlistView(sess), "notices": notices})
}

func (h *Handler) clearWishlist(c *gin.Context) {
	sess := currentSession(c)
	notices := run(c, sess, func(ctx context.Context) {
		sess.Wishlist.ClearWishlist(ctx)
	})
	c.JSON(http.StatusOK, gin.H{"wishlist": wishlistView(sess), "notices": notices})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess := currentSession(c)
	var ok bool
	notices := run(c, sess, func(ctx context.Context) {
		ok = sess.Auth.Login(ctx, req.Email, req.Password)
	})
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed", "notices": notices})
		return
	}

	user, _ := sess.Auth.Current()
	c.JSON(http.StatusOK, gin.H{"user": user, "notices": notices})
}

func (h *Handler) register(c *gin.Context) {
	var req auth.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess := currentSession(c)
	var user models.User
	var err error
	notices := run(c, sess, func(ctx context.Context) {
		user, err = sess.Auth.Register(ctx, req)
	})
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "notices": notices})
}

func (h *Handler) logout(c *gin.Context) {
	sess := currentSession(c)
	notices := run(c, sess, func(ctx context.Context) {
		sess.Auth.Logout(ctx)
	})
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

func (h *Handler) me(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req auth.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess := currentSession(c)
	var updated bool
	var err error
	notices := run(c, sess, func(ctx context.Context) {
		updated, err = sess.Auth.UpdateProfile(ctx, req)
	})
	if err != nil {
		badRequest(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, _ := sess.Auth.Current()
	c.JSON(http.StatusOK, gin.H{"user": user, "notices": notices})
}

func requireUser(c *gin.Context) (models.User, bool) {
	user, err := currentSession(c).Auth.Current()
	if errors.Is(err, auth.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return models.User{}, false
	}
	return user, true
}

func (h *Handler) placeOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	var req order.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess := currentSession(c)
	var placed *models.Order
	var err error
	notices := run(c, sess, func(ctx context.Context) {
		placed, err = h.orders.PlaceOrder(ctx, sess.Notifier, user, sess.Cart, req)
	})

	switch {
	case errors.Is(err, order.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty", "notices": notices})
	case err != nil:
		h.logger.Error("Failed to place order", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to place order",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusCreated, gin.H{"order": placed, "notices": notices})
	}
}

func (h *Handler) listOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	orders, err := h.orders.GetUserOrders(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list orders",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) adminOverview(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	ov, err := h.admin.Overview(c.Request.Context(), user)
	switch {
	case errors.Is(err, admin.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to build overview",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, ov)
	}
}
