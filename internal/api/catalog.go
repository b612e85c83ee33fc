package api

import (
	"net/http"

	"storefront-service/internal/models"
	"storefront-service/internal/query"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getProducts(c *gin.Context) {
	params, err := ParseProductQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query",
			"details": err.Error(),
		})
		return
	}

	page, err := h.catalog.GetProducts(c.Request.Context(), params)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) getFeatured(c *gin.Context) {
	products, err := h.catalog.GetFeaturedProducts(c.Request.Context())
	h.respondProducts(c, products, err)
}

func (h *Handler) getTrending(c *gin.Context) {
	products, err := h.catalog.GetTrendingProducts(c.Request.Context())
	h.respondProducts(c, products, err)
}

func (h *Handler) getDealProducts(c *gin.Context) {
	products, err := h.catalog.GetDealsProducts(c.Request.Context())
	h.respondProducts(c, products, err)
}

func (h *Handler) getNewArrivals(c *gin.Context) {
	products, err := h.catalog.GetNewArrivals(c.Request.Context())
	h.respondProducts(c, products, err)
}

func (h *Handler) respondProducts(c *gin.Context, products []models.Product, err error) {
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getReviews(c *gin.Context) {
	reviews, err := h.catalog.GetProductReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type reviewRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"required"`
	UserName string `json:"userName"`
}

func (h *Handler) addReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	productID := c.Param("id")
	if _, ok := h.catalog.Store().Product(productID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	review := models.Review{
		ProductID: productID,
		UserName:  req.UserName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if user, err := currentSession(c).Auth.Current(); err == nil {
		review.UserID = user.ID
		if review.UserName == "" {
			review.UserName = user.FirstName + " " + user.LastName
		}
	}

	saved, err := h.catalog.AddReview(c.Request.Context(), review)
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) getCategories(c *gin.Context) {
	categories, err := h.catalog.GetCategories(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) getCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) getFilterOptions(c *gin.Context) {
	opts, err := h.catalog.GetFilterOptions(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

func (h *Handler) getSortOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": query.SortOptions})
}

func (h *Handler) getDeals(c *gin.Context) {
	deals, err := h.catalog.GetDeals(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deals": deals})
}

func (h *Handler) getBanners(c *gin.Context) {
	banners, err := h.catalog.GetBanners(c.Request.Context())
	if err != nil {
		h.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

// search is the type-ahead lookup. Overlapping searches of one session are
// sequenced; a response overtaken by a newer search is marked stale.
func (h *Handler) search(c *gin.Context) {
	sess := currentSession(c)
	term := c.Query("q")

	seq := sess.Search.Begin()
	results, err := h.catalog.SearchProducts(c.Request.Context(), term)
	if err != nil {
		h.catalogError(c, err)
		return
	}

	applied := sess.Search.Commit(seq, results)
	if !applied {
		util.StaleSearchesTotal.Inc()
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   term,
		"results": results,
		"stale":   !applied,
	})
}
