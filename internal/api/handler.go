package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/service"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SessionHeader carries the cart session id
const SessionHeader = "X-Session-ID"

// Handler contains HTTP handlers
type Handler struct {
	catalogService *service.CatalogService
	cartService    *service.CartService
	ready          func() error
}

// NewHandler creates a new HTTP handler. ready may be nil.
func NewHandler(catalogService *service.CatalogService, cartService *service.CartService, ready func() error) *Handler {
	return &Handler{
		catalogService: catalogService,
		cartService:    cartService,
		ready:          ready,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/categories", h.listCategories)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/featured", h.featuredProducts)
		v1.GET("/products/new", h.newProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/related", h.relatedProducts)

		cart := v1.Group("/cart", sessionMiddleware())
		{
			cart.GET("", h.getCart)
			cart.DELETE("", h.clearCart)
			cart.POST("/items", h.addItem)
			cart.PATCH("/items/:id", h.updateItem)
			cart.DELETE("/items/:id", h.removeItem)
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

// readinessCheck reports whether the cart store is reachable
func (h *Handler) readinessCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not ready",
				"details": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.catalogService.Categories(),
	})
}

// listProducts handles ?category=&filter= listings
func (h *Handler) listProducts(c *gin.Context) {
	filter := h.catalogService.ResolveFilter(c.Query("category"), c.Query("filter"))
	c.JSON(http.StatusOK, h.catalogService.List(c.Request.Context(), filter))
}

func (h *Handler) featuredProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.catalogService.Featured(c.Request.Context()),
	})
}

func (h *Handler) newProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.catalogService.New(c.Request.Context()),
	})
}

// getProduct handles product detail lookups
func (h *Handler) getProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	product, err := h.catalogService.Product(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) relatedProducts(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	related, err := h.catalogService.Related(c.Request.Context(), productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": related,
	})
}

// AddItemRequest is the body of POST /cart/items. A missing quantity means 1.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  *int  `json:"quantity"`
}

// UpdateItemRequest is the body of PATCH /cart/items/:id
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) getCart(c *gin.Context) {
	summary, err := h.cartService.Summary(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) clearCart(c *gin.Context) {
	summary, err := h.cartService.ClearCart(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) addItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	summary, err := h.cartService.AddItem(c.Request.Context(), sessionID(c), req.ProductID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) updateItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	summary, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID(c), productID, *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) removeItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	summary, err := h.cartService.RemoveItem(c.Request.Context(), sessionID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func productIDParam(c *gin.Context) (int64, bool) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return productID, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "Product not found",
			"redirect": "/products",
		})
	case errors.Is(err, service.ErrInvalidSession):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID",
		})
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Cart temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal error",
			"details": err.Error(),
		})
	}
}

// sessionMiddleware assigns a session id when the client has none and
// echoes it back so the client can reuse it
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id = service.NewSessionID()
		}
		c.Set(SessionHeader, id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(SessionHeader)
}

// requestLogger logs each request through the service logger
func requestLogger() gin.HandlerFunc {
	logger := util.GetLogger()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Debug("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("session_id", sessionID(c)))
	}
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
