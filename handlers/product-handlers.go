package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/ctxmanage"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/logkey"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	products, err := h.pConf.ListProducts(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) ProductsByCategory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	category := c.Param("category")
	if category == "" {
		slog.Error("missing category in request", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}

	products, err := h.pConf.ListByCategory(c.Request.Context(), category)
	if err != nil {
		slog.Error("error in fetching products by category", slog.String(logkey.TraceID, traceId),
			slog.String("Category", category), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) LimitedItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	products, err := h.pConf.ListLimitedItems(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching limited items", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch limited items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) Categories(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	categories, err := h.pConf.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("error in fetching categories", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) Search(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	rawQuery := c.Query("q")
	if rawQuery == "" {
		slog.Error("missing search query", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	products, err := h.pConf.Search(c.Request.Context(), rawQuery)
	if err != nil {
		slog.Error("error in searching products", slog.String(logkey.TraceID, traceId),
			slog.String("Query", rawQuery), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}
