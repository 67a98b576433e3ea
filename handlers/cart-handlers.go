package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/cart"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/ctxmanage"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/logkey"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type cartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

func (h *Handler) GetCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	resp, err := h.cConf.GetActiveItems(c.Request.Context(), userID)
	if err != nil {
		slog.Error("error in fetching cart", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	item, ok := bindCartItem(c, traceId)
	if !ok {
		return
	}

	if err := h.cConf.AddItem(c.Request.Context(), userID, item.ProductID, item.Quantity); err != nil {
		slog.Error("error in adding cart item", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

func (h *Handler) UpdateCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	item, ok := bindCartItem(c, traceId)
	if !ok {
		return
	}

	if err := h.cConf.UpdateQuantity(c.Request.Context(), userID, item.ProductID, item.Quantity); err != nil {
		if errors.Is(err, cart.ErrNoActiveCart) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
			return
		}
		slog.Error("error in updating cart item", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	productID, err := paramID(c, "productId")
	if err != nil {
		slog.Error("invalid product id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.cConf.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, cart.ErrNoActiveCart) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
			return
		}
		slog.Error("error in removing cart item", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	if err := h.cConf.Clear(c.Request.Context(), userID); err != nil {
		if errors.Is(err, cart.ErrNoActiveCart) {
			c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
			return
		}
		slog.Error("error in clearing cart", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

func bindCartItem(c *gin.Context, traceId string) (cartItemRequest, bool) {
	var item cartItemRequest
	if err := c.ShouldBindJSON(&item); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return cartItemRequest{}, false
	}

	validate := validator.New()
	if err := validate.Struct(item); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Product ID and a quantity of at least 1 are required"})
		return cartItemRequest{}, false
	}
	return item, true
}
