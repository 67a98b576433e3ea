package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/orders"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/ctxmanage"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/logkey"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func (h *Handler) PlaceOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	if c.Request.ContentLength > 64*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newOrder orders.NewOrder
	if err := c.ShouldBindJSON(&newOrder); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	validate := validator.New()
	if err := validate.Struct(newOrder); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			vErr := vErrs[0]
			switch vErr.Tag() {
			case "required":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
			case "oneof":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Payment method must be GCash or COD"})
			case "min":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
			default:
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
			}
			slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			return
		}
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	placed, err := h.oConf.PlaceOrder(c.Request.Context(), userID, newOrder)
	if err != nil {
		var stockErr *orders.InsufficientStockError
		if errors.As(err, &stockErr) {
			slog.Error("insufficient stock at checkout", slog.String(logkey.TraceID, traceId),
				slog.Int64(logkey.UserID, userID), slog.String("Product", stockErr.Product))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": stockErr.Error()})
			return
		}
		slog.Error("error in placing order", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	// The cart served its purpose once the order exists. Retiring it is best
	// effort: a failure here must not surface as a failed checkout.
	if err := h.cConf.MarkOrdered(c.Request.Context(), userID); err != nil {
		slog.Error("error in retiring cart after checkout", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.Int64(logkey.OrderID, placed.OrderID), slog.String(logkey.ERROR, err.Error()))
	}

	slog.Info("order placed", slog.String(logkey.TraceID, traceId),
		slog.Int64(logkey.UserID, userID), slog.Int64(logkey.OrderID, placed.OrderID))
	c.JSON(http.StatusOK, placed)
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	orderID, err := paramID(c, "orderId")
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	detail, err := h.oConf.GetOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error in fetching order", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) OrderTracking(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	trackingNumber := c.Param("trackingNumber")
	if trackingNumber == "" {
		slog.Error("missing tracking number", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Tracking number is required"})
		return
	}

	detail, err := h.oConf.GetByTrackingNumber(c.Request.Context(), trackingNumber, userID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error in fetching order by tracking number", slog.String(logkey.TraceID, traceId),
			slog.String("TrackingNumber", trackingNumber), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) AllOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	summaries, err := h.oConf.ListAll(c.Request.Context(), userID)
	if err != nil {
		slog.Error("error in listing orders", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": summaries})
}

func (h *Handler) OrderHistory(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	entries, err := h.oConf.History(c.Request.Context(), userID)
	if err != nil {
		slog.Error("error in fetching order history", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": entries})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	orderID, err := paramID(c, "orderId")
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	if err := h.oConf.CancelOrder(c.Request.Context(), orderID, userID); err != nil {
		if errors.Is(err, orders.ErrNotCancellable) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Order can no longer be cancelled"})
			return
		}
		slog.Error("error in cancelling order", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	slog.Info("order cancelled", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.OrderID, orderID))
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

func (h *Handler) OrderReceived(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	orderID, err := paramID(c, "orderId")
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	if err := h.oConf.MarkReceived(c.Request.Context(), orderID, userID); err != nil {
		if errors.Is(err, orders.ErrNotReceivable) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Order cannot be marked as received"})
			return
		}
		slog.Error("error in marking order received", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order marked as received"})
}

func (h *Handler) ReturnOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	orderID, err := paramID(c, "orderId")
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Reasons []string `json:"reasons" validate:"required,min=1"`
		Comment string   `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "At least one return reason is required"})
		return
	}

	if err := h.oConf.RequestReturn(c.Request.Context(), orderID, userID, req.Reasons, req.Comment); err != nil {
		if errors.Is(err, orders.ErrNotReturnable) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Order cannot be returned"})
			return
		}
		if errors.Is(err, orders.ErrUnknownReason) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown return reason"})
			return
		}
		slog.Error("error in returning order", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to return order"})
		return
	}

	slog.Info("order returned", slog.String(logkey.TraceID, traceId), slog.Int64(logkey.OrderID, orderID))
	c.JSON(http.StatusOK, gin.H{"message": "Return requested"})
}

func (h *Handler) SubmitRatings(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	orderID, err := paramID(c, "orderId")
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Ratings  map[int64]int `json:"ratings" validate:"required,min=1"`
		Feedback string        `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}
	if len(req.Ratings) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "At least one rating is required"})
		return
	}

	if err := h.oConf.SubmitRatings(c.Request.Context(), orderID, userID, req.Ratings, req.Feedback); err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrNotOwned):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Order belongs to another user"})
		case errors.Is(err, orders.ErrAlreadyRated):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Order has already been rated"})
		default:
			slog.Error("error in submitting ratings", slog.String(logkey.TraceID, traceId),
				slog.Int64(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit ratings"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ratings submitted"})
}

// UpdateOrderStatus is the staff endpoint that moves an order along the
// fulfilment path.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	orderID, err := paramID(c, "orderId")
	if err != nil {
		slog.Error("invalid order id", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	target, ok := orders.ParseStatus(req.Status)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	if err := h.oConf.UpdateStatus(c.Request.Context(), orderID, target); err != nil {
		if errors.Is(err, orders.ErrInvalidTransition) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Order cannot move to that status"})
			return
		}
		slog.Error("error in updating order status", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.OrderID, orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	slog.Info("order status updated", slog.String(logkey.TraceID, traceId),
		slog.Int64(logkey.OrderID, orderID), slog.String("Status", string(target)))
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}
