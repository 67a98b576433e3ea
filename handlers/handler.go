// Package handlers wires the HTTP surface of the storefront: route
// registration, request decoding/validation, and mapping domain errors onto
// status codes.
package handlers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/auth"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/cart"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/orders"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/products"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/users"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/middleware"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/ctxmanage"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	keys  *auth.Keys
	uConf users.Conf
	pConf products.Conf
	cConf cart.Conf
	oConf orders.Conf
}

func NewHandler(keys *auth.Keys, uConf users.Conf, pConf products.Conf, cConf cart.Conf, oConf orders.Conf) *Handler {
	return &Handler{
		keys:  keys,
		uConf: uConf,
		pConf: pConf,
		cConf: cConf,
		oConf: oConf,
	}
}

func API(endpointPrefix string, keys *auth.Keys, uConf users.Conf, pConf products.Conf,
	cConf cart.Conf, oConf orders.Conf) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m, err := middleware.NewMid(keys)
	if err != nil {
		panic(err)
	}

	h := NewHandler(keys, uConf, pConf, cConf, oConf)
	r.Use(middleware.Logger(), gin.Recovery())

	r.GET("/ping", healthCheck)
	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/signup", h.Signup)
		v1.POST("/signin", h.Signin)
		v1.GET("/check-auth", h.CheckAuth)

		v1.GET("/products", h.ListProducts)
		v1.GET("/products/category/:category", h.ProductsByCategory)
		v1.GET("/limited-items", h.LimitedItems)
		v1.GET("/categories", h.Categories)
		v1.GET("/search", h.Search)

		v1.Use(m.Authentication())
		v1.GET("/user", h.GetUser)
		v1.POST("/logout", h.Logout)

		v1.GET("/cart", h.GetCart)
		v1.POST("/cart/add", h.AddToCart)
		v1.PUT("/cart/update", h.UpdateCart)
		v1.DELETE("/cart/remove/:productId", h.RemoveFromCart)
		v1.DELETE("/cart", h.ClearCart)

		v1.POST("/place-order", h.PlaceOrder)
		v1.GET("/order/:orderId", h.GetOrder)
		v1.GET("/order-tracking/:trackingNumber", h.OrderTracking)
		v1.GET("/all-orders", h.AllOrders)
		v1.GET("/order-history", h.OrderHistory)
		v1.POST("/cancel-order/:orderId", h.CancelOrder)
		v1.POST("/order-received/:orderId", h.OrderReceived)
		v1.POST("/return-order/:orderId", h.ReturnOrder)
		v1.POST("/submit-ratings/:orderId", h.SubmitRatings)

		v1.PUT("/orders/:orderId/status", m.Authorize(h.UpdateOrderStatus, auth.RoleAdmin))
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentUser returns the authenticated caller's claims and numeric id.
func currentUser(c *gin.Context) (auth.Claims, int64, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		return auth.Claims{}, 0, false
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return auth.Claims{}, 0, false
	}
	return claims, userID, true
}

// paramID parses a numeric path parameter.
func paramID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
