package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/auth"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/users"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/ctxmanage"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/pkg/logkey"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const authCookieName = "authToken"

func (h *Handler) Signup(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId), slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var newUser users.NewUser
	if err := c.ShouldBindJSON(&newUser); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	validate := validator.New()
	if err := validate.Struct(newUser); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			vErr := vErrs[0]
			switch vErr.Tag() {
			case "required":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value missing"})
			case "min":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": vErr.Field() + " value is less than " + vErr.Param()})
			case "email":
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
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

	passwordHash, err := auth.HashPassword(newUser.Password)
	if err != nil {
		slog.Error("error in hashing password", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	result, err := h.uConf.Register(c.Request.Context(), newUser, passwordHash)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			slog.Error("email already in use", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email is already in use"})
			return
		}
		slog.Error("error in registering user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Signup failed"})
		return
	}

	h.issueToken(c, traceId, result)
}

func (h *Handler) Signin(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var credentials struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.ShouldBindJSON(&credentials); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	validate := validator.New()
	if err := validate.Struct(credentials); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.uConf.Authenticate(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			slog.Error("invalid credentials", slog.String(logkey.TraceID, traceId))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		slog.Error("error in authenticating user", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Signin failed"})
		return
	}

	h.issueToken(c, traceId, result)
}

// issueToken signs the JWT for an authenticated account and returns it both in
// the body and as an httpOnly cookie.
func (h *Handler) issueToken(c *gin.Context, traceId string, result users.AuthResult) {
	token, err := h.keys.GenerateToken(strconv.FormatInt(result.UserID, 10), result.Role)
	if err != nil {
		slog.Error("error in generating token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	c.SetCookie(authCookieName, token, int(auth.TokenExpiry.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user_id":   result.UserID,
		"firstName": result.FirstName,
	})
}

// CheckAuth reports whether the caller presents a valid token, without
// requiring one. The storefront polls this on page load.
func (h *Handler) CheckAuth(c *gin.Context) {
	tokenString := ""
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	} else if cookie, err := c.Cookie(authCookieName); err == nil {
		tokenString = cookie
	}
	if tokenString == "" {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	if _, err := h.keys.ValidateToken(tokenString); err != nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": true})
}

func (h *Handler) Logout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	if err := h.uConf.Logout(c.Request.Context(), userID); err != nil {
		slog.Error("error in recording logout", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.SetCookie(authCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) GetUser(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	_, userID, ok := currentUser(c)
	if !ok {
		slog.Error("claims missing from request context", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": http.StatusText(http.StatusUnauthorized)})
		return
	}

	profile, err := h.uConf.GetProfile(c.Request.Context(), userID)
	if err != nil {
		slog.Error("error in fetching profile", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, userID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
