package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pantry/backend/internal/metrics"
	"github.com/pageza/pantry/backend/internal/middleware"
	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/types"
)

const (
	msgMissingCredentials = "Please provide both email and password."
	msgEmailTaken         = "An account with that email already exists."
	msgAccountCreated     = "Account created. Please log in."
	msgInvalidCredentials = "Invalid email or password."
	msgWelcomeBack        = "Welcome back!"
	msgLoggedOut          = "You have been logged out."
)

type AuthHandler struct {
	authService    *service.AuthService
	sessionService *service.SessionService
	limiter        *middleware.RateLimiter
	metrics        *metrics.Metrics
	logger         *zap.Logger
	secureCookie   bool
}

// NewAuthHandler wires the account and session services. limiter may be nil.
func NewAuthHandler(
	authService *service.AuthService,
	sessionService *service.SessionService,
	limiter *middleware.RateLimiter,
	m *metrics.Metrics,
	logger *zap.Logger,
	secureCookie bool,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		sessionService: sessionService,
		limiter:        limiter,
		metrics:        m,
		logger:         logger,
		secureCookie:   secureCookie,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRoutes) {
	optional := middleware.OptionalSession(h.sessionService)

	router.GET("/auth", optional, h.AuthPage)
	router.POST("/signup", h.limiter.Middleware(), h.Signup)
	router.POST("/login", h.limiter.Middleware(), h.Login)
	router.POST("/logout", optional, h.Logout)
	router.GET("/dashboard", middleware.RequireSession(h.sessionService), h.Dashboard)
}

// AuthPage sends signed-in users to the dashboard
func (h *AuthHandler) AuthPage(c *gin.Context) {
	if _, ok := middleware.SessionClaims(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, types.AuthPageResponse{
		Page:   "auth",
		Signup: "/signup",
		Login:  "/login",
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCredentials})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		h.metrics.RecordSignup("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCredentials})
		return
	case errors.Is(err, service.ErrEmailTaken):
		h.metrics.RecordSignup("duplicate")
		c.JSON(http.StatusConflict, gin.H{"error": msgEmailTaken})
		return
	case err != nil:
		h.metrics.RecordSignup("error")
		h.logger.Error("Signup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	h.metrics.RecordSignup("created")
	h.logger.Info("Account created", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusCreated, types.MessageResponse{Message: msgAccountCreated})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCredentials})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		h.metrics.RecordLogin("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingCredentials})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		h.metrics.RecordLogin("rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	case err != nil:
		h.metrics.RecordLogin("error")
		h.logger.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	token, err := h.sessionService.Issue(user)
	if err != nil {
		h.metrics.RecordLogin("error")
		h.logger.Error("Failed to issue session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	h.metrics.RecordLogin("success")
	h.setSessionCookie(c, token, int(h.sessionService.TTL().Seconds()))
	c.JSON(http.StatusOK, types.LoginResponse{Message: msgWelcomeBack, UserEmail: user.Email})
}

// Logout clears the cookie and, when a revocation store is configured,
// revokes the token so a copied cookie stops working too.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := middleware.SessionClaims(c); ok {
		if err := h.sessionService.Revoke(c.Request.Context(), claims); err != nil {
			h.logger.Warn("Failed to revoke session", zap.Error(err))
		}
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, types.MessageResponse{Message: msgLoggedOut})
}

func (h *AuthHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, types.DashboardResponse{UserEmail: c.GetString(middleware.ContextEmail)})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.secureCookie, true)
}
