package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/dto"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/SscSPs/orders_sync_app/internal/platform/config"
	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// loginRateLimit is the per-IP limit of the login endpoint.
const loginRateLimit = "5-M"

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	adminUsername     string
	adminPasswordHash string
	jwtSecret         string
	jwtDuration       time.Duration
	jwtIssuer         string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: cfg.AdminPasswordHash,
		jwtSecret:         cfg.JWTSecret,
		jwtDuration:       cfg.JWTExpiryDuration,
		jwtIssuer:         cfg.JWTIssuer,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterAuthRoutes sets up the login route behind its own rate limit.
func RegisterAuthRoutes(r *gin.Engine, cfg *config.Config) error {
	h := NewAuthHandler(cfg)

	ipLimiter, err := middleware.NewIPRateLimiter(loginRateLimit)
	if err != nil {
		return err
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.Login)
	}
	return nil
}

// Login godoc
// @Summary Admin login
// @Description Authenticates the admin and returns a JWT token for the management endpoints.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !utils.CheckAdminCredentials(req.Username, req.Password, h.adminUsername, h.adminPasswordHash) {
		logger.Warn("Failed admin login", slog.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}

	token, err := utils.GenerateJWT(req.Username, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Admin logged in", slog.String("username", req.Username))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}
