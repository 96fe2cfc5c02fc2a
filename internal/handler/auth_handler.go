package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store"
	"duckfarm/pkg/jwtutil"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

// AuthHandler serves login and user registration.
type AuthHandler struct {
	store   store.Store
	jwtUtil *jwtutil.JWTUtil
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(st store.Store, jwtUtil *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{store: st, jwtUtil: jwtUtil}
}

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest defines the structure for user registration requests
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Login authenticates a user and returns a signed JWT
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginAttemptsCounter.Inc()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if req.Username == "" || req.Password == "" {
		return writeError(c, apperr.Invalid("username and password are required"))
	}

	user, err := h.store.FindUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		prometheus.LoginErrorsCounter.Inc()
		log.Warn("Login failed: user not found", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if !user.Active {
		prometheus.LoginErrorsCounter.Inc()
		log.Warn("Login failed: user inactive", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		prometheus.LoginErrorsCounter.Inc()
		log.Warn("Login failed: wrong password", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.jwtUtil.GenerateToken(user.Username, user.ID, string(user.Role))
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return writeError(c, apperr.Internal(err, "failed to generate token"))
	}

	prometheus.LoginSuccessCounter.Inc()
	log.Info("User logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		},
	})
}

// Register creates a new system user
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if req.Username == "" || req.Password == "" || req.Name == "" {
		return writeError(c, apperr.Invalid("username, password and name are required"))
	}

	role := model.UserRole(req.Role)
	if !role.Valid() {
		return writeError(c, apperr.Invalid("invalid role: %s", req.Role))
	}

	taken, err := h.store.UsernameExists(ctx, req.Username)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to check username"))
	}
	if taken {
		return writeError(c, apperr.Business(apperr.CodeUsernameTaken, "username %s is already in use", req.Username))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to hash password"))
	}

	user := model.NewUser(req.Username, string(hashed), req.Name, role)
	if err := h.store.CreateUser(ctx, user); err != nil {
		return writeError(c, apperr.Internal(err, "failed to create user"))
	}

	log.Info("User registered", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, user)
}
