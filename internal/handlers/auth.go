package handlers

import (
	"errors"
	"log"
	"net/http"

	"wanderlog/internal/middleware"
	"wanderlog/internal/models"
	"wanderlog/internal/repositories"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers the unprotected auth routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// Register handles user registration. Email and username must both be unused.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Username == "" {
		req.Username = req.Name
	}

	if _, err := h.userRepository.GetUserByEmail(req.Email); err == nil {
		return models.NewConflictError("A user with this email already exists")
	}
	if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		return models.NewConflictError("A user with this username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	if err := h.userRepository.CreateUser(user); err != nil {
		return err
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// Login handles credential-based authentication. Unknown email and wrong
// password produce the identical response; the distinction lands in the log.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("login failed: no user for email %s", req.Email)
			return models.NewUnauthorizedError("Invalid email or password")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Printf("login failed: password mismatch for user %d", user.ID)
		return models.NewUnauthorizedError("Invalid email or password")
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User logged in successfully",
		"token":   token,
		"user":    user,
	})
}
