package handlers

import (
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// AuthHandler handles account and self-service HTTP requests under /users.
type AuthHandler struct {
	authService   *services.AuthService
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, ratingService *services.RatingService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		ratingService: ratingService,
		validate:      NewValidator(),
	}
}

// RegisterRoutes registers the user routes. auth guards the non-public ones.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Get("/me", auth, h.HandleMe)
	userRoutes.Put("/change-password", auth, h.HandleChangePassword)
	userRoutes.Get("/myratings", auth, h.HandleMyRatings)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=20,max=60"`
	Email    string  `json:"email" validate:"required,basic_email"`
	Password string  `json:"password" validate:"required"`
	Address  *string `json:"address" validate:"omitempty,max=400"`
	Role     string  `json:"role" validate:"required,oneof=normal owner admin"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if body, ok := bindJSON(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     models.Role(req.Role),
	}
	if err := h.authService.RegisterUser(c.UserContext(), user, "User already exists"); err != nil {
		return respondError(c, err, "DB error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":    "User registered successfully",
		"userId": user.ID,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if body, ok := bindJSON(c, h.validate, &req); !ok {
		body["msg"] = "Please enter email and password"
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	token, user, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		log.WithField("email", req.Email).Debugf("Login failed: %v", err)
		return respondError(c, err, "DB error")
	}

	return c.JSON(fiber.Map{
		"msg":   "Login successful as " + string(user.Role),
		"token": token,
		"user":  user.Public(),
	})
}

// HandleMe echoes the caller's claims.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	claims := middleware.ClaimsFrom(c)
	return c.JSON(fiber.Map{
		"msg":  "Access granted",
		"user": fiber.Map{"id": claims.ID, "role": claims.Role},
	})
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password_policy"`
}

// HandleChangePassword replaces the caller's password after verifying the current one.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if body, ok := bindJSON(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	claims := middleware.ClaimsFrom(c)
	if err := h.authService.ChangePassword(c.UserContext(), claims.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(fiber.Map{"msg": "Password updated successfully"})
}

// HandleMyRatings lists the ratings the caller has submitted.
func (h *AuthHandler) HandleMyRatings(c *fiber.Ctx) error {
	ratings, err := h.ratingService.ListByUser(c.UserContext(), middleware.ClaimsFrom(c).ID)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(ratings)
}
