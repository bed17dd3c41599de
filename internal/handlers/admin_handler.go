package handlers

import (
	"storerate/internal/listing"
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin-only HTTP requests.
type AdminHandler struct {
	authService      *services.AuthService
	userService      *services.UserService
	storeService     *services.StoreService
	ratingService    *services.RatingService
	dashboardService *services.DashboardService
	validate         *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	authService *services.AuthService,
	userService *services.UserService,
	storeService *services.StoreService,
	ratingService *services.RatingService,
	dashboardService *services.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		authService:      authService,
		userService:      userService,
		storeService:     storeService,
		ratingService:    ratingService,
		dashboardService: dashboardService,
		validate:         NewValidator(),
	}
}

// RegisterRoutes registers the admin routes behind auth and the admin role gate.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	adminRoutes := router.Group("/admin", auth, middleware.RequireRoles(models.RoleAdmin))
	adminRoutes.Get("/dashboard-summary", h.HandleDashboardSummary)
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Get("/admin-users", h.HandleListAdminUsers)
	adminRoutes.Get("/stores", h.HandleListStores)
	adminRoutes.Get("/ratings", h.HandleListRatings)
	adminRoutes.Post("/add-user", h.accountCreator(models.RoleNormal, "User added successfully"))
	adminRoutes.Post("/add-admin-user", h.accountCreator(models.RoleAdmin, "Admin user added successfully"))
	adminRoutes.Post("/add-store-owner", h.accountCreator(models.RoleOwner, "Store owner created successfully"))
	adminRoutes.Post("/addStore", h.HandleAddStore)
	adminRoutes.Put("/assign-store-owner", h.HandleAssignStoreOwner)
}

// HandleDashboardSummary returns the user, store and rating totals.
func (h *AdminHandler) HandleDashboardSummary(c *fiber.Ctx) error {
	summary, err := h.dashboardService.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(fiber.Map{
		"msg":  "Admin dashboard data",
		"data": summary,
	})
}

func parseListing(c *fiber.Ctx, filter interface{}) (listing.Request, error) {
	var req listing.Request
	if err := c.QueryParser(&req); err != nil {
		return req, err
	}
	return req, c.QueryParser(filter)
}

func pageResponse[T any](msg, key string, page listing.Page[T]) fiber.Map {
	return fiber.Map{
		"msg":   msg,
		"page":  page.Page,
		"limit": page.Limit,
		"total": page.Total,
		key:     page.Items,
	}
}

// HandleListUsers lists normal users with filters and pagination.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	var filter repositories.UserFilter
	req, err := parseListing(c, &filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid query", "err": err.Error()})
	}
	page, err := h.userService.ListNormalUsers(c.UserContext(), filter, req)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(pageResponse("List of normal users", "users", page))
}

// HandleListAdminUsers lists admin and owner users with filters and pagination.
func (h *AdminHandler) HandleListAdminUsers(c *fiber.Ctx) error {
	var filter repositories.UserFilter
	req, err := parseListing(c, &filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid query", "err": err.Error()})
	}
	page, err := h.userService.ListStaffUsers(c.UserContext(), filter, req)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(pageResponse("List of admin users", "adminUsers", page))
}

// HandleListStores lists stores with filters and pagination.
func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	var filter repositories.StoreFilter
	req, err := parseListing(c, &filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid query", "err": err.Error()})
	}
	page, err := h.storeService.ListPage(c.UserContext(), filter, req)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(pageResponse("List of all stores", "stores", page))
}

// HandleListRatings lists every rating, newest first.
func (h *AdminHandler) HandleListRatings(c *fiber.Ctx) error {
	ratings, err := h.ratingService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(fiber.Map{
		"msg":     "List of all ratings",
		"ratings": ratings,
	})
}

// AccountRequest represents the request body of the admin account routes.
type AccountRequest struct {
	Username string  `json:"username" validate:"required,min=20,max=60"`
	Email    string  `json:"email" validate:"required,basic_email"`
	Address  *string `json:"address" validate:"omitempty,max=400"`
	Password string  `json:"password" validate:"required,password_policy"`
}

// accountCreator returns a handler creating accounts with a fixed role.
func (h *AdminHandler) accountCreator(role models.Role, successMsg string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AccountRequest
		if body, ok := bindJSON(c, h.validate, &req); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}

		user := &models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			Address:  req.Address,
			Role:     role,
		}
		if err := h.authService.RegisterUser(c.UserContext(), user, "Email already in use"); err != nil {
			return respondError(c, err, "DB error")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"msg":    successMsg,
			"userId": user.ID,
		})
	}
}

// HandleAddStore creates a store, optionally assigned to an owner.
func (h *AdminHandler) HandleAddStore(c *fiber.Ctx) error {
	var req CreateStoreRequest
	if body, ok := bindJSON(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	store := req.store()
	if req.OwnerID != "" {
		store.OwnerID = &req.OwnerID
	}
	if err := h.storeService.CreateStore(c.UserContext(), store); err != nil {
		return respondError(c, err, "Error creating store")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":   "Store created successfully",
		"store": store,
	})
}

// AssignOwnerRequest represents the request body for reassigning a store.
type AssignOwnerRequest struct {
	StoreID string `json:"storeId" validate:"required"`
	OwnerID string `json:"ownerId" validate:"required"`
}

// HandleAssignStoreOwner reassigns a store to a user holding the owner role.
func (h *AdminHandler) HandleAssignStoreOwner(c *fiber.Ctx) error {
	var req AssignOwnerRequest
	if body, ok := bindJSON(c, h.validate, &req); !ok {
		body["msg"] = "Store ID and Owner ID are required"
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	if err := h.storeService.AssignOwner(c.UserContext(), req.StoreID, req.OwnerID); err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(fiber.Map{"msg": "Store owner assigned successfully"})
}
