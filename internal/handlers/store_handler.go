package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores, ratings and owner views.
type StoreHandler struct {
	storeService  *services.StoreService
	ratingService *services.RatingService
	validate      *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService, ratingService *services.RatingService) *StoreHandler {
	return &StoreHandler{
		storeService:  storeService,
		ratingService: ratingService,
		validate:      NewValidator(),
	}
}

// RegisterRoutes registers the store and owner routes. Every route requires auth.
func (h *StoreHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	ownerOrAdmin := middleware.RequireRoles(models.RoleOwner, models.RoleAdmin)

	storeRoutes := router.Group("/stores", auth)
	storeRoutes.Get("/", h.HandleGetStores)
	storeRoutes.Post("/", h.HandleCreateStore)
	storeRoutes.Post("/:storeId/rate", h.HandleRateStore)
	storeRoutes.Get("/owner/my-stores", ownerOrAdmin, h.HandleMyStores)
	storeRoutes.Get("/owner/:storeId/ratings", middleware.StoreOwnerOrAdmin(h.storeService, "storeId"), h.HandleStoreRatings)

	ownerRoutes := router.Group("/owner", auth, ownerOrAdmin)
	ownerRoutes.Get("/ratings", h.HandleOwnerDashboard)
}

// HandleGetStores returns every store with its average rating.
func (h *StoreHandler) HandleGetStores(c *fiber.Ctx) error {
	stores, err := h.storeService.ListStores(c.UserContext())
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(stores)
}

// CreateStoreRequest represents the request body for creating a store.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID string `json:"ownerId" validate:"omitempty,uuid"`
}

func (r CreateStoreRequest) store() *models.Store {
	return &models.Store{Name: r.Name, Address: r.Address}
}

// HandleCreateStore creates a store owned by the caller.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	var req CreateStoreRequest
	if body, ok := bindJSON(c, h.validate, &req); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(body)
	}

	store := req.store()
	if err := h.storeService.CreateOwnedStore(c.UserContext(), middleware.ClaimsFrom(c).ID, store); err != nil {
		return respondError(c, err, "Server error")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":     "Store created successfully",
		"storeId": store.ID,
	})
}

// Score is a rating value sent either as a JSON number or as a numeric string.
type Score int

// UnmarshalJSON accepts 4 and "4". Fractions and other strings are rejected.
func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("rating must be an integer, got %s", data)
	}
	*s = Score(n)
	return nil
}

// RateRequest represents the request body for rating a store.
type RateRequest struct {
	Rating   *Score `json:"rating"`
	Feedback string `json:"feedback"`
}

// HandleRateStore submits or updates the caller's rating of a store.
func (h *StoreHandler) HandleRateStore(c *fiber.Ctx) error {
	var req RateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "Invalid request body", "err": err.Error()})
	}

	created, err := h.ratingService.Submit(c.UserContext(), middleware.ClaimsFrom(c).ID, c.Params("storeId"), (*int)(req.Rating), req.Feedback)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	if created {
		return c.JSON(fiber.Map{"msg": "Rating submitted successfully"})
	}
	return c.JSON(fiber.Map{"msg": "Rating updated successfully"})
}

// HandleMyStores returns the stores owned by the caller.
func (h *StoreHandler) HandleMyStores(c *fiber.Ctx) error {
	stores, err := h.storeService.MyStores(c.UserContext(), middleware.ClaimsFrom(c).ID)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(stores)
}

// HandleStoreRatings returns one store's ratings with their aggregate.
func (h *StoreHandler) HandleStoreRatings(c *fiber.Ctx) error {
	ratings, err := h.storeService.StoreRatings(c.UserContext(), c.Params("storeId"))
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(ratings)
}

// HandleOwnerDashboard returns the caller's first store with its ratings.
func (h *StoreHandler) HandleOwnerDashboard(c *fiber.Ctx) error {
	store, ratings, err := h.storeService.OwnerDashboard(c.UserContext(), middleware.ClaimsFrom(c).ID)
	if err != nil {
		return respondError(c, err, "DB error")
	}
	return c.JSON(fiber.Map{
		"msg":       "Store owner dashboard data",
		"store":     fiber.Map{"id": store.ID, "name": store.Name},
		"ratings":   ratings.Ratings,
		"avgRating": ratings.AvgRating,
	})
}
