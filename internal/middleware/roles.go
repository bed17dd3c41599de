package middleware

import (
	"context"
	"errors"

	"storerate/internal/apperrors"
	"storerate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoles lets the request through when the caller holds one of roles.
// It must run after AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return reject(c, errNoToken)
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return reject(c, apperrors.Forbidden(deniedMessage(roles)))
	}
}

func deniedMessage(roles []models.Role) string {
	if len(roles) == 1 && roles[0] == models.RoleAdmin {
		return "Access denied, admin only"
	}
	return "Access denied for your role"
}

// StoreOwnerLookup resolves the owning user of a store; nil means unassigned.
type StoreOwnerLookup interface {
	OwnerOf(ctx context.Context, storeID string) (*string, error)
}

// StoreOwnerOrAdmin admits admins and the owner of the store named by the
// route parameter param. It must run after AuthRequired.
func StoreOwnerOrAdmin(stores StoreOwnerLookup, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return reject(c, errNoToken)
		}

		ownerID, err := stores.OwnerOf(c.UserContext(), c.Params(param))
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return reject(c, apperrors.Wrap(apperrors.ErrNotFound, "Store not found", err))
		case err != nil:
			return reject(c, err)
		}

		if claims.Role == models.RoleAdmin {
			return c.Next()
		}
		if ownerID == nil {
			return reject(c, apperrors.Forbidden("This store has no owner assigned"))
		}
		if *ownerID != claims.ID {
			return reject(c, apperrors.Forbidden("Not authorized for this store"))
		}
		return c.Next()
	}
}

// reject writes err with the status of its kind. Lookup failures carry the
// raw error text.
func reject(c *fiber.Ctx, err error) error {
	status := apperrors.Status(err)
	body := fiber.Map{"msg": apperrors.Message(err, "DB error")}
	if status == fiber.StatusInternalServerError {
		body["err"] = err.Error()
	}
	return c.Status(status).JSON(body)
}
