package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

// actorFrom extracts the authenticated actor injected by the auth middleware.
func actorFrom(c echo.Context) ports.Actor {
	userID, _ := c.Get("user_id").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	return ports.Actor{UserID: userID, Email: email, Role: domain.Role(role)}
}
