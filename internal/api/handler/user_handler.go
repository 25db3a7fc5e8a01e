package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

type UserHandler struct {
	portal ports.PortalService
}

func NewUserHandler(portal ports.PortalService) *UserHandler {
	return &UserHandler{portal: portal}
}

// Me handles GET /v1/users/me.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.portal.CurrentUser(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=patient doctor admin"`
}

// UpdateRole handles PATCH /v1/users/:id/role.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.portal.UpdateUserRole(c.Request().Context(), actorFrom(c), c.Param("id"), domain.Role(req.Role)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type updateProfileRequest struct {
	Name          *string               `json:"name,omitempty"`
	MedicalRecord *domain.MedicalRecord `json:"medical_record,omitempty"`
}

// UpdateProfile handles PATCH /v1/users/:id and returns the confirmed user.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.portal.UpdateUserProfile(c.Request().Context(), actorFrom(c), c.Param("id"), ports.ProfilePatch{
		Name:          req.Name,
		MedicalRecord: req.MedicalRecord,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
