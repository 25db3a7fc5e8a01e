package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

type AlertHandler struct {
	portal ports.PortalService
}

func NewAlertHandler(portal ports.PortalService) *AlertHandler {
	return &AlertHandler{portal: portal}
}

// List handles GET /v1/alerts.
//
// @Summary      List emergency alerts
// @Tags         alerts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.EmergencyAlert
// @Router       /v1/alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	alerts, err := h.portal.ListAlerts(c.Request().Context())
	if err != nil {
		return err
	}
	if alerts == nil {
		alerts = []domain.EmergencyAlert{}
	}
	return c.JSON(http.StatusOK, alerts)
}

type createAlertRequest struct {
	IncidentType   string               `json:"incident_type" validate:"required"`
	Location       string               `json:"location"`
	Description    string               `json:"description"`
	MedicalSummary domain.MedicalRecord `json:"medical_summary"`
}

// Create handles POST /v1/alerts.
//
// @Summary      Raise an emergency alert
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.EmergencyAlert
// @Router       /v1/alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	var req createAlertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alert, err := h.portal.CreateAlert(c.Request().Context(), actorFrom(c), ports.CreateAlertInput{
		IncidentType: req.IncidentType,
		Location:     req.Location,
		Description:  req.Description,
	}, req.MedicalSummary)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, alert)
}

// Delete handles DELETE /v1/alerts/:id. Admin only (RBAC middleware plus the
// service-level check).
func (h *AlertHandler) Delete(c echo.Context) error {
	if err := h.portal.DeleteAlert(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
