package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

type PharmacyHandler struct {
	portal ports.PortalService
}

func NewPharmacyHandler(portal ports.PortalService) *PharmacyHandler {
	return &PharmacyHandler{portal: portal}
}

// ListStock handles GET /v1/pharmacy/stock.
func (h *PharmacyHandler) ListStock(c echo.Context) error {
	items, err := h.portal.ListPharmacyStock(c.Request().Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.PharmacyItem{}
	}
	return c.JSON(http.StatusOK, items)
}

type stockUpdateRequest struct {
	Items []stockItemUpdate `json:"items" validate:"required,min=1,dive"`
}

type stockItemUpdate struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// UpdateStock handles PATCH /v1/pharmacy/stock.
func (h *PharmacyHandler) UpdateStock(c echo.Context) error {
	var req stockUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updates := make([]ports.StockUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, ports.StockUpdate{ItemID: item.ItemID, Quantity: item.Quantity})
	}

	if err := h.portal.UpdatePharmacyStock(c.Request().Context(), updates); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPrescriptions handles GET /v1/prescriptions.
func (h *PharmacyHandler) ListPrescriptions(c echo.Context) error {
	prescriptions, err := h.portal.ListPrescriptions(c.Request().Context())
	if err != nil {
		return err
	}
	if prescriptions == nil {
		prescriptions = []domain.Prescription{}
	}
	return c.JSON(http.StatusOK, prescriptions)
}

type updatePrescriptionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active filled cancelled"`
}

// UpdatePrescriptionStatus handles PATCH /v1/prescriptions/:id/status.
func (h *PharmacyHandler) UpdatePrescriptionStatus(c echo.Context) error {
	var req updatePrescriptionStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.portal.UpdatePrescriptionStatus(c.Request().Context(), c.Param("id"), domain.PrescriptionStatus(req.Status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
