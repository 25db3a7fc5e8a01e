package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

type InpatientHandler struct {
	portal ports.PortalService
}

func NewInpatientHandler(portal ports.PortalService) *InpatientHandler {
	return &InpatientHandler{portal: portal}
}

// List handles GET /v1/inpatients.
func (h *InpatientHandler) List(c echo.Context) error {
	inpatients, err := h.portal.ListInpatients(c.Request().Context())
	if err != nil {
		return err
	}
	if inpatients == nil {
		inpatients = []domain.Inpatient{}
	}
	return c.JSON(http.StatusOK, inpatients)
}

type createInpatientRequest struct {
	PatientID     string               `json:"patient_id"`
	Name          string               `json:"name" validate:"required"`
	Ward          string               `json:"ward" validate:"required"`
	Bed           string               `json:"bed"`
	MedicalRecord domain.MedicalRecord `json:"medical_record"`
	SourceAlertID string               `json:"source_alert_id"`
}

// Create handles POST /v1/inpatients.
func (h *InpatientHandler) Create(c echo.Context) error {
	var req createInpatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.portal.CreateInpatient(c.Request().Context(), actorFrom(c), ports.CreateInpatientInput{
		PatientID:     req.PatientID,
		Name:          req.Name,
		Ward:          req.Ward,
		Bed:           req.Bed,
		MedicalRecord: req.MedicalRecord,
		SourceAlertID: req.SourceAlertID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Delete handles DELETE /v1/inpatients/:id. Admin only.
func (h *InpatientHandler) Delete(c echo.Context) error {
	if err := h.portal.DeleteInpatient(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type updateInpatientStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=admitted critical stable recovering discharged"`
}

// UpdateStatus handles PATCH /v1/inpatients/:id/status.
func (h *InpatientHandler) UpdateStatus(c echo.Context) error {
	var req updateInpatientStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.portal.UpdateInpatientStatus(c.Request().Context(), c.Param("id"), domain.InpatientStatus(req.Status)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateRecord handles PATCH /v1/inpatients/:id/record.
func (h *InpatientHandler) UpdateRecord(c echo.Context) error {
	var record domain.MedicalRecord
	if err := c.Bind(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.portal.UpdateInpatientMedicalRecord(c.Request().Context(), c.Param("id"), record); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
