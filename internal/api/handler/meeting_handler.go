package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

type MeetingHandler struct {
	portal ports.PortalService
}

func NewMeetingHandler(portal ports.PortalService) *MeetingHandler {
	return &MeetingHandler{portal: portal}
}

// ListMeetings handles GET /v1/meetings.
func (h *MeetingHandler) ListMeetings(c echo.Context) error {
	meetings, err := h.portal.ListMeetings(c.Request().Context())
	if err != nil {
		return err
	}
	if meetings == nil {
		meetings = []domain.BoardMeeting{}
	}
	return c.JSON(http.StatusOK, meetings)
}

type createMeetingRequest struct {
	Title       string    `json:"title" validate:"required"`
	Agenda      string    `json:"agenda"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// CreateMeeting handles POST /v1/meetings.
func (h *MeetingHandler) CreateMeeting(c echo.Context) error {
	var req createMeetingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m, err := h.portal.CreateMeeting(c.Request().Context(), actorFrom(c), ports.CreateMeetingInput{
		Title:       req.Title,
		Agenda:      req.Agenda,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

// DeleteMeeting handles DELETE /v1/meetings/:id. Admin only.
func (h *MeetingHandler) DeleteMeeting(c echo.Context) error {
	if err := h.portal.DeleteMeeting(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSchedules handles GET /v1/schedules.
func (h *MeetingHandler) ListSchedules(c echo.Context) error {
	schedules, err := h.portal.ListSchedules(c.Request().Context())
	if err != nil {
		return err
	}
	if schedules == nil {
		schedules = []domain.ScheduleItem{}
	}
	return c.JSON(http.StatusOK, schedules)
}

type createScheduleRequest struct {
	PatientID string    `json:"patient_id" validate:"required"`
	DoctorID  string    `json:"doctor_id" validate:"required"`
	Reason    string    `json:"reason"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
}

// CreateSchedule handles POST /v1/schedules.
func (h *MeetingHandler) CreateSchedule(c echo.Context) error {
	var req createScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s, err := h.portal.CreateSchedule(c.Request().Context(), ports.CreateScheduleInput{
		PatientID: req.PatientID,
		Reason:    req.Reason,
		StartsAt:  req.StartsAt,
	}, req.DoctorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}
