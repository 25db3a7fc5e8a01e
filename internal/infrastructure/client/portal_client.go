// Package client implements the remote persistence collaborator over the
// portal's REST API. Payload shapes are the domain entities; access control
// lives on the server side, this client only forwards the bearer token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

const defaultHTTPTimeout = 15 * time.Second

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// PortalClient is the HTTP implementation of ports.PortalClient.
type PortalClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

func New(baseURL string, tokens TokenSource) *PortalClient {
	return &PortalClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		tokens:  tokens,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// do issues one JSON request. A non-nil out is decoded from the response
// body; notFound is returned for 404s so callers surface their own sentinel.
func (c *PortalClient) do(ctx context.Context, method, path string, body, out any, notFound error) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("portal %s %s: encode: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("portal %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("portal %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("portal %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("portal %s %s: decode: %w", method, path, err)
		}
		return nil
	case res.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("portal %s %s: %w", method, path, domain.ErrInvalidCredentials)
	case res.StatusCode == http.StatusForbidden:
		return fmt.Errorf("portal %s %s: %w", method, path, domain.ErrForbidden)
	case res.StatusCode == http.StatusNotFound && notFound != nil:
		return fmt.Errorf("portal %s %s: %w", method, path, notFound)
	default:
		var er errorResponse
		_ = json.NewDecoder(res.Body).Decode(&er)
		if er.Error == "" {
			er.Error = res.Status
		}
		return fmt.Errorf("portal %s %s: %s", method, path, er.Error)
	}
}

// --- Users ---

func (c *PortalClient) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, &u, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *PortalClient) UpdateUserRole(ctx context.Context, id string, role domain.Role) error {
	body := map[string]string{"role": string(role)}
	return c.do(ctx, http.MethodPatch, "/v1/users/"+id+"/role", body, nil, domain.ErrUserNotFound)
}

type profilePatchRequest struct {
	Name          *string               `json:"name,omitempty"`
	MedicalRecord *domain.MedicalRecord `json:"medical_record,omitempty"`
}

func (c *PortalClient) UpdateUserProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.User, error) {
	body := profilePatchRequest{Name: patch.Name, MedicalRecord: patch.MedicalRecord}
	var u domain.User
	if err := c.do(ctx, http.MethodPatch, "/v1/users/"+id, body, &u, domain.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

// --- Emergency alerts ---

func (c *PortalClient) GetEmergencyAlerts(ctx context.Context) ([]domain.EmergencyAlert, error) {
	var out []domain.EmergencyAlert
	if err := c.do(ctx, http.MethodGet, "/v1/alerts", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

type createAlertRequest struct {
	IncidentType   string               `json:"incident_type"`
	Location       string               `json:"location"`
	Description    string               `json:"description"`
	MedicalSummary domain.MedicalRecord `json:"medical_summary"`
}

func (c *PortalClient) CreateEmergencyAlert(ctx context.Context, in ports.CreateAlertInput, summary domain.MedicalRecord) (*domain.EmergencyAlert, error) {
	body := createAlertRequest{
		IncidentType:   in.IncidentType,
		Location:       in.Location,
		Description:    in.Description,
		MedicalSummary: summary,
	}
	var a domain.EmergencyAlert
	if err := c.do(ctx, http.MethodPost, "/v1/alerts", body, &a, nil); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *PortalClient) DeleteEmergencyAlert(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/alerts/"+id, nil, nil, domain.ErrAlertNotFound)
}

// --- Inpatients ---

func (c *PortalClient) GetInpatients(ctx context.Context) ([]domain.Inpatient, error) {
	var out []domain.Inpatient
	if err := c.do(ctx, http.MethodGet, "/v1/inpatients", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

type createInpatientRequest struct {
	PatientID     string               `json:"patient_id"`
	Name          string               `json:"name"`
	Ward          string               `json:"ward"`
	Bed           string               `json:"bed"`
	MedicalRecord domain.MedicalRecord `json:"medical_record"`
	SourceAlertID string               `json:"source_alert_id,omitempty"`
}

func (c *PortalClient) CreateInpatient(ctx context.Context, in ports.CreateInpatientInput) (*domain.Inpatient, error) {
	body := createInpatientRequest{
		PatientID:     in.PatientID,
		Name:          in.Name,
		Ward:          in.Ward,
		Bed:           in.Bed,
		MedicalRecord: in.MedicalRecord,
		SourceAlertID: in.SourceAlertID,
	}
	var p domain.Inpatient
	if err := c.do(ctx, http.MethodPost, "/v1/inpatients", body, &p, nil); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *PortalClient) DeleteInpatient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/inpatients/"+id, nil, nil, domain.ErrInpatientNotFound)
}

func (c *PortalClient) UpdateInpatientStatus(ctx context.Context, id string, status domain.InpatientStatus) error {
	body := map[string]string{"status": string(status)}
	return c.do(ctx, http.MethodPatch, "/v1/inpatients/"+id+"/status", body, nil, domain.ErrInpatientNotFound)
}

func (c *PortalClient) UpdateInpatientMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error {
	return c.do(ctx, http.MethodPatch, "/v1/inpatients/"+id+"/record", record, nil, domain.ErrInpatientNotFound)
}

// --- Pharmacy & prescriptions ---

func (c *PortalClient) GetPharmacyStock(ctx context.Context) ([]domain.PharmacyItem, error) {
	var out []domain.PharmacyItem
	if err := c.do(ctx, http.MethodGet, "/v1/pharmacy/stock", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

type stockUpdateRequest struct {
	Items []stockItemUpdate `json:"items"`
}

type stockItemUpdate struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (c *PortalClient) UpdatePharmacyStock(ctx context.Context, updates []ports.StockUpdate) error {
	body := stockUpdateRequest{Items: make([]stockItemUpdate, 0, len(updates))}
	for _, u := range updates {
		body.Items = append(body.Items, stockItemUpdate{ItemID: u.ItemID, Quantity: u.Quantity})
	}
	return c.do(ctx, http.MethodPatch, "/v1/pharmacy/stock", body, nil, nil)
}

func (c *PortalClient) GetPrescriptions(ctx context.Context) ([]domain.Prescription, error) {
	var out []domain.Prescription
	if err := c.do(ctx, http.MethodGet, "/v1/prescriptions", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PortalClient) UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error {
	body := map[string]string{"status": string(status)}
	return c.do(ctx, http.MethodPatch, "/v1/prescriptions/"+id+"/status", body, nil, domain.ErrPrescriptionNotFound)
}

// --- Board meetings & schedules ---

func (c *PortalClient) GetBoardMeetings(ctx context.Context) ([]domain.BoardMeeting, error) {
	var out []domain.BoardMeeting
	if err := c.do(ctx, http.MethodGet, "/v1/meetings", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

type createMeetingRequest struct {
	Title       string    `json:"title"`
	Agenda      string    `json:"agenda"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

func (c *PortalClient) CreateBoardMeeting(ctx context.Context, in ports.CreateMeetingInput) (*domain.BoardMeeting, error) {
	body := createMeetingRequest{Title: in.Title, Agenda: in.Agenda, ScheduledAt: in.ScheduledAt}
	var m domain.BoardMeeting
	if err := c.do(ctx, http.MethodPost, "/v1/meetings", body, &m, nil); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *PortalClient) DeleteBoardMeeting(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/meetings/"+id, nil, nil, domain.ErrMeetingNotFound)
}

func (c *PortalClient) GetSchedules(ctx context.Context) ([]domain.ScheduleItem, error) {
	var out []domain.ScheduleItem
	if err := c.do(ctx, http.MethodGet, "/v1/schedules", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

type createScheduleRequest struct {
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	Reason    string    `json:"reason"`
	StartsAt  time.Time `json:"starts_at"`
}

func (c *PortalClient) CreateSchedule(ctx context.Context, in ports.CreateScheduleInput, doctorID string) (*domain.ScheduleItem, error) {
	body := createScheduleRequest{PatientID: in.PatientID, DoctorID: doctorID, Reason: in.Reason, StartsAt: in.StartsAt}
	var s domain.ScheduleItem
	if err := c.do(ctx, http.MethodPost, "/v1/schedules", body, &s, nil); err != nil {
		return nil, err
	}
	return &s, nil
}
