package domain

import (
	"errors"
	"time"
)

// Role is the persisted authorization role of a user.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor || r == RoleAdmin
}

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidRole = errors.New("invalid role")

// MedicalRecord is a point-in-time value snapshot, embedded in a User or an
// Inpatient. It has no identity of its own.
type MedicalRecord struct {
	BloodType   string    `json:"blood_type" bson:"blood_type"`
	Allergies   []string  `json:"allergies" bson:"allergies"`
	Conditions  []string  `json:"conditions" bson:"conditions"`
	Medications []string  `json:"medications" bson:"medications"`
	LastUpdated time.Time `json:"last_updated" bson:"last_updated"`
}

// User models an authenticated actor in the portal. Role is the authoritative,
// persisted value; the orchestrator's active role is a separate view selector
// and is never stored here.
type User struct {
	ID            string         `json:"id" bson:"_id,omitempty"`
	Email         string         `json:"email" bson:"email"`
	Name          string         `json:"name" bson:"name"`
	PasswordHash  string         `json:"-" bson:"password_hash"`
	Role          Role           `json:"role" bson:"role"`
	MedicalRecord *MedicalRecord `json:"medical_record,omitempty" bson:"medical_record,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}

// Session is the opaque authenticated-identity handle held while the auth
// provider reports a live session.
type Session struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
