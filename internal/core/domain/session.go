package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Session is the public snapshot of the signed-in subject. It is also the
// exact shape of the persisted session record.
type Session struct {
	SubjectID   string `json:"subjectId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Role        Role   `json:"role"`
}

// Validate checks the invariants a persisted record must satisfy.
func (s Session) Validate() error {
	if s.SubjectID == "" {
		return fmt.Errorf("%w: missing subjectId", ErrMalformedSession)
	}
	if !s.Role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", ErrMalformedSession, s.Role)
	}
	return nil
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Clone returns a copy so callers can never mutate a store's value.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// EncodeSession serialises a session into its persisted form.
func EncodeSession(s Session) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return b, nil
}

// DecodeSession parses a persisted record. Any failure is reported as
// ErrMalformedSession.
func DecodeSession(b []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSession, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// SessionEventKind names an authenticator outcome.
type SessionEventKind string

const (
	EventLogin         SessionEventKind = "login"
	EventLoginFailed   SessionEventKind = "login_failed"
	EventRegister      SessionEventKind = "register"
	EventExternalLogin SessionEventKind = "external_login"
	EventLogout        SessionEventKind = "logout"
)

// SessionEvent is one entry of the session activity trail.
type SessionEvent struct {
	DeviceID  string           `json:"device_id" bson:"device_id"`
	SubjectID string           `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	Email     string           `json:"email,omitempty" bson:"email,omitempty"`
	Kind      SessionEventKind `json:"kind" bson:"kind"`
	Role      Role             `json:"role,omitempty" bson:"role,omitempty"`
	At        time.Time        `json:"at" bson:"at"`
}
