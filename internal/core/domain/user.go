package domain

import "strings"

// Identity is a registered credential record. Identities are never mutated
// after creation and never deleted.
//
// Password is stored and compared in plaintext.
// TODO: hash passwords once the seeded credentials move out of code.
type Identity struct {
	SubjectID   string `json:"-"`
	Email       string `json:"email"`
	Password    string `json:"-"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// ExternalIdentity is what an external identity provider hands over after it
// has verified the person. Role is optional.
type ExternalIdentity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Role        string `json:"role,omitempty"`
}

// NormalizeEmail trims and case-folds an email for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail reports whether two emails are equal after normalization.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}
