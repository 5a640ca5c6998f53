// File: internal/profile/profile.go
package profile

import (
	"strings"
	"time"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/identity"
)

// Profile is the canonical application-level user record, keyed by email and
// owned by the backend store. This is the wire shape of the store contract.
type Profile struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	BarbershopID string    `json:"barbershop_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Fallback synthesizes a profile entirely from identity-provider fields.
// It is published while backend resolution is in flight and stands in for
// the canonical record when the store is unreachable or unconfigured.
func Fallback(id *identity.Session) *Profile {
	name := id.DisplayName
	if name == "" {
		if at := strings.Index(id.Email, "@"); at > 0 {
			name = id.Email[:at]
		} else {
			name = "User"
		}
	}

	createdAt := id.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return &Profile{
		UserID:    id.SubjectID,
		Email:     id.Email,
		Name:      name,
		Role:      common.RoleClient,
		Phone:     id.Phone,
		Picture:   id.PhotoURL,
		CreatedAt: createdAt,
	}
}

// Patch is a partial profile update applied locally by the auth facade.
// Nil fields are left untouched.
type Patch struct {
	Name         *string `json:"name,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Picture      *string `json:"picture,omitempty"`
	BarbershopID *string `json:"barbershop_id,omitempty"`
}

// Merge returns a copy of p with the patch applied.
func Merge(p Profile, patch Patch) Profile {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Picture != nil {
		p.Picture = *patch.Picture
	}
	if patch.BarbershopID != nil {
		p.BarbershopID = *patch.BarbershopID
	}
	return p
}
