// File: internal/profile/model.go
package profile

import (
	"barberlink_backend/internal/common"

	"github.com/google/uuid"
)

// Record is the GORM model backing the server side of the profile store.
type Record struct {
	common.BaseModel            // Embeds ID, CreatedAt, UpdatedAt
	Email            string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_profiles_email,unique"`
	Name             string     `gorm:"type:varchar(255);not null"`
	Role             string     `gorm:"type:varchar(50);not null;default:'client'"`
	Phone            *string    `gorm:"type:varchar(50)"`
	Picture          *string    `gorm:"type:text"`
	BarbershopID     *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the table name for the Record model.
func (Record) TableName() string {
	return "profiles"
}

// ToProfile converts a Record into the wire-level Profile.
func ToProfile(r *Record) Profile {
	p := Profile{
		UserID:    r.ID.String(),
		Email:     r.Email,
		Name:      r.Name,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
	}
	if r.Phone != nil {
		p.Phone = *r.Phone
	}
	if r.Picture != nil {
		p.Picture = *r.Picture
	}
	if r.BarbershopID != nil {
		p.BarbershopID = r.BarbershopID.String()
	}
	return p
}
