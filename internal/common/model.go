// File: internal/common/model.go
package common

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel defines common fields for GORM models. IDs are generated
// application-side so the models work against both postgres and the sqlite
// driver used in tests.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// BeforeCreate assigns an ID when the caller did not set one.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Application roles. RoleClient is the default for profiles created by the
// reconciliation fallback path; RoleBarber and RoleAdmin are only ever set
// through explicit registration or backend-side changes.
const (
	RoleClient = "client"
	RoleBarber = "barber"
	RoleAdmin  = "admin"
)

// IsValidRole reports whether the given role is one the system knows about.
func IsValidRole(role string) bool {
	switch role {
	case RoleClient, RoleBarber, RoleAdmin:
		return true
	}
	return false
}
