// File: internal/shop/model.go
package shop

import (
	"time"

	"barberlink_backend/internal/common"

	"github.com/google/uuid"
)

// DayHours is the opening window for a single weekday.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Barbershop is the GORM model for a shop.
type Barbershop struct {
	common.BaseModel                     // Embeds ID, CreatedAt, UpdatedAt
	OwnerProfileID   uuid.UUID           `gorm:"type:uuid;not null;index:idx_barbershops_owner"`
	Name             string              `gorm:"type:varchar(255);not null"`
	Slug             string              `gorm:"type:varchar(255);not null;uniqueIndex:idx_barbershops_slug,unique"`
	Address          string              `gorm:"type:text;not null"`
	Phone            string              `gorm:"type:varchar(50);not null"`
	Description      *string             `gorm:"type:text"`
	WorkingHours     map[string]DayHours `gorm:"serializer:json"`
	Location         *GeoPoint           `gorm:"serializer:json"`
	Offerings        []Offering          `gorm:"foreignKey:BarbershopID"`
}

// TableName specifies the table name for the Barbershop model.
func (Barbershop) TableName() string {
	return "barbershops"
}

// Offering is a service a shop offers (cut, shave, ...).
type Offering struct {
	common.BaseModel
	BarbershopID    uuid.UUID `gorm:"type:uuid;not null;index:idx_offerings_shop"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Description     *string   `gorm:"type:text"`
	Price           float64   `gorm:"type:numeric(10,2);not null"`
	DurationMinutes int       `gorm:"not null"`
}

// TableName specifies the table name for the Offering model.
func (Offering) TableName() string {
	return "shop_offerings"
}

// --- API DTOs ---

// BarbershopResponse is the API representation of a shop.
type BarbershopResponse struct {
	ID             uuid.UUID           `json:"id"`
	OwnerProfileID uuid.UUID           `json:"owner_profile_id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Address        string              `json:"address"`
	Phone          string              `json:"phone"`
	Description    *string             `json:"description,omitempty"`
	WorkingHours   map[string]DayHours `json:"working_hours,omitempty"`
	Location       *GeoPoint           `json:"location,omitempty"`
	Offerings      []OfferingResponse  `json:"offerings,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// OfferingResponse is the API representation of an offering.
type OfferingResponse struct {
	ID              uuid.UUID `json:"id"`
	BarbershopID    uuid.UUID `json:"barbershop_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateBarbershopRequest is the payload for creating a shop.
type CreateBarbershopRequest struct {
	OwnerProfileID uuid.UUID           `json:"owner_profile_id" binding:"required"`
	Name           string              `json:"name" binding:"required,max=255"`
	Address        string              `json:"address" binding:"required"`
	Phone          string              `json:"phone" binding:"required,max=50"`
	Description    *string             `json:"description,omitempty"`
	WorkingHours   map[string]DayHours `json:"working_hours,omitempty"`
	Location       *GeoPoint           `json:"location,omitempty"`
}

// UpdateBarbershopRequest is the payload for a partial shop update.
type UpdateBarbershopRequest struct {
	Name         *string             `json:"name,omitempty" binding:"omitempty,max=255"`
	Address      *string             `json:"address,omitempty"`
	Phone        *string             `json:"phone,omitempty" binding:"omitempty,max=50"`
	Description  *string             `json:"description,omitempty"`
	WorkingHours map[string]DayHours `json:"working_hours,omitempty"`
	Location     *GeoPoint           `json:"location,omitempty"`
}

// CreateOfferingRequest is the payload for adding an offering to a shop.
type CreateOfferingRequest struct {
	BarbershopID    uuid.UUID `json:"barbershop_id" binding:"required"`
	Name            string    `json:"name" binding:"required,max=255"`
	Description     *string   `json:"description,omitempty"`
	Price           float64   `json:"price" binding:"required,gt=0"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
}

// ToBarbershopResponse converts a model to its API shape.
func ToBarbershopResponse(s *Barbershop) BarbershopResponse {
	resp := BarbershopResponse{
		ID:             s.ID,
		OwnerProfileID: s.OwnerProfileID,
		Name:           s.Name,
		Slug:           s.Slug,
		Address:        s.Address,
		Phone:          s.Phone,
		Description:    s.Description,
		WorkingHours:   s.WorkingHours,
		Location:       s.Location,
		CreatedAt:      s.CreatedAt,
	}
	if len(s.Offerings) > 0 {
		resp.Offerings = make([]OfferingResponse, len(s.Offerings))
		for i := range s.Offerings {
			resp.Offerings[i] = ToOfferingResponse(&s.Offerings[i])
		}
	}
	return resp
}

// ToOfferingResponse converts a model to its API shape.
func ToOfferingResponse(o *Offering) OfferingResponse {
	return OfferingResponse{
		ID:              o.ID,
		BarbershopID:    o.BarbershopID,
		Name:            o.Name,
		Description:     o.Description,
		Price:           o.Price,
		DurationMinutes: o.DurationMinutes,
		CreatedAt:       o.CreatedAt,
	}
}
