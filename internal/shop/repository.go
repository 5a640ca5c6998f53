// File: internal/shop/repository.go
package shop

import (
	"context"
	"errors"
	"strings"

	"barberlink_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for shop data operations.
type Repository interface {
	CreateShop(ctx context.Context, s *Barbershop) error
	FindShopByID(ctx context.Context, id uuid.UUID, preloadOfferings bool) (*Barbershop, error)
	FindShopBySlug(ctx context.Context, slug string, preloadOfferings bool) (*Barbershop, error)
	FindAllShops(ctx context.Context, limit int) ([]Barbershop, error)
	UpdateShop(ctx context.Context, s *Barbershop) error
	CreateOffering(ctx context.Context, o *Offering) error
	FindOfferings(ctx context.Context, shopID uuid.UUID, limit int) ([]Offering, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM shop repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

func (r *gormRepository) CreateShop(ctx context.Context, s *Barbershop) error {
	s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A barbershop with this slug already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindShopByID(ctx context.Context, id uuid.UUID, preloadOfferings bool) (*Barbershop, error) {
	query := r.db.WithContext(ctx)
	if preloadOfferings {
		query = query.Preload("Offerings")
	}
	var s Barbershop
	if err := query.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Barbershop not found with this ID.")
		}
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) FindShopBySlug(ctx context.Context, slug string, preloadOfferings bool) (*Barbershop, error) {
	query := r.db.WithContext(ctx)
	if preloadOfferings {
		query = query.Preload("Offerings")
	}
	var s Barbershop
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if err := query.First(&s, "slug = ?", normalized).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Barbershop not found with this slug.")
		}
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) FindAllShops(ctx context.Context, limit int) ([]Barbershop, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var shops []Barbershop
	err := r.db.WithContext(ctx).Limit(limit).Order("created_at ASC").Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *gormRepository) UpdateShop(ctx context.Context, s *Barbershop) error {
	s.Slug = strings.ToLower(strings.TrimSpace(s.Slug))
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A barbershop with this slug already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) CreateOffering(ctx context.Context, o *Offering) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *gormRepository) FindOfferings(ctx context.Context, shopID uuid.UUID, limit int) ([]Offering, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var offerings []Offering
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", shopID).
		Limit(limit).
		Order("created_at ASC").
		Find(&offerings).Error
	if err != nil {
		return nil, err
	}
	return offerings, nil
}
