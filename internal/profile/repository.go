// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"strings"

	"barberlink_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	FindByEmail(ctx context.Context, email string) (*Record, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindAll(ctx context.Context, email, role string, limit int) ([]Record, error)
	Update(ctx context.Context, record *Record) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new profile record into the database.
func (r *gormRepository) Create(ctx context.Context, record *Record) error {
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("A profile with this email already exists.")
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a profile by its email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*Record, error) {
	var record Record
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).Where("email = ?", normalizedEmail).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found with this email.")
		}
		return nil, err
	}
	return &record, nil
}

// FindByID retrieves a profile by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var record Record
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found with this ID.")
		}
		return nil, err
	}
	return &record, nil
}

// FindAll retrieves profiles, optionally filtered by email and role.
func (r *gormRepository) FindAll(ctx context.Context, email, role string, limit int) ([]Record, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	query := r.db.WithContext(ctx).Model(&Record{})
	if email != "" {
		query = query.Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var records []Record
	if err := query.Limit(limit).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update modifies an existing profile record in the database.
func (r *gormRepository) Update(ctx context.Context, record *Record) error {
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	err := r.db.WithContext(ctx).Save(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Update failed: email already taken.")
		}
		return err
	}
	return nil
}
