// File: internal/shop/service.go
package shop

import (
	"context"
	"fmt"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/platform/crypto"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service defines the interface for shop business logic.
type Service interface {
	CreateShop(ctx context.Context, req CreateBarbershopRequest) (*Barbershop, error)
	GetShopByID(ctx context.Context, id uuid.UUID, preloadOfferings bool) (*Barbershop, error)
	GetShopBySlug(ctx context.Context, slugStr string, preloadOfferings bool) (*Barbershop, error)
	GetAllShops(ctx context.Context, limit int) ([]Barbershop, error)
	UpdateShop(ctx context.Context, id uuid.UUID, actorProfileID uuid.UUID, actorRole string, req UpdateBarbershopRequest) (*Barbershop, error)
	CreateOffering(ctx context.Context, shopID uuid.UUID, actorProfileID uuid.UUID, actorRole string, req CreateOfferingRequest) (*Offering, error)
	GetOfferings(ctx context.Context, shopID uuid.UUID, limit int) ([]Offering, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new shop service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("ShopService"),
	}
}

func (s *service) CreateShop(ctx context.Context, req CreateBarbershopRequest) (*Barbershop, error) {
	shop := &Barbershop{
		OwnerProfileID: req.OwnerProfileID,
		Name:           req.Name,
		Slug:           slug.Make(req.Name),
		Address:        req.Address,
		Phone:          req.Phone,
		Description:    req.Description,
		WorkingHours:   req.WorkingHours,
		Location:       req.Location,
	}
	shop.ID = uuid.New()

	err := s.repo.CreateShop(ctx, shop)
	if err != nil {
		// Slug collision with a differently-owned shop of the same name:
		// retry once with a random suffix.
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrConflict.Code {
			suffix, randErr := crypto.GenerateSecureRandomString(4)
			if randErr != nil {
				return nil, fmt.Errorf("failed to generate slug suffix: %w", randErr)
			}
			shop.Slug = fmt.Sprintf("%s-%s", shop.Slug, suffix)
			err = s.repo.CreateShop(ctx, shop)
		}
		if err != nil {
			s.logger.Error("Failed to create barbershop", zap.Error(err), zap.String("name", req.Name))
			return nil, err
		}
	}

	s.logger.Info("Barbershop created",
		zap.String("shopID", shop.ID.String()),
		zap.String("slug", shop.Slug),
		zap.String("ownerProfileID", shop.OwnerProfileID.String()),
	)
	return shop, nil
}

func (s *service) GetShopByID(ctx context.Context, id uuid.UUID, preloadOfferings bool) (*Barbershop, error) {
	return s.repo.FindShopByID(ctx, id, preloadOfferings)
}

func (s *service) GetShopBySlug(ctx context.Context, slugStr string, preloadOfferings bool) (*Barbershop, error) {
	return s.repo.FindShopBySlug(ctx, slugStr, preloadOfferings)
}

func (s *service) GetAllShops(ctx context.Context, limit int) ([]Barbershop, error) {
	return s.repo.FindAllShops(ctx, limit)
}

// UpdateShop applies a partial update. Only the shop owner or an admin may
// modify a shop.
func (s *service) UpdateShop(ctx context.Context, id uuid.UUID, actorProfileID uuid.UUID, actorRole string, req UpdateBarbershopRequest) (*Barbershop, error) {
	shop, err := s.repo.FindShopByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShopWrite(shop, actorProfileID, actorRole); err != nil {
		return nil, err
	}

	if req.Name != nil {
		shop.Name = *req.Name
		shop.Slug = slug.Make(*req.Name)
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Description != nil {
		shop.Description = req.Description
	}
	if req.WorkingHours != nil {
		shop.WorkingHours = req.WorkingHours
	}
	if req.Location != nil {
		shop.Location = req.Location
	}

	if err := s.repo.UpdateShop(ctx, shop); err != nil {
		s.logger.Error("Failed to update barbershop", zap.Error(err), zap.String("shopID", id.String()))
		return nil, err
	}
	return shop, nil
}

func (s *service) CreateOffering(ctx context.Context, shopID uuid.UUID, actorProfileID uuid.UUID, actorRole string, req CreateOfferingRequest) (*Offering, error) {
	shop, err := s.repo.FindShopByID(ctx, shopID, false)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShopWrite(shop, actorProfileID, actorRole); err != nil {
		return nil, err
	}

	offering := &Offering{
		BarbershopID:    shop.ID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	}
	offering.ID = uuid.New()

	if err := s.repo.CreateOffering(ctx, offering); err != nil {
		s.logger.Error("Failed to create offering", zap.Error(err), zap.String("shopID", shopID.String()))
		return nil, err
	}
	s.logger.Info("Offering created",
		zap.String("offeringID", offering.ID.String()),
		zap.String("shopID", shop.ID.String()),
	)
	return offering, nil
}

func (s *service) GetOfferings(ctx context.Context, shopID uuid.UUID, limit int) ([]Offering, error) {
	if _, err := s.repo.FindShopByID(ctx, shopID, false); err != nil {
		return nil, err
	}
	return s.repo.FindOfferings(ctx, shopID, limit)
}

func (s *service) authorizeShopWrite(shop *Barbershop, actorProfileID uuid.UUID, actorRole string) error {
	if actorRole == common.RoleAdmin || shop.OwnerProfileID == actorProfileID {
		return nil
	}
	return common.ErrForbidden.WithDetails("Only the shop owner or an admin can modify this barbershop.")
}
