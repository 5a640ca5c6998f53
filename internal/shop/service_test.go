package shop

import (
	"context"
	"testing"

	"barberlink_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock type for shop.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateShop(ctx context.Context, s *Barbershop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) FindShopByID(ctx context.Context, id uuid.UUID, preloadOfferings bool) (*Barbershop, error) {
	args := m.Called(ctx, id, preloadOfferings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Barbershop), args.Error(1)
}

func (m *MockRepository) FindShopBySlug(ctx context.Context, slug string, preloadOfferings bool) (*Barbershop, error) {
	args := m.Called(ctx, slug, preloadOfferings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Barbershop), args.Error(1)
}

func (m *MockRepository) FindAllShops(ctx context.Context, limit int) ([]Barbershop, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Barbershop), args.Error(1)
}

func (m *MockRepository) UpdateShop(ctx context.Context, s *Barbershop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) CreateOffering(ctx context.Context, o *Offering) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) FindOfferings(ctx context.Context, shopID uuid.UUID, limit int) ([]Offering, error) {
	args := m.Called(ctx, shopID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Offering), args.Error(1)
}

func TestShopService_CreateShop_GeneratesSlug(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	ownerID := uuid.New()

	repo.On("CreateShop", ctx, mock.AnythingOfType("*shop.Barbershop")).Run(func(args mock.Arguments) {
		s := args.Get(1).(*Barbershop)
		assert.Equal(t, "la-barberia-del-centro", s.Slug)
		assert.Equal(t, ownerID, s.OwnerProfileID)
	}).Return(nil).Once()

	s, err := svc.CreateShop(ctx, CreateBarbershopRequest{
		OwnerProfileID: ownerID,
		Name:           "La Barbería del Centro",
		Address:        "Av. Juárez 10",
		Phone:          "+525512345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "la-barberia-del-centro", s.Slug)
	repo.AssertExpectations(t)
}

func TestShopService_CreateShop_RetriesSlugOnConflict(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	conflict := common.ErrConflict.WithDetails("slug taken")
	repo.On("CreateShop", ctx, mock.AnythingOfType("*shop.Barbershop")).Return(conflict).Once()
	repo.On("CreateShop", ctx, mock.AnythingOfType("*shop.Barbershop")).Run(func(args mock.Arguments) {
		s := args.Get(1).(*Barbershop)
		assert.NotEqual(t, "fade-factory", s.Slug)
		assert.Contains(t, s.Slug, "fade-factory-")
	}).Return(nil).Once()

	_, err := svc.CreateShop(ctx, CreateBarbershopRequest{
		OwnerProfileID: uuid.New(),
		Name:           "Fade Factory",
		Address:        "Calle 5",
		Phone:          "+525511111111",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestShopService_UpdateShop_Authorization(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	shopID := uuid.New()

	tests := []struct {
		name      string
		actorID   uuid.UUID
		actorRole string
		wantErr   bool
	}{
		{"owner can update", ownerID, common.RoleBarber, false},
		{"admin can update", strangerID, common.RoleAdmin, false},
		{"stranger cannot update", strangerID, common.RoleBarber, true},
		{"client cannot update", strangerID, common.RoleClient, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewService(repo, zap.NewNop())
			ctx := context.Background()

			existing := &Barbershop{OwnerProfileID: ownerID, Name: "Shop", Slug: "shop", Address: "A", Phone: "P"}
			existing.ID = shopID
			repo.On("FindShopByID", ctx, shopID, false).Return(existing, nil).Once()
			if !tt.wantErr {
				repo.On("UpdateShop", ctx, mock.AnythingOfType("*shop.Barbershop")).Return(nil).Once()
			}

			newAddress := "Nueva dirección 42"
			_, err := svc.UpdateShop(ctx, shopID, tt.actorID, tt.actorRole, UpdateBarbershopRequest{Address: &newAddress})
			if tt.wantErr {
				require.Error(t, err)
				apiErr, ok := common.IsAPIError(err)
				require.True(t, ok)
				assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestShopService_CreateOffering_RequiresExistingShop(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()
	shopID := uuid.New()

	repo.On("FindShopByID", ctx, shopID, false).Return(nil, common.ErrNotFound.WithDetails("no shop")).Once()

	_, err := svc.CreateOffering(ctx, shopID, uuid.New(), common.RoleAdmin, CreateOfferingRequest{
		Name:            "Corte clásico",
		Price:           150,
		DurationMinutes: 30,
	})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
	repo.AssertExpectations(t)
}
