package profile

import (
	"context"
	"testing"

	"barberlink_backend/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	repo := NewGORMRepository(setupTestDB(t))
	return NewService(repo, testConfig(""), zap.NewNop()), repo
}

func TestService_CreateOrAdopt_IdempotentByEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, isNew, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "idem@example.com",
		Name:  "First",
		Role:  common.RoleClient,
	})
	require.NoError(t, err)
	assert.True(t, isNew)

	second, isNew, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "idem@example.com",
		Name:  "Second attempt",
		Role:  common.RoleClient,
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, first.UserID, second.UserID)
	// The original record wins; a duplicate create never rewrites the name.
	assert.Equal(t, "First", second.Name)
}

func TestService_CreateOrAdopt_UpgradesFallbackRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// A reconciler-seeded record starts as client.
	seeded, isNew, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "race@example.com",
		Name:  "Seeded",
		Role:  common.RoleClient,
	})
	require.NoError(t, err)
	require.True(t, isNew)
	require.Equal(t, common.RoleClient, seeded.Role)

	// The explicit registration arriving later upgrades the role in place.
	upgraded, isNew, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "race@example.com",
		Name:  "Seeded",
		Role:  common.RoleBarber,
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, common.RoleBarber, upgraded.Role)
	assert.Equal(t, seeded.UserID, upgraded.UserID)
}

func TestService_CreateOrAdopt_NeverDowngradesRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "admin@example.com",
		Name:  "Admin",
		Role:  common.RoleAdmin,
	})
	require.NoError(t, err)

	// A later fallback-seeded create with role client must not demote.
	adopted, isNew, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "admin@example.com",
		Name:  "Admin",
		Role:  common.RoleClient,
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, common.RoleAdmin, adopted.Role)
}

func TestService_CreateOrAdopt_BackfillsPhone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "phone@example.com",
		Name:  "P",
		Role:  common.RoleClient,
	})
	require.NoError(t, err)
	assert.Empty(t, created.Phone)

	adopted, _, err := svc.CreateOrAdopt(ctx, CreateRequest{
		Email: "phone@example.com",
		Name:  "P",
		Role:  common.RoleClient,
		Phone: "+525512345678",
	})
	require.NoError(t, err)
	assert.Equal(t, "+525512345678", adopted.Phone)
}

func TestService_List(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, req := range []CreateRequest{
		{Email: "l1@example.com", Name: "L1", Role: common.RoleClient},
		{Email: "l2@example.com", Name: "L2", Role: common.RoleBarber},
	} {
		_, _, err := svc.CreateOrAdopt(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	barbers, err := svc.List(ctx, "", common.RoleBarber, 0)
	require.NoError(t, err)
	require.Len(t, barbers, 1)
	assert.Equal(t, "L2", barbers[0].Name)
}
