package profile

import (
	"context"
	"testing"

	"barberlink_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Record{}))
	return db
}

func newRecord(email, name, role string) *Record {
	r := &Record{Email: email, Name: name, Role: role}
	r.ID = uuid.New()
	return r
}

func TestRepository_CreateAndFindByEmail(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRecord("Client@Example.com", "Cliente", "client")))

	// Lookups are case-insensitive via normalization.
	found, err := repo.FindByEmail(ctx, "  client@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", found.Email)
	assert.Equal(t, "Cliente", found.Name)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestRepository_CreateDuplicateEmailConflicts(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRecord("dup@example.com", "First", "client")))

	err := repo.Create(ctx, newRecord("dup@example.com", "Second", "barber"))
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}

func TestRepository_FindAllFilters(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRecord("a@example.com", "A", "client")))
	require.NoError(t, repo.Create(ctx, newRecord("b@example.com", "B", "barber")))
	require.NoError(t, repo.Create(ctx, newRecord("c@example.com", "C", "barber")))

	all, err := repo.FindAll(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	barbers, err := repo.FindAll(ctx, "", "barber", 0)
	require.NoError(t, err)
	assert.Len(t, barbers, 2)

	byEmail, err := repo.FindAll(ctx, "a@example.com", "", 0)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "A", byEmail[0].Name)

	limited, err := repo.FindAll(ctx, "", "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRepository_Update(t *testing.T) {
	repo := NewGORMRepository(setupTestDB(t))
	ctx := context.Background()

	record := newRecord("up@example.com", "Before", "client")
	require.NoError(t, repo.Create(ctx, record))

	record.Name = "After"
	record.Role = "barber"
	require.NoError(t, repo.Update(ctx, record))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", found.Name)
	assert.Equal(t, "barber", found.Role)
}
