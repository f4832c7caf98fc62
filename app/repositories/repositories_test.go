package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/cafehub/app/errs"
	"github.com/shashiranjanraj/cafehub/app/models"
	"github.com/shashiranjanraj/cafehub/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Cafe{}))
	return db
}

func sampleCafe(name string) *models.Cafe {
	return &models.Cafe{
		Name:        name,
		MapURL:      "https://maps.example.com/" + name,
		ImgURL:      "https://img.example.com/" + name + ".jpg",
		Location:    "Shoreditch",
		HasWifi:     true,
		Seats:       "20-30",
		CoffeePrice: "£2.80",
	}
}

func TestUserCreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	created, err := repo.Create(ctx, "a@x.com", "digest")
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "digest", found.PasswordHash)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.Create(ctx, "a@x.com", "d1")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "a@x.com", "d2")
	assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
}

func TestUserConcurrentDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Create(ctx, "race@x.com", "d")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, wins)
}

func TestUserFindByIDMissing(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	ok, err := repo.Exists(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdminIDIsLowestID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	_, ok, err := repo.AdminID(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no users, no admin")

	for i := 1; i <= 3; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("u%d@x.com", i), "d")
		require.NoError(t, err)
	}

	id, ok, err := repo.AdminID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(1), id)

	// Removal is not an application operation, but the rule still holds.
	require.NoError(t, db.Delete(&models.User{}, 1).Error)
	id, ok, err = repo.AdminID(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(2), id)
}

func TestStorageErrorIsWrapped(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	require.NoError(t, database.Close(db))

	_, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
}

func TestCafeCreateListFind(t *testing.T) {
	ctx := context.Background()
	repo := NewCafeRepository(newTestDB(t))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	first := sampleCafe("Joe's")
	require.NoError(t, repo.Create(ctx, first))
	second := sampleCafe("Bean There")
	second.HasSockets = true
	require.NoError(t, repo.Create(ctx, second))

	all, err = repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Joe's", all[0].Name)
	assert.Equal(t, "Bean There", all[1].Name)

	got, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.HasSockets)
	assert.True(t, got.HasWifi)
	assert.False(t, got.HasToilet)

	byName, err := repo.FindByName(ctx, "Joe's")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, first.ID, byName.ID)

	missing, err := repo.FindByName(ctx, "Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCafeDuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := NewCafeRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, sampleCafe("Joe's")))
	assert.ErrorIs(t, repo.Create(ctx, sampleCafe("Joe's")), errs.ErrDuplicateName)
}

func TestCafeDeleteTwice(t *testing.T) {
	ctx := context.Background()
	repo := NewCafeRepository(newTestDB(t))

	cafe := sampleCafe("Joe's")
	require.NoError(t, repo.Create(ctx, cafe))

	require.NoError(t, repo.Delete(ctx, cafe.ID))
	assert.ErrorIs(t, repo.Delete(ctx, cafe.ID), errs.ErrNotFound)

	_, err := repo.FindByID(ctx, cafe.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
