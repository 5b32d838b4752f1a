package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestProfileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()

	created, err := repo.Upsert(ctx, domain.ProfileFields{UserID: "u1", Status: strPtr("Student"), Skills: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "Student", created.Status)
	assert.Empty(t, created.Experience)

	updated, err := repo.Upsert(ctx, domain.ProfileFields{UserID: "u1", Status: strPtr("Developer")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, []string{"go"}, updated.Skills)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	t.Run("Handle taken by another user", func(t *testing.T) {
		_, err := repo.Upsert(ctx, domain.ProfileFields{UserID: "u1", Status: strPtr("Developer"), Handle: strPtr("gopher")})
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, domain.ProfileFields{UserID: "u2", Status: strPtr("Developer"), Handle: strPtr("gopher")})
		assert.ErrorIs(t, err, domain.ErrDuplicateHandle)

		_, err = repo.GetByUserID(ctx, "u2")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Returned profiles do not alias storage", func(t *testing.T) {
		p, err := repo.GetByHandle(ctx, "gopher")
		require.NoError(t, err)
		p.Skills[0] = "changed"

		again, err := repo.GetByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "go", again.Skills[0])
	})
}

func TestProfileRepository_EntriesRequireProfile(t *testing.T) {
	repo := memory.NewProfileRepository()
	_, err := repo.AddExperience(context.Background(), "ghost", domain.Experience{ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.RemoveEducation(context.Background(), "ghost", primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileRepository_ConcurrentAddsKeepEveryEntry(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	_, err := repo.Upsert(ctx, domain.ProfileFields{UserID: "u1", Status: strPtr("Developer")})
	require.NoError(t, err)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.AddExperience(ctx, "u1", domain.Experience{ID: primitive.NewObjectID(), Title: fmt.Sprint(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	p, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, p.Experience, n)
}

func TestProfileRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.Upsert(ctx, domain.ProfileFields{UserID: id, Status: strPtr("Other")})
		require.NoError(t, err)
	}

	require.NoError(t, repo.DeleteByUserID(ctx, "b"))
	assert.ErrorIs(t, repo.DeleteByUserID(ctx, "b"), domain.ErrNotFound)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].UserID)
	assert.Equal(t, "c", list[1].UserID)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "1", Email: "a@example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{ID: "2", Email: "a@example.com"}), domain.ErrDuplicateEmail)

	u, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	users, err := repo.GetByIDs(ctx, []string{"1", "missing"})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, repo.Delete(ctx, "1"))
	_, err = repo.GetByID(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
