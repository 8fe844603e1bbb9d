package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

func TestTalentRepo_Create(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	catID := createCategory(t, ex, "DJ")

	got, err := r.Create(ctx, domain.Talent{
		Name:       "Dan Slater",
		CategoryID: catID,
		KnownFor:   "Circuit anthems",
		SocialLinks: map[string]string{
			"instagram": "https://instagram.com/djdanslater",
		},
	})

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Dan Slater", got.Name)
	assert.Equal(t, catID, got.CategoryID)
	assert.Equal(t, "https://instagram.com/djdanslater", got.SocialLinks["instagram"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTalentRepo_Create_NilSocialLinks(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	catID := createCategory(t, ex, "Comedy")

	got, err := r.Create(ctx, domain.Talent{Name: "Unlinked", CategoryID: catID})

	require.NoError(t, err)
	assert.Empty(t, got.SocialLinks, "nil links stored as empty object, not NULL")
}

func TestTalentRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewTalentRepo(newTestExecutor(t))

	_, err := r.GetByID(context.Background(), 999_999_999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTalentRepo_List_OrderedByName(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	catID := createCategory(t, ex, "Drag")
	createTalent(t, ex, catID, "Zara")
	createTalent(t, ex, catID, "Abel")

	talents, err := r.List(ctx, domain.NewPaginationParams(1, 50))

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(talents), 2)
	var names []string
	for _, tal := range talents {
		names = append(names, tal.Name)
	}
	assert.Equal(t, "Abel", names[0])
}

func TestTalentRepo_Update(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	catID := createCategory(t, ex, "Drag")
	created := createTalent(t, ex, catID, "Bianca Del Rio")

	created.Bio = "Comedy queen"
	created.SocialLinks = map[string]string{"website": "https://example.com"}

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Comedy queen", updated.Bio)
	assert.Equal(t, "https://example.com", updated.SocialLinks["website"])
}

func TestTalentRepo_Update_NotFound(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	catID := createCategory(t, ex, "Drag")

	_, err := r.Update(ctx, domain.Talent{ID: 999_999_999, Name: "Ghost", CategoryID: catID})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTalentRepo_Delete(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	catID := createCategory(t, ex, "Drag")
	created := createTalent(t, ex, catID, "Bianca Del Rio")

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err := r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTalentRepo_ListCategories(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewTalentRepo(ex)
	ctx := context.Background()

	createCategory(t, ex, "Vocalist")
	createCategory(t, ex, "Broadway")

	categories, err := r.ListCategories(ctx)

	require.NoError(t, err)
	require.GreaterOrEqual(t, len(categories), 2)
	var names []string
	for _, c := range categories {
		names = append(names, c.Category)
	}
	assert.Contains(t, names, "Vocalist")
	assert.Contains(t, names, "Broadway")
}
