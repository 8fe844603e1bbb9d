package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarrell/cruise-guides/backend/internal/domain"
	"github.com/mfarrell/cruise-guides/backend/internal/repo"
)

func eventFixture(tripID int64) domain.Event {
	return domain.Event{
		TripID:   tripID,
		Title:    "Sail Away Party",
		StartsAt: time.Date(2026, 9, 12, 17, 0, 0, 0, time.UTC),
		Type:     domain.EventParty,
		Venue:    "Pool Deck",
		Deck:     "15",
	}
}

func TestEventRepo_Create(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewEventRepo(ex)
	ctx := context.Background()

	trip := createTrip(t, ex)

	got, err := r.Create(ctx, eventFixture(trip.ID))

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, "Sail Away Party", got.Title)
	assert.Equal(t, domain.EventParty, got.Type)
	assert.Nil(t, got.PartyThemeID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEventRepo_Create_WithPartyTheme(t *testing.T) {
	ex := newTestExecutor(t)
	events := repo.NewEventRepo(ex)
	themes := repo.NewPartyThemeRepo(ex)
	ctx := context.Background()

	trip := createTrip(t, ex)
	theme, err := themes.Create(ctx, domain.PartyTheme{Name: "Neon", CostumeIdeas: "Anything that glows"})
	require.NoError(t, err)

	e := eventFixture(trip.ID)
	e.PartyThemeID = &theme.ID

	got, err := events.Create(ctx, e)

	require.NoError(t, err)
	require.NotNil(t, got.PartyThemeID)
	assert.Equal(t, theme.ID, *got.PartyThemeID)
}

func TestEventRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewEventRepo(newTestExecutor(t))

	_, err := r.GetByID(context.Background(), 999_999_999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepo_ListByTripID_ChronologicalOrder(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewEventRepo(ex)
	ctx := context.Background()

	trip := createTrip(t, ex)

	late := eventFixture(trip.ID)
	late.Title = "Late Show"
	late.StartsAt = late.StartsAt.Add(6 * time.Hour)

	early := eventFixture(trip.ID)
	early.Title = "Early Show"

	_, err := r.Create(ctx, late)
	require.NoError(t, err)
	_, err = r.Create(ctx, early)
	require.NoError(t, err)

	events, err := r.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Early Show", events[0].Title)
	assert.Equal(t, "Late Show", events[1].Title)
}

func TestEventRepo_Update(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewEventRepo(ex)
	ctx := context.Background()

	trip := createTrip(t, ex)
	created, err := r.Create(ctx, eventFixture(trip.ID))
	require.NoError(t, err)

	created.Title = "Dusk Till Dawn"
	created.Venue = "Aquatic Club"

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Dusk Till Dawn", updated.Title)
	assert.Equal(t, "Aquatic Club", updated.Venue)
}

func TestEventRepo_Update_NotFound(t *testing.T) {
	r := repo.NewEventRepo(newTestExecutor(t))

	ghost := eventFixture(1)
	ghost.ID = 999_999_999

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepo_Delete(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewEventRepo(ex)
	ctx := context.Background()

	trip := createTrip(t, ex)
	created, err := r.Create(ctx, eventFixture(trip.ID))
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewEventRepo(newTestExecutor(t))

	err := r.Delete(context.Background(), 999_999_999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventRepo_ReplaceLineup(t *testing.T) {
	ex := newTestExecutor(t)
	r := repo.NewEventRepo(ex)
	ctx := context.Background()

	trip := createTrip(t, ex)
	event, err := r.Create(ctx, eventFixture(trip.ID))
	require.NoError(t, err)

	catID := createCategory(t, ex, "Drag")
	headliner := createTalent(t, ex, catID, "Bianca Del Rio")
	support := createTalent(t, ex, catID, "Alyssa Edwards")

	err = r.ReplaceLineup(ctx, event.ID, []domain.EventTalent{
		{TalentID: headliner.ID, Role: "headliner", OrderIndex: 1},
		{TalentID: support.ID, Role: "support", OrderIndex: 2},
	})
	require.NoError(t, err)

	// Rewriting the lineup discards the previous billing.
	err = r.ReplaceLineup(ctx, event.ID, []domain.EventTalent{
		{TalentID: support.ID, Role: "headliner", OrderIndex: 1},
	})
	require.NoError(t, err)

	var count int
	row := ex.QueryRow(ctx, "test.count_lineup",
		`SELECT count(*) FROM event_talent WHERE event_id = $1`, event.ID)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}
