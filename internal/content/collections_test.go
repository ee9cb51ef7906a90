package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsite/internal/domain"
	apperrors "clubsite/pkg/errors"
)

func TestEventPartitions(t *testing.T) {
	events := []domain.Event{
		{ID: 1, Status: domain.EventStatusUpcoming, Category: "Workshop", Date: "2025-12-15"},
		{ID: 2, Status: domain.EventStatusPast, Category: "Talk", Date: "2024-11-08"},
		{ID: 3, Status: domain.EventStatusUpcoming, Category: "Workshop", Date: "2026-01-24"},
		{ID: 4, Status: domain.EventStatusPast, Category: "Hackathon", Date: "2025-03-14"},
		{ID: 5, Status: domain.EventStatusPast, Category: "", Date: "sometime"},
	}

	upcoming := UpcomingEvents(events)
	require.Len(t, upcoming, 2)
	assert.Equal(t, 1, upcoming[0].ID)
	assert.Equal(t, 3, upcoming[1].ID)

	assert.Len(t, PastEvents(events), 3)
	assert.Equal(t, []string{"Workshop", "Talk", "Hackathon"}, EventCategories(events))
	assert.Equal(t, []int{2025, 2024, 2026}, EventYears(events))
}

func TestFilterEvents(t *testing.T) {
	events := []domain.Event{
		{ID: 1, Status: domain.EventStatusUpcoming, Category: "Workshop", Date: "2025-12-15"},
		{ID: 2, Status: domain.EventStatusPast, Category: "Talk", Date: "2024-11-08"},
		{ID: 3, Status: domain.EventStatusPast, Category: "workshop", Date: "2025-03-14"},
	}

	tests := []struct {
		name   string
		filter EventFilter
		want   []int
	}{
		{name: "no filter", filter: EventFilter{}, want: []int{1, 2, 3}},
		{name: "status", filter: EventFilter{Status: domain.EventStatusPast}, want: []int{2, 3}},
		{name: "category ignores case", filter: EventFilter{Category: "WORKSHOP"}, want: []int{1, 3}},
		{name: "year", filter: EventFilter{Year: 2025}, want: []int{1, 3}},
		{name: "combined", filter: EventFilter{Status: domain.EventStatusPast, Year: 2025}, want: []int{3}},
		{name: "nothing", filter: EventFilter{Year: 1999}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []int{}
			for _, e := range FilterEvents(events, tt.filter) {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFindByID(t *testing.T) {
	coordinators := []domain.Coordinator{{ID: 1, Name: "A"}, {ID: 7, Name: "B"}}

	found, ok := FindByID(coordinators, 7)
	assert.True(t, ok)
	assert.Equal(t, "B", found.Name)

	_, ok = FindByID(coordinators, 3)
	assert.False(t, ok)
}

func TestService_UpsertAndDeleteEvent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.SaveEvents(ctx, sampleEvents()))

	created, isNew, err := svc.UpsertEvent(ctx, domain.Event{Title: "New", Date: "2026-02-02", Status: domain.EventStatusUpcoming})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, 12, created.ID)

	created.Title = "Renamed"
	_, isNew, err = svc.UpsertEvent(ctx, created)
	require.NoError(t, err)
	assert.False(t, isNew)

	got, ok := svc.EventByID(ctx, 12)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Title)
	assert.Len(t, svc.GetEvents(ctx), 3)

	require.NoError(t, svc.DeleteEvent(ctx, 10))
	_, ok = svc.EventByID(ctx, 10)
	assert.False(t, ok)

	err = svc.DeleteEvent(ctx, 99)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}

func TestService_UpsertOnDefaultsPersists(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	c, isNew, err := svc.UpsertCoordinator(ctx, domain.Coordinator{Name: "New Member", Role: "Events"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, len(DefaultCoordinators())+1, c.ID)
	assert.Equal(t, 1, store.Len())

	got, ok := svc.CoordinatorByID(ctx, c.ID)
	require.True(t, ok)
	assert.Equal(t, "New Member", got.Name)

	require.NoError(t, svc.DeleteCoordinator(ctx, c.ID))
	assert.Equal(t, DefaultCoordinators(), svc.GetCoordinators(ctx))
	assert.Error(t, svc.DeleteCoordinator(ctx, c.ID))
}

func TestService_UpsertClub(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	club, _, err := svc.UpsertClub(ctx, domain.Club{Name: "Design Club", Objectives: []string{"critique"}})
	require.NoError(t, err)

	got, ok := svc.ClubByID(ctx, club.ID)
	require.True(t, ok)
	assert.Equal(t, "Design Club", got.Name)

	require.NoError(t, svc.DeleteClub(ctx, club.ID))
	_, ok = svc.ClubByID(ctx, club.ID)
	assert.False(t, ok)
	assert.Error(t, svc.DeleteClub(ctx, club.ID))
}

func TestService_Gallery(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.SaveGalleryImages(ctx, []string{"/a.jpg", "/b.jpg", "/c.jpg"}))

	images, err := svc.AddGalleryImage(ctx, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg", "/c.jpg", "data:image/png;base64,AAAA"}, images)

	_, err = svc.AddGalleryImage(ctx, "  ")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	images, err = svc.RemoveGalleryImage(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.jpg", "/c.jpg", "data:image/png;base64,AAAA"}, images)
	assert.Equal(t, images, svc.GetGalleryImages(ctx))

	for _, idx := range []int{-1, 3, 100} {
		_, err = svc.RemoveGalleryImage(ctx, idx)
		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation), idx)
	}

	images, err = svc.AddGalleryImages(ctx, []string{"/d.jpg", "", "/e.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.jpg", "/c.jpg", "data:image/png;base64,AAAA", "/d.jpg", "/e.jpg"}, images)
}

func TestKinds(t *testing.T) {
	for _, k := range Kinds() {
		parsed, ok := ParseKind(string(k))
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseKind("registrations")
	assert.False(t, ok)

	assert.Equal(t, "content:events", SlotKey(KindEvents))
	assert.Equal(t, "registrations:event:3", RegistrationKey(3))
}
