package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubsite/internal/countdown"
	"clubsite/internal/domain"
	apperrors "clubsite/pkg/errors"
)

// UpcomingEvents filters events by their author-set status
func UpcomingEvents(events []domain.Event) []domain.Event {
	return filterStatus(events, domain.EventStatusUpcoming)
}

// PastEvents filters events by their author-set status
func PastEvents(events []domain.Event) []domain.Event {
	return filterStatus(events, domain.EventStatusPast)
}

func filterStatus(events []domain.Event, status domain.EventStatus) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// EventCategories lists distinct categories in first-seen order
func EventCategories(events []domain.Event) []string {
	seen := make(map[string]struct{}, len(events))
	out := make([]string, 0)
	for _, e := range events {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// EventYears lists distinct event years in first-seen order.
// Events whose date cannot be read are skipped.
func EventYears(events []domain.Event) []int {
	seen := make(map[int]struct{}, len(events))
	out := make([]int, 0)
	for _, e := range events {
		y, _, _, ok := countdown.ParseDate(e.Date, time.UTC)
		if !ok {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	return out
}

// EventFilter narrows an event listing; zero fields match everything
type EventFilter struct {
	Status   domain.EventStatus
	Category string
	Year     int
}

// FilterEvents applies f to events, keeping their order
func FilterEvents(events []domain.Event, f EventFilter) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
			continue
		}
		if f.Year != 0 {
			y, _, _, ok := countdown.ParseDate(e.Date, time.UTC)
			if !ok || y != f.Year {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

type identified interface {
	GetID() int
}

// FindByID does a linear search by id
func FindByID[T identified](items []T, id int) (T, bool) {
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// nextID is one more than the largest id in use
func nextID[T identified](items []T) int {
	maxID := 0
	for _, item := range items {
		if item.GetID() > maxID {
			maxID = item.GetID()
		}
	}
	return maxID + 1
}

// upsert replaces the item with the same id or appends it.
// Appended items with a zero id get max(id)+1.
func upsert[T identified, PT interface {
	*T
	identified
	SetID(int)
}](items []T, item T) ([]T, T, bool) {
	id := item.GetID()
	if id != 0 {
		for i := range items {
			if items[i].GetID() == id {
				items[i] = item
				return items, item, false
			}
		}
	}
	if id == 0 {
		PT(&item).SetID(nextID(items))
	}
	return append(items, item), item, true
}

func remove[T identified](items []T, id int) ([]T, bool) {
	for i := range items {
		if items[i].GetID() == id {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}

// EventByID resolves the events and looks one up
func (s *Service) EventByID(ctx context.Context, id int) (domain.Event, bool) {
	return FindByID(s.GetEvents(ctx), id)
}

// CoordinatorByID resolves the coordinators and looks one up
func (s *Service) CoordinatorByID(ctx context.Context, id int) (domain.Coordinator, bool) {
	return FindByID(s.GetCoordinators(ctx), id)
}

// ClubByID resolves the clubs and looks one up
func (s *Service) ClubByID(ctx context.Context, id int) (domain.Club, bool) {
	return FindByID(s.GetClubs(ctx), id)
}

// UpsertEvent stores a new or edited event and returns it with its id.
// created reports whether the event was appended.
func (s *Service) UpsertEvent(ctx context.Context, event domain.Event) (domain.Event, bool, error) {
	events, saved, created := upsert(s.GetEvents(ctx), event)
	return saved, created, s.SaveEvents(ctx, events)
}

// DeleteEvent removes an event by id
func (s *Service) DeleteEvent(ctx context.Context, id int) error {
	events, ok := remove(s.GetEvents(ctx), id)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("event %d not found", id))
	}
	return s.SaveEvents(ctx, events)
}

// UpsertCoordinator stores a new or edited coordinator
func (s *Service) UpsertCoordinator(ctx context.Context, c domain.Coordinator) (domain.Coordinator, bool, error) {
	items, saved, created := upsert(s.GetCoordinators(ctx), c)
	return saved, created, s.SaveCoordinators(ctx, items)
}

// DeleteCoordinator removes a coordinator by id
func (s *Service) DeleteCoordinator(ctx context.Context, id int) error {
	items, ok := remove(s.GetCoordinators(ctx), id)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("coordinator %d not found", id))
	}
	return s.SaveCoordinators(ctx, items)
}

// UpsertClub stores a new or edited club
func (s *Service) UpsertClub(ctx context.Context, c domain.Club) (domain.Club, bool, error) {
	items, saved, created := upsert(s.GetClubs(ctx), c)
	return saved, created, s.SaveClubs(ctx, items)
}

// DeleteClub removes a club by id
func (s *Service) DeleteClub(ctx context.Context, id int) error {
	items, ok := remove(s.GetClubs(ctx), id)
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("club %d not found", id))
	}
	return s.SaveClubs(ctx, items)
}

// AddGalleryImage appends an image URL or data URI to the gallery
func (s *Service) AddGalleryImage(ctx context.Context, image string) ([]string, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, apperrors.NewValidationError("image is required", nil)
	}
	images := append(s.GetGalleryImages(ctx), image)
	return images, s.SaveGalleryImages(ctx, images)
}

// AddGalleryImages appends several images in one write
func (s *Service) AddGalleryImages(ctx context.Context, images []string) ([]string, error) {
	current := s.GetGalleryImages(ctx)
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			current = append(current, img)
		}
	}
	return current, s.SaveGalleryImages(ctx, current)
}

// RemoveGalleryImage removes the image at index
func (s *Service) RemoveGalleryImage(ctx context.Context, index int) ([]string, error) {
	images := s.GetGalleryImages(ctx)
	if index < 0 || index >= len(images) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("gallery index %d out of range", index),
			map[string]interface{}{"index": index, "length": len(images)},
		)
	}
	images = append(images[:index:index], images[index+1:]...)
	return images, s.SaveGalleryImages(ctx, images)
}
