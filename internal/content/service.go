package content

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"clubsite/internal/domain"
)

// Option configures a Service
type Option func(*Service)

// WithSelfHeal controls whether corrupt slots are deleted on read
func WithSelfHeal(enabled bool) Option {
	return func(s *Service) { s.selfHeal = enabled }
}

// WithNow replaces time.Now for document timestamps
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service resolves each content kind to its persisted document or the
// compiled defaults. Reads never fail; writes replace a slot wholesale.
type Service struct {
	store    Store
	log      *zap.Logger
	selfHeal bool
	now      func() time.Time

	mu     sync.Mutex
	warned map[Kind]bool

	watch watchers
}

// NewService creates a content service over store
func NewService(store Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:    store,
		log:      log.Named("content"),
		selfHeal: true,
		now:      time.Now,
		warned:   make(map[Kind]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the underlying key-value store
func (s *Service) Store() Store {
	return s.store
}

// GetEvents returns the persisted events or the defaults
func (s *Service) GetEvents(ctx context.Context) []domain.Event {
	doc, ok := s.load(ctx, KindEvents)
	if !ok {
		return DefaultEvents()
	}
	events, err := decodeItems[domain.Event](doc)
	if err != nil {
		s.fallback(ctx, KindEvents, err)
		return DefaultEvents()
	}
	if doc.Version < CurrentVersion && migrateEvents(events) {
		s.log.Debug("migrated legacy event dates in memory", zap.Int("version", doc.Version))
	}
	return events
}

// GetCoordinators returns the persisted coordinators or the defaults
func (s *Service) GetCoordinators(ctx context.Context) []domain.Coordinator {
	return resolve(ctx, s, KindCoordinators, DefaultCoordinators)
}

// GetClubs returns the persisted clubs or the defaults
func (s *Service) GetClubs(ctx context.Context) []domain.Club {
	return resolve(ctx, s, KindClubs, DefaultClubs)
}

// GetGalleryImages returns the persisted gallery or the defaults
func (s *Service) GetGalleryImages(ctx context.Context) []string {
	return resolve(ctx, s, KindGallery, DefaultGallery)
}

// SaveEvents replaces the events slot
func (s *Service) SaveEvents(ctx context.Context, events []domain.Event) error {
	return save(ctx, s, KindEvents, events)
}

// SaveCoordinators replaces the coordinators slot
func (s *Service) SaveCoordinators(ctx context.Context, coordinators []domain.Coordinator) error {
	return save(ctx, s, KindCoordinators, coordinators)
}

// SaveClubs replaces the clubs slot
func (s *Service) SaveClubs(ctx context.Context, clubs []domain.Club) error {
	return save(ctx, s, KindClubs, clubs)
}

// SaveGalleryImages replaces the gallery slot
func (s *Service) SaveGalleryImages(ctx context.Context, images []string) error {
	return save(ctx, s, KindGallery, images)
}

// Reset deletes a slot so reads fall back to the defaults
func (s *Service) Reset(ctx context.Context, kind Kind) error {
	if err := s.store.Delete(ctx, SlotKey(kind)); err != nil {
		return keyError("reset", string(kind), err)
	}
	s.clearWarning(kind)
	s.notify(kind)
	s.log.Info("content slot reset", zap.String("kind", string(kind)))
	return nil
}

// Raw returns the stored document of a slot as-is
func (s *Service) Raw(ctx context.Context, kind Kind) (string, bool, error) {
	return s.store.Get(ctx, SlotKey(kind))
}

// RestoreRaw writes a previously captured document back into its slot.
// The value must decode as a document of the same kind.
func (s *Service) RestoreRaw(ctx context.Context, kind Kind, raw string) error {
	if _, err := decodeDocument(kind, raw); err != nil {
		return err
	}
	if err := s.store.Set(ctx, SlotKey(kind), raw); err != nil {
		return keyError("restore", string(kind), err)
	}
	s.clearWarning(kind)
	s.notify(kind)
	return nil
}

// Upgrade rewrites an older document at the current version.
// It returns false when the slot is absent or already current.
func (s *Service) Upgrade(ctx context.Context, kind Kind) (bool, error) {
	raw, found, err := s.store.Get(ctx, SlotKey(kind))
	if err != nil || !found {
		return false, err
	}
	doc, err := decodeDocument(kind, raw)
	if err != nil {
		return false, err
	}
	if doc.Version >= CurrentVersion {
		return false, nil
	}

	switch kind {
	case KindEvents:
		items, err := decodeItems[domain.Event](doc)
		if err != nil {
			return false, err
		}
		migrateEvents(items)
		return true, s.SaveEvents(ctx, items)
	case KindCoordinators:
		return upgrade[domain.Coordinator](ctx, s, doc)
	case KindClubs:
		return upgrade[domain.Club](ctx, s, doc)
	default:
		return upgrade[string](ctx, s, doc)
	}
}

func upgrade[T any](ctx context.Context, s *Service, doc Document) (bool, error) {
	items, err := decodeItems[T](doc)
	if err != nil {
		return false, err
	}
	return true, save(ctx, s, doc.Kind, items)
}

// load reads and decodes a slot; ok is false when defaults should be used
func (s *Service) load(ctx context.Context, kind Kind) (Document, bool) {
	raw, found, err := s.store.Get(ctx, SlotKey(kind))
	if err != nil {
		s.warnOnce(kind, "content store read failed, using defaults", err)
		return Document{}, false
	}
	if !found {
		return Document{}, false
	}
	doc, err := decodeDocument(kind, raw)
	if err != nil {
		s.fallback(ctx, kind, err)
		return Document{}, false
	}
	if doc.Version > CurrentVersion {
		s.log.Debug("reading newer content document",
			zap.String("kind", string(kind)), zap.Int("version", doc.Version))
	}
	s.clearWarning(kind)
	return doc, true
}

// fallback handles a slot whose value is present but unusable
func (s *Service) fallback(ctx context.Context, kind Kind, cause error) {
	s.warnOnce(kind, "corrupt content slot, using defaults", cause)
	if !s.selfHeal {
		return
	}
	if err := s.store.Delete(ctx, SlotKey(kind)); err != nil {
		s.log.Warn("failed to clear corrupt content slot", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	s.log.Info("cleared corrupt content slot", zap.String("kind", string(kind)))
}

func (s *Service) warnOnce(kind Kind, msg string, err error) {
	s.mu.Lock()
	already := s.warned[kind]
	s.warned[kind] = true
	s.mu.Unlock()
	if already {
		return
	}
	s.log.Warn(msg, zap.String("kind", string(kind)), zap.Error(err))
}

func (s *Service) clearWarning(kind Kind) {
	s.mu.Lock()
	delete(s.warned, kind)
	s.mu.Unlock()
}

func resolve[T any](ctx context.Context, s *Service, kind Kind, fallback func() []T) []T {
	doc, ok := s.load(ctx, kind)
	if !ok {
		return fallback()
	}
	items, err := decodeItems[T](doc)
	if err != nil {
		s.fallback(ctx, kind, err)
		return fallback()
	}
	return items
}

func save[T any](ctx context.Context, s *Service, kind Kind, items []T) error {
	raw, err := encodeDocument(kind, items, s.now())
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, SlotKey(kind), raw); err != nil {
		return keyError("save", string(kind), err)
	}
	s.clearWarning(kind)
	s.notify(kind)
	s.log.Debug("content slot saved", zap.String("kind", string(kind)), zap.Int("items", len(items)))
	return nil
}
