// Package service holds the data-access contract for shows and its
// implementation on top of the repositories.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/ticket-shop/internal/logging"
	"github.com/iliyamo/ticket-shop/internal/model"
	"github.com/iliyamo/ticket-shop/internal/queue"
	"github.com/iliyamo/ticket-shop/internal/repository"
)

var (
	// ErrShowNotFound is returned by Edit when the target show does not exist.
	ErrShowNotFound = repository.ErrShowNotFound
	// ErrIDRequired is returned by Delete when called without an id.
	ErrIDRequired = errors.New("show id is required")
	// ErrInvalidShow wraps every validation failure of a show value.
	ErrInvalidShow = errors.New("invalid show")
)

// ShowService is the set of operations available on shows.  Lookups by
// id return a nil show and a nil error when nothing matches; only Edit
// treats a missing show as a failure.
type ShowService interface {
	GetAll(ctx context.Context) ([]model.Show, error)
	GetAllByEvent(ctx context.Context, eventID uint64) ([]model.Show, error)
	GetSingleOrDefault(ctx context.Context, id uint64) (*model.Show, error)
	Create(ctx context.Context, s model.Show) (*model.Show, error)
	Edit(ctx context.Context, id uint64, s model.Show) (*model.Show, error)
	Delete(ctx context.Context, id *uint64) (*model.Show, error)
}

// ShowStore is the persistence ShowService needs.  *repository.ShowRepo
// implements it.
type ShowStore interface {
	ListAll(ctx context.Context) ([]model.Show, error)
	ListByEvent(ctx context.Context, eventID uint64) ([]model.Show, error)
	GetByID(ctx context.Context, id uint64) (*model.Show, error)
	Create(ctx context.Context, s *model.Show) error
	Update(ctx context.Context, s *model.Show) error
	Delete(ctx context.Context, id uint64) (*model.Show, error)
}

// ChangeNotifier is told about every committed mutation.
type ChangeNotifier interface {
	ShowChanged(ctx context.Context, kind queue.ChangeKind, s model.Show) error
}

// CacheInvalidator drops cached reads after a mutation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Shows implements ShowService.  It is built per unit of work around a
// store bound to that unit's persistence context.
type Shows struct {
	store    ShowStore
	notifier ChangeNotifier
	cache    CacheInvalidator
}

var _ ShowService = (*Shows)(nil)

// NewShows returns a Shows.  notifier and cache may be nil.
func NewShows(store ShowStore, notifier ChangeNotifier, cache CacheInvalidator) *Shows {
	return &Shows{store: store, notifier: notifier, cache: cache}
}

func (s *Shows) GetAll(ctx context.Context) ([]model.Show, error) {
	return s.store.ListAll(ctx)
}

func (s *Shows) GetAllByEvent(ctx context.Context, eventID uint64) ([]model.Show, error) {
	return s.store.ListByEvent(ctx, eventID)
}

func (s *Shows) GetSingleOrDefault(ctx context.Context, id uint64) (*model.Show, error) {
	show, err := s.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrShowNotFound) {
		return nil, nil
	}
	return show, err
}

// Create persists a new show.  Any ID on the input is ignored; the store
// assigns one.
func (s *Shows) Create(ctx context.Context, show model.Show) (*model.Show, error) {
	if err := validate(&show); err != nil {
		return nil, err
	}
	show.ID = 0
	if err := s.store.Create(ctx, &show); err != nil {
		return nil, err
	}
	s.changed(ctx, queue.ShowCreated, show)
	return &show, nil
}

// Edit replaces every field of show id with the values of show.
func (s *Shows) Edit(ctx context.Context, id uint64, show model.Show) (*model.Show, error) {
	if err := validate(&show); err != nil {
		return nil, err
	}
	show.ID = id
	if err := s.store.Update(ctx, &show); err != nil {
		return nil, err
	}
	s.changed(ctx, queue.ShowUpdated, show)
	return &show, nil
}

// Delete removes show *id and returns it.  A nil id is rejected with
// ErrIDRequired and deletes nothing.
func (s *Shows) Delete(ctx context.Context, id *uint64) (*model.Show, error) {
	if id == nil {
		return nil, ErrIDRequired
	}
	show, err := s.store.Delete(ctx, *id)
	if errors.Is(err, repository.ErrShowNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.changed(ctx, queue.ShowDeleted, *show)
	return show, nil
}

// changed runs the post-commit hooks.  The mutation is already durable,
// so hook failures are logged and swallowed.
func (s *Shows) changed(ctx context.Context, kind queue.ChangeKind, show model.Show) {
	log := logging.FromContext(ctx).WithField("show_id", show.ID).WithField("kind", kind)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.WithError(err).Warn("show cache invalidation failed")
		}
	}
	if s.notifier != nil {
		if err := s.notifier.ShowChanged(ctx, kind, show); err != nil {
			log.WithError(err).Warn("show change notification failed")
		}
	}
	log.Info("show changed")
}

func validate(show *model.Show) error {
	show.Name = strings.TrimSpace(show.Name)
	if show.Name == "" {
		return errors.Wrap(ErrInvalidShow, "name is required")
	}
	if show.EventID == 0 {
		return errors.Wrap(ErrInvalidShow, "event_id is required")
	}
	if _, err := time.Parse(model.TimeLayout, show.StartsAt); err != nil {
		return errors.Wrapf(ErrInvalidShow, "starts_at must look like %q", model.TimeLayout)
	}
	return nil
}
