package service

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/infra/store"
	"github.com/travisk/storage-dashboard-go/internal/port"
)

// FavoritesService keeps the starred project ids in memory and persists them
// best-effort: a failed save is logged and otherwise ignored, so the feature
// degrades to session-only instead of erroring.
type FavoritesService struct {
	mu    sync.Mutex
	ids   []int
	index map[int]bool

	snap   *store.Snapshot
	store  port.FavoritesStore
	logger *zap.Logger
}

// NewFavoritesService loads the persisted set. A load failure starts empty.
func NewFavoritesService(fs port.FavoritesStore, snap *store.Snapshot, logger *zap.Logger) *FavoritesService {
	s := &FavoritesService{
		index:  make(map[int]bool),
		snap:   snap,
		store:  fs,
		logger: logger,
	}

	ids, err := fs.Load()
	if err != nil {
		logger.Warn("favorites: load failed, starting empty", zap.Error(err))
		ids = nil
	}
	for _, id := range ids {
		if !s.index[id] {
			s.index[id] = true
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// List returns the starred ids in insertion order.
func (s *FavoritesService) List(ctx context.Context) []int {
	_, span := tracer.Start(ctx, "FavoritesService.List")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}

// Add stars a project. Adding an already-starred id is a no-op.
func (s *FavoritesService) Add(ctx context.Context, id int) error {
	_, span := tracer.Start(ctx, "FavoritesService.Add")
	defer span.End()

	if err := s.validate(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index[id] {
		return nil
	}
	s.index[id] = true
	s.ids = append(s.ids, id)
	s.persist()
	return nil
}

// Remove unstars a project. Removing an unknown id is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, id int) error {
	_, span := tracer.Start(ctx, "FavoritesService.Remove")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.index[id] {
		return nil
	}
	delete(s.index, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	s.persist()
	return nil
}

// Toggle flips membership and reports whether the project is now starred.
// An even number of toggles always restores the original state.
func (s *FavoritesService) Toggle(ctx context.Context, id int) (bool, error) {
	_, span := tracer.Start(ctx, "FavoritesService.Toggle")
	defer span.End()

	if err := s.validate(id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index[id] {
		delete(s.index, id)
		for i, existing := range s.ids {
			if existing == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
		s.persist()
		return false, nil
	}

	s.index[id] = true
	s.ids = append(s.ids, id)
	s.persist()
	return true, nil
}

// Clear unstars everything.
func (s *FavoritesService) Clear(ctx context.Context) {
	_, span := tracer.Start(ctx, "FavoritesService.Clear")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return
	}
	s.ids = nil
	s.index = make(map[int]bool)
	s.persist()
}

func (s *FavoritesService) validate(id int) error {
	if s.snap.ProjectByID(id) == nil {
		return &domain.ErrNotFound{Resource: "project", ID: strconv.Itoa(id)}
	}
	return nil
}

// persist writes the current set; the caller must hold the lock. Failures
// are deliberately swallowed after logging.
func (s *FavoritesService) persist() {
	if err := s.store.Save(s.ids); err != nil {
		s.logger.Warn("favorites: save failed", zap.Error(err))
	}
}
