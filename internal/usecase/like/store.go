package like

import (
	"context"
	"maps"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/usecase/listener"
)

// Store caches which products the viewer liked and every product's like count.
// It is a view cache: entries only ever come from backend responses.
// Every write builds new maps, a map handed out by Snapshot never changes.
type Store struct {
	api domain.LikeAPI

	mu     sync.RWMutex
	liked  map[domain.ID]struct{}
	counts map[domain.ID]int64

	// seq numbers issued toggles; applied keeps the newest applied toggle per product
	seq     uint64
	applied map[domain.ID]uint64
	// epoch changes on Reset so toggles of a previous viewer are ignored
	epoch uint64

	listeners listener.Set
}

var _ domain.LikeStateUsecase = (*Store)(nil)

func NewStore(api domain.LikeAPI) *Store {
	return &Store{
		api:     api,
		liked:   map[domain.ID]struct{}{},
		counts:  map[domain.ID]int64{},
		applied: map[domain.ID]uint64{},
	}
}

func (s *Store) InitializeLikes(seeds []domain.LikeSeed) {
	liked := make(map[domain.ID]struct{}, len(seeds))
	counts := make(map[domain.ID]int64, len(seeds))
	for _, seed := range seeds {
		if seed.IsLiked {
			liked[seed.ProductID] = struct{}{}
		}
		counts[seed.ProductID] = max(seed.LikeCount, 0)
	}

	s.mu.Lock()
	s.liked = liked
	s.counts = counts
	s.mu.Unlock()
	s.emit("")
}

func (s *Store) MergeLikes(seeds []domain.LikeSeed) {
	if len(seeds) == 0 {
		return
	}

	s.mu.Lock()
	liked := maps.Clone(s.liked)
	counts := maps.Clone(s.counts)
	for _, seed := range seeds {
		if seed.IsLiked {
			liked[seed.ProductID] = struct{}{}
		} else {
			delete(liked, seed.ProductID)
		}
		counts[seed.ProductID] = max(seed.LikeCount, 0)
	}
	s.liked = liked
	s.counts = counts
	s.mu.Unlock()

	if len(seeds) == 1 {
		s.emit(seeds[0].ProductID)
		return
	}
	s.emit("")
}

func (s *Store) IsLiked(productID domain.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.liked[productID]
	return ok
}

func (s *Store) GetLikeCount(productID domain.ID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[productID]
}

// ToggleLike asks the backend to flip the like and applies the state it reports.
// Nothing is changed before the response arrives, so a failure needs no rollback.
func (s *Store) ToggleLike(ctx context.Context, productID domain.ID) (domain.LikeResult, error) {
	s.mu.Lock()
	s.seq++
	seq, epoch := s.seq, s.epoch
	s.mu.Unlock()

	res, err := s.api.ToggleLike(ctx, productID)
	if err != nil {
		return domain.LikeResult{}, err
	}

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		logrus.Debugf("dropping like toggle of product %s issued before reset", productID)
		return res, nil
	}
	if seq < s.applied[productID] {
		s.mu.Unlock()
		logrus.Debugf("dropping out of order like toggle of product %s", productID)
		return res, nil
	}

	liked := maps.Clone(s.liked)
	if res.IsLiked {
		liked[productID] = struct{}{}
	} else {
		delete(liked, productID)
	}
	counts := maps.Clone(s.counts)
	counts[productID] = max(res.LikeCount, 0)

	applied := maps.Clone(s.applied)
	applied[productID] = seq

	s.liked = liked
	s.counts = counts
	s.applied = applied
	s.mu.Unlock()

	s.emit(productID)
	return res, nil
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.liked = map[domain.ID]struct{}{}
	s.counts = map[domain.ID]int64{}
	s.applied = map[domain.ID]uint64{}
	s.epoch++
	s.mu.Unlock()

	s.listeners.Emit(domain.StoreEvent{Kind: domain.SessionReset})
}

func (s *Store) Snapshot() domain.LikeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.LikeSnapshot{Liked: s.liked, Counts: s.counts}
}

func (s *Store) Subscribe(l domain.Listener) func() {
	return s.listeners.Add(l)
}

func (s *Store) emit(productID domain.ID) {
	s.listeners.Emit(domain.StoreEvent{Kind: domain.LikesChanged, ProductID: productID})
}
