package comment

import (
	"context"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/market-front/domain"
	"github.com/Guyuepp/market-front/internal/usecase/listener"
)

// Store holds the comment list of the product currently being viewed.
// The list is only ever replaced by a fetch; mutations go to the backend and are
// followed by a refetch.
type Store struct {
	api domain.CommentAPI

	mu    sync.RWMutex
	state domain.CommentState
	// seq numbers the issued fetches, only the latest one may write state
	seq uint64

	version        uint64
	threads        []domain.CommentThread
	threadsVersion uint64

	listeners listener.Set
}

var _ domain.CommentTreeUsecase = (*Store)(nil)

func NewStore(api domain.CommentAPI) *Store {
	return &Store{
		api:   api,
		state: domain.CommentState{Comments: []domain.Comment{}},
		// threads are stale until the first Threads call
		threadsVersion: ^uint64(0),
	}
}

// FetchComments replaces the list with the backend's list for productID.
// A failure keeps the previous list and is recorded in State().Err.
func (s *Store) FetchComments(ctx context.Context, productID domain.ID) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.ProductID = productID
	s.state.Loading = true
	s.mu.Unlock()
	s.emit(productID)

	comments, err := s.api.FetchComments(ctx, productID)

	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		logrus.Debugf("dropping stale comment list of product %s", productID)
		return
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err
		s.mu.Unlock()
		logrus.Warnf("failed to fetch comments of product %s: %v", productID, err)
		s.emit(productID)
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	s.state.Comments = comments
	s.state.CommentsProductID = productID
	s.state.Err = nil
	s.version++
	s.mu.Unlock()
	s.emit(productID)
}

func (s *Store) CreateComment(ctx context.Context, productID domain.ID, content string, parentID *domain.ID) error {
	if err := s.api.CreateComment(ctx, productID, content, parentID); err != nil {
		return err
	}
	s.resync(ctx, productID)
	return nil
}

func (s *Store) UpdateComment(ctx context.Context, commentID domain.ID, content string, productID domain.ID) error {
	if err := s.api.UpdateComment(ctx, commentID, content); err != nil {
		return err
	}
	s.resync(ctx, productID)
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, commentID domain.ID, productID domain.ID) error {
	if err := s.api.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.resync(ctx, productID)
	return nil
}

// resync refetches after a successful mutation. A failed refetch leaves the old list
// visible; that is recorded in state and not returned to the caller.
func (s *Store) resync(ctx context.Context, productID domain.ID) {
	s.mu.RLock()
	target := s.state.ProductID
	s.mu.RUnlock()
	if !target.IsZero() && target != productID {
		logrus.Debugf("skip comment resync of product %s, store now shows %s", productID, target)
		return
	}
	s.FetchComments(ctx, productID)
}

func (s *Store) State() domain.CommentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Threads returns the two-level tree of the current list. It is rebuilt only after
// the list changed; every caller gets its own copy.
func (s *Store) Threads() []domain.CommentThread {
	s.mu.RLock()
	if s.threadsVersion == s.version {
		threads := s.threads
		s.mu.RUnlock()
		return cloneThreads(threads)
	}
	comments, version := s.state.Comments, s.version
	s.mu.RUnlock()

	threads := BuildThreads(comments)

	s.mu.Lock()
	if s.version == version {
		s.threads = threads
		s.threadsVersion = version
	}
	s.mu.Unlock()
	return cloneThreads(threads)
}

func cloneThreads(threads []domain.CommentThread) []domain.CommentThread {
	out := slices.Clone(threads)
	for i := range out {
		out[i].Replies = slices.Clone(out[i].Replies)
	}
	return out
}

func (s *Store) Subscribe(l domain.Listener) func() {
	return s.listeners.Add(l)
}

func (s *Store) emit(productID domain.ID) {
	s.listeners.Emit(domain.StoreEvent{Kind: domain.CommentsChanged, ProductID: productID})
}
