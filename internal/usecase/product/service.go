package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/market-front/domain"
)

const (
	DefaultCacheTTL = 30 * time.Second

	// a list load that overlapped a like toggle is retried this many times before it
	// is returned without seeding the like store
	maxStaleReloads = 2
)

// Service loads listing pages for one viewer and feeds what they report into the
// viewer's like cache.
type Service struct {
	api      domain.ProductAPI
	comments domain.CommentTreeUsecase
	likes    domain.LikeStateUsecase

	// cache may be nil, then every list fetch goes to the backend
	cache        domain.ProductCache
	viewer       string
	ttl          time.Duration
	rebuildGroup singleflight.Group

	// generation changes after every like change the list pages do not show yet.
	// Pages loaded under an older generation are neither cached nor used to seed likes.
	generation atomic.Uint64
	// seedMu orders seeding the like store against toggles; toggling counts the
	// toggles in flight, no page is seeded while one is.
	seedMu   sync.Mutex
	toggling int
}

var _ domain.ProductUsecase = (*Service)(nil)

// NewService will create a product service for the viewer session viewer.
func NewService(api domain.ProductAPI, comments domain.CommentTreeUsecase, likes domain.LikeStateUsecase,
	cache domain.ProductCache, viewer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		api:      api,
		comments: comments,
		likes:    likes,
		cache:    cache,
		viewer:   viewer,
		ttl:      ttl,
	}
}

// FetchProducts returns a list page and re-seeds the like cache from it.
// A page whose load overlapped a like toggle is loaded again, it may show the
// like state from before the toggle.
func (s *Service) FetchProducts(ctx context.Context, q domain.ProductQuery) (domain.ProductPage, error) {
	q = q.Normalize()

	for attempt := 0; ; attempt++ {
		gen := s.generation.Load()
		page, err := s.fetchPage(ctx, q, gen)
		if err != nil {
			return domain.ProductPage{}, err
		}
		if s.seedLikes(page, gen) {
			return page, nil
		}
		if attempt == maxStaleReloads {
			logrus.Warnf("product page of session %s kept racing like toggles, like state not seeded", s.viewer)
			return page, nil
		}
	}
}

// seedLikes replaces the like store with the page's like info unless a toggle
// started or finished since the page load began.
func (s *Service) seedLikes(page domain.ProductPage, gen uint64) bool {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	if s.toggling > 0 || s.generation.Load() != gen {
		return false
	}
	s.likes.InitializeLikes(page.LikeSeeds())
	return true
}

func (s *Service) fetchPage(ctx context.Context, q domain.ProductQuery, gen uint64) (domain.ProductPage, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPage(ctx, s.viewer, q)
		switch {
		case err == nil && cached.Generation == gen:
			if cached.Expired {
				go s.rebuildPage(context.WithoutCancel(ctx), q, gen)
			}
			return cached.Page, nil
		case err == nil:
			logrus.Debugf("ignoring product page of session %s cached before a like change", s.viewer)
		case !errors.Is(err, domain.ErrCacheMiss):
			logrus.Warnf("failed to get product page from cache: %v", err)
		}
	}

	v, err, _ := s.rebuildGroup.Do(groupKey(q, gen), func() (any, error) {
		return s.loadPage(ctx, q, gen)
	})
	if err != nil {
		return domain.ProductPage{}, err
	}
	return v.(domain.ProductPage), nil
}

// rebuildPage 异步重建逻辑过期的列表页
func (s *Service) rebuildPage(ctx context.Context, q domain.ProductQuery, gen uint64) {
	_, err, _ := s.rebuildGroup.Do(groupKey(q, gen), func() (any, error) {
		return s.loadPage(ctx, q, gen)
	})
	if err != nil {
		logrus.Errorf("rebuild product page cache failed: %v", err)
	}
}

func (s *Service) loadPage(ctx context.Context, q domain.ProductQuery, gen uint64) (domain.ProductPage, error) {
	page, err := s.api.FetchProducts(ctx, q)
	if err != nil {
		return domain.ProductPage{}, err
	}
	if s.cache == nil {
		return page, nil
	}
	if s.generation.Load() != gen {
		logrus.Debugf("not caching product page of session %s, likes changed during the load", s.viewer)
		return page, nil
	}
	if err := s.cache.SetPage(ctx, s.viewer, q, page, gen, s.ttl); err != nil {
		logrus.Warnf("failed to set product page cache: %v", err)
	}
	return page, nil
}

func groupKey(q domain.ProductQuery, gen uint64) string {
	return fmt.Sprintf("%d|%d|%d|%s|%s|%s", gen, q.Page, q.Size, q.Keyword, q.Category, q.Sort)
}

// LoadProductPage fetches the product and its comments side by side. A failed
// comment fetch is recorded in the comment state and does not fail the page.
func (s *Service) LoadProductPage(ctx context.Context, productID domain.ID) (domain.ProductDetailView, error) {
	var (
		g       errgroup.Group
		product domain.Product
	)
	g.Go(func() error {
		p, err := s.api.FetchProduct(ctx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	g.Go(func() error {
		s.comments.FetchComments(ctx, productID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.ProductDetailView{}, err
	}

	seed := product.LikeSeed()
	changed := s.likes.IsLiked(seed.ProductID) != seed.IsLiked || s.likes.GetLikeCount(seed.ProductID) != seed.LikeCount
	s.likes.MergeLikes([]domain.LikeSeed{seed})
	if changed {
		s.likesChanged(ctx)
	}
	return domain.ProductDetailView{
		Product:  product,
		Threads:  s.comments.Threads(),
		Comments: s.comments.State(),
	}, nil
}

func (s *Service) ReportProduct(ctx context.Context, productID domain.ID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.ErrEmptyContent
	}
	return s.api.ReportProduct(ctx, productID, reason)
}

// ToggleLike toggles through the like store. The cached pages are dropped before it
// returns.
func (s *Service) ToggleLike(ctx context.Context, productID domain.ID) (domain.LikeResult, error) {
	s.seedMu.Lock()
	s.toggling++
	s.seedMu.Unlock()

	res, err := s.likes.ToggleLike(ctx, productID)

	s.seedMu.Lock()
	s.toggling--
	if err == nil {
		s.generation.Add(1)
	}
	s.seedMu.Unlock()
	if err != nil {
		return domain.LikeResult{}, err
	}

	s.InvalidateCache(context.WithoutCancel(ctx))
	return res, nil
}

func (s *Service) likesChanged(ctx context.Context) {
	s.generation.Add(1)
	s.InvalidateCache(context.WithoutCancel(ctx))
}

// InvalidateCache drops the viewer's cached pages, their like flags may be stale.
func (s *Service) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateViewer(ctx, s.viewer); err != nil {
		logrus.Warnf("failed to invalidate product cache of session %s: %v", s.viewer, err)
	}
}
