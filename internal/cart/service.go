package cart

import (
	"context"
	"sync"

	"planeta-be/internal/logger"
	"planeta-be/internal/storage"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// SessionListener is told about changes to any session's cart.
type SessionListener interface {
	CartChanged(ctx context.Context, sessionID string, snap Snapshot)
}

// SessionListenerFunc adapts a function to SessionListener.
type SessionListenerFunc func(ctx context.Context, sessionID string, snap Snapshot)

func (f SessionListenerFunc) CartChanged(ctx context.Context, sessionID string, snap Snapshot) {
	f(ctx, sessionID, snap)
}

// Service keeps one Store per cart session. Live stores are held in an LRU;
// an evicted session is reloaded from storage on its next request.
type Service interface {
	Snapshot(ctx context.Context, sessionID string) (Snapshot, error)
	Count(ctx context.Context, sessionID string) (int, error)
	Add(ctx context.Context, sessionID string, item LineItem) (Snapshot, error)
	SetQty(ctx context.Context, sessionID, lineID string, qty float64) (Snapshot, error)
	Increment(ctx context.Context, sessionID, lineID string) (Snapshot, error)
	Decrement(ctx context.Context, sessionID, lineID string) (Snapshot, error)
	Remove(ctx context.Context, sessionID, lineID string) (Snapshot, error)
	Clear(ctx context.Context, sessionID string) (Snapshot, error)
}

type ServiceConfig struct {
	Storage               storage.Store
	KeyPrefix             string
	FreeShippingThreshold Money
	DefaultCurrency       string
	MaxLiveSessions       int
	Listeners             []SessionListener
}

type service struct {
	cfg    ServiceConfig
	mu     sync.Mutex
	stores *lru.Cache[string, *Store]
}

func NewService(cfg ServiceConfig) Service {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultStorageKey
	}
	if cfg.MaxLiveSessions <= 0 {
		cfg.MaxLiveSessions = 10000
	}

	stores, err := lru.New[string, *Store](cfg.MaxLiveSessions)
	if err != nil {
		// only returned for a non-positive size, which is ruled out above
		panic(err)
	}

	return &service{cfg: cfg, stores: stores}
}

// store returns the live store for a session, loading it on first use.
func (s *service) store(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stores.Get(sessionID); ok {
		return st, nil
	}

	st := NewStore(ctx, Options{
		Key:                   s.cfg.KeyPrefix + ":" + sessionID,
		Storage:               s.cfg.Storage,
		FreeShippingThreshold: s.cfg.FreeShippingThreshold,
		DefaultCurrency:       s.cfg.DefaultCurrency,
	})
	for _, l := range s.cfg.Listeners {
		l := l // per-iteration copy; go.mod targets go1.21 loop semantics
		st.Subscribe(func(ctx context.Context, snap Snapshot) {
			l.CartChanged(ctx, sessionID, snap)
		})
	}
	s.stores.Add(sessionID, st)

	logger.FromCtx(ctx).Debug("cart session loaded",
		zap.String("layer", "service"),
		zap.Int("items_count", st.ItemsCount()),
	)
	return st, nil
}

func (s *service) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	st, err := s.store(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return st.Snapshot(), nil
}

func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	st, err := s.store(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return st.ItemsCount(), nil
}

func (s *service) Add(ctx context.Context, sessionID string, item LineItem) (Snapshot, error) {
	if item.ID == "" {
		return Snapshot{}, ErrLineIDRequired
	}
	st, err := s.store(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}

	st.Add(ctx, item)

	logger.FromCtx(ctx).Info("cart item added",
		zap.String("layer", "service"),
		zap.String("method", "Add"),
		zap.String("line_id", item.ID),
		zap.Int("qty", max(1, item.Qty)),
	)
	return st.Snapshot(), nil
}

func (s *service) SetQty(ctx context.Context, sessionID, lineID string, qty float64) (Snapshot, error) {
	return s.onLine(ctx, sessionID, lineID, func(st *Store) { st.SetQty(ctx, lineID, qty) })
}

func (s *service) Increment(ctx context.Context, sessionID, lineID string) (Snapshot, error) {
	return s.onLine(ctx, sessionID, lineID, func(st *Store) { st.Inc(ctx, lineID) })
}

func (s *service) Decrement(ctx context.Context, sessionID, lineID string) (Snapshot, error) {
	return s.onLine(ctx, sessionID, lineID, func(st *Store) { st.Dec(ctx, lineID) })
}

func (s *service) Remove(ctx context.Context, sessionID, lineID string) (Snapshot, error) {
	return s.onLine(ctx, sessionID, lineID, func(st *Store) { st.Remove(ctx, lineID) })
}

func (s *service) Clear(ctx context.Context, sessionID string) (Snapshot, error) {
	st, err := s.store(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	st.Clear(ctx)
	return st.Snapshot(), nil
}

// onLine runs fn against the session's store after checking that the line
// exists, so callers can tell an unknown line from a no-op.
func (s *service) onLine(ctx context.Context, sessionID, lineID string, fn func(*Store)) (Snapshot, error) {
	if lineID == "" {
		return Snapshot{}, ErrLineIDRequired
	}
	st, err := s.store(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	if !st.Has(lineID) {
		return Snapshot{}, ErrCartItemNotFound
	}
	fn(st)
	return st.Snapshot(), nil
}
