package cart

import (
	"context"
	"slices"
	"sync"

	"planeta-be/internal/logger"
	"planeta-be/internal/storage"

	"go.uber.org/zap"
)

const DefaultStorageKey = "beatovic_cart_v1"

// Listener receives the fresh snapshot after every cart change.
type Listener func(ctx context.Context, snap Snapshot)

type Options struct {
	// Key under which the line list is persisted. Defaults to DefaultStorageKey.
	Key string
	// Storage is where lines are persisted. Nil disables persistence.
	Storage               storage.Store
	FreeShippingThreshold Money
	DefaultCurrency       string
}

// Store is the single source of truth for one shopping cart. Every mutation
// is applied synchronously and then persisted; persistence failures are
// logged and otherwise ignored, the in-memory lines stay authoritative.
type Store struct {
	mu        sync.Mutex
	key       string
	storage   storage.Store
	threshold Money
	currency  string
	items     []LineItem

	listeners map[int]Listener
	nextID    int

	// Changes are numbered under mu and delivered to listeners strictly in
	// that order, so the last snapshot a listener sees is the current one.
	deliverMu sync.Mutex
	turn      *sync.Cond
	issued    uint64
	delivered uint64
}

// NewStore builds a store and loads any previously persisted lines. Stored
// content that cannot be read results in an empty cart.
func NewStore(ctx context.Context, opts Options) *Store {
	s := &Store{
		key:       opts.Key,
		storage:   opts.Storage,
		threshold: opts.FreeShippingThreshold,
		currency:  opts.DefaultCurrency,
		listeners: make(map[int]Listener),
	}
	s.turn = sync.NewCond(&s.deliverMu)
	if s.key == "" {
		s.key = DefaultStorageKey
	}
	if s.storage == nil {
		s.storage = storage.Nop{}
	}
	if s.currency == "" {
		s.currency = DefaultCurrency
	}
	if s.threshold.Currency == "" {
		s.threshold = NewMoney(99.99, DefaultCurrency)
	}

	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []LineItem {
	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to read stored cart, starting empty",
			zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	return decodeLines(raw)
}

// Subscribe registers fn to be called after every change. The returned func
// removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Add merges item into the line with the same id, or appends it. A missing or
// non-positive Qty counts as 1.
func (s *Store) Add(ctx context.Context, item LineItem) {
	qty := max(1, item.Qty)
	item = cloneLines([]LineItem{item})[0]

	s.mutate(ctx, func(items []LineItem) []LineItem {
		if i := indexOf(items, item.ID); i >= 0 {
			items[i].Qty += qty
			return items
		}
		item.Qty = qty
		return append(items, item)
	})
}

// SetQty floors qty and clamps it to at least 1. Unknown ids are ignored.
func (s *Store) SetQty(ctx context.Context, id string, qty float64) {
	q := clampQty(qty)
	s.mutateLine(ctx, id, func(l *LineItem) bool {
		l.Qty = q
		return true
	})
}

func (s *Store) Inc(ctx context.Context, id string) {
	s.mutateLine(ctx, id, func(l *LineItem) bool {
		l.Qty++
		return true
	})
}

// Dec never takes a line below 1; removing a line is always explicit.
func (s *Store) Dec(ctx context.Context, id string) {
	s.mutateLine(ctx, id, func(l *LineItem) bool {
		if l.Qty <= 1 {
			return false
		}
		l.Qty--
		return true
	})
}

func (s *Store) Remove(ctx context.Context, id string) {
	s.mutate(ctx, func(items []LineItem) []LineItem {
		return slices.DeleteFunc(items, func(l LineItem) bool { return l.ID == id })
	})
}

func (s *Store) Clear(ctx context.Context) {
	s.mutate(ctx, func([]LineItem) []LineItem { return nil })
}

func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.items, id) >= 0
}

func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.items)
}

func (s *Store) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemsCount(s.items)
}

func (s *Store) Subtotal() Money {
	return s.Snapshot().Subtotal
}

func (s *Store) AmountToFreeShipping() Money {
	return s.Snapshot().AmountToFreeShipping
}

func (s *Store) FreeShippingProgress() float64 {
	return s.Snapshot().FreeShippingProgress
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return snapshotOf(cloneLines(s.items), s.threshold, s.currency)
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

// mutate applies fn to a private copy of the lines, swaps it in, persists and
// notifies listeners. Readers never see a half-applied change.
func (s *Store) mutate(ctx context.Context, fn func([]LineItem) []LineItem) {
	s.mu.Lock()
	s.items = fn(cloneLines(s.items))
	s.persistLocked(ctx)
	ticket, snap, listeners := s.changedLocked()
	s.mu.Unlock()

	s.deliver(ctx, ticket, listeners, snap)
}

// mutateLine runs fn on the line with the given id; fn reports whether it
// changed anything.
func (s *Store) mutateLine(ctx context.Context, id string, fn func(*LineItem) bool) {
	s.mu.Lock()
	i := indexOf(s.items, id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	next := cloneLines(s.items)
	if !fn(&next[i]) {
		s.mu.Unlock()
		return
	}
	s.items = next
	s.persistLocked(ctx)
	ticket, snap, listeners := s.changedLocked()
	s.mu.Unlock()

	s.deliver(ctx, ticket, listeners, snap)
}

func (s *Store) persistLocked(ctx context.Context) {
	raw, err := encodeLines(s.items)
	if err == nil {
		err = s.storage.Set(ctx, s.key, raw)
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to persist cart",
			zap.String("key", s.key), zap.Error(err))
	}
}

// changedLocked numbers a change and captures what its listeners receive.
func (s *Store) changedLocked() (uint64, Snapshot, []Listener) {
	ticket := s.issued
	s.issued++
	return ticket, s.snapshotLocked(), s.listenersLocked()
}

// deliver waits for every earlier change to be delivered before calling the
// listeners. Listeners must not mutate the store they are subscribed to.
func (s *Store) deliver(ctx context.Context, ticket uint64, listeners []Listener, snap Snapshot) {
	s.deliverMu.Lock()
	for s.delivered != ticket {
		s.turn.Wait()
	}
	s.deliverMu.Unlock()

	defer func() {
		s.deliverMu.Lock()
		s.delivered++
		s.turn.Broadcast()
		s.deliverMu.Unlock()
	}()
	for _, l := range listeners {
		l(ctx, snap)
	}
}

func indexOf(items []LineItem, id string) int {
	return slices.IndexFunc(items, func(l LineItem) bool { return l.ID == id })
}

// cloneLines copies the slice and the pointer fields of each line.
func cloneLines(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		if it.Size != nil {
			size := *it.Size
			it.Size = &size
		}
		if it.Image != nil {
			img := *it.Image
			it.Image = &img
		}
		out[i] = it
	}
	return out
}
