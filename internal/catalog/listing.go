package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"planeta-be/internal/logger"
)

type RouteResolver interface {
	ResolveRoute(ctx context.Context, genderSlug, categorySlug string) (SearchRequest, error)
}

type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

type Backend interface {
	RouteResolver
	Searcher
}

// Listing is one browsing session's product listing: the current route, the
// last search response and the user's filters. Only the most recent Load
// may change its state.
type Listing struct {
	backend      Backend
	mediaBaseURL string

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	gender   string
	category string
	loading  bool
	err      error
	resp     *SearchResponse
	filters  FilterState

	// derived from resp, recomputed only when resp changes
	brands []Facet
	sizes  []Facet
	bounds PriceBounds
}

func NewListing(backend Backend, mediaBaseURL string) *Listing {
	return &Listing{
		backend:      backend,
		mediaBaseURL: mediaBaseURL,
		filters:      NewFilterState(),
	}
}

// Load switches the listing to a new route. It resets the filters, cancels
// any load still in flight and searches the backend. It returns ErrSuperseded
// when a newer Load started before this one finished; its result is dropped.
func (l *Listing) Load(ctx context.Context, genderSlug, categorySlug string) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.cancel = cancel
	l.gender = genderSlug
	l.category = categorySlug
	l.loading = true
	l.err = nil
	l.filters.Reset()
	l.setResponseLocked(nil)
	l.mu.Unlock()

	resp, err := l.fetch(ctx, genderSlug, categorySlug)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return ErrSuperseded
	}
	l.loading = false
	l.cancel = nil
	if err != nil {
		l.err = err
		logger.FromCtx(ctx).Warn("catalog listing load failed",
			zap.String("gender", genderSlug),
			zap.String("category", categorySlug),
			zap.Error(err),
		)
		return err
	}
	l.setResponseLocked(resp)
	return nil
}

func (l *Listing) fetch(ctx context.Context, genderSlug, categorySlug string) (*SearchResponse, error) {
	req, err := l.backend.ResolveRoute(ctx, genderSlug, categorySlug)
	if err != nil {
		if errors.Is(err, ErrMissingRouteCategories) || errors.Is(err, ErrUnknownRoute) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	resp, err := l.backend.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if resp == nil {
		resp = &SearchResponse{}
	}
	return resp, nil
}

func (l *Listing) setResponseLocked(resp *SearchResponse) {
	l.resp = resp
	l.brands = BrandFacets(resp)
	l.sizes = SizeFacets(resp)
	l.bounds = Bounds(resp)
}

// Showing reports whether the listing holds a successful result for the
// given route.
func (l *Listing) Showing(genderSlug, categorySlug string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.showingLocked(genderSlug, categorySlug)
}

func (l *Listing) showingLocked(genderSlug, categorySlug string) bool {
	return l.gender == genderSlug && l.category == categorySlug &&
		!l.loading && l.err == nil && l.resp != nil
}

// Filters returns a copy of the current filter state.
func (l *Listing) Filters() FilterState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filters.Clone()
}

// Update applies one filter transition, e.g. (*FilterState).ToggleBrand.
func (l *Listing) Update(fn func(*FilterState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.filters)
}

// GoPage moves to page p, clamped to the pages of the current result.
func (l *Listing) GoPage(p int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := Apply(l.variantsLocked(), l.filters)
	l.filters.GoPage(p, res.TotalPages)
}

// Filter replaces the filter state and returns the resulting view of the
// given route. It returns ErrSuperseded when the listing no longer shows that
// route, e.g. a concurrent Load switched it.
func (l *Listing) Filter(genderSlug, categorySlug string, f FilterState) (View, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.showingLocked(genderSlug, categorySlug) {
		return View{}, ErrSuperseded
	}
	l.filters = f.Clone()
	return l.viewLocked(), nil
}

func (l *Listing) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked()
}

func (l *Listing) variantsLocked() []Variant {
	if l.resp == nil {
		return nil
	}
	return l.resp.Variants
}

func (l *Listing) viewLocked() View {
	res := Apply(l.variantsLocked(), l.filters)

	return View{
		Heading:     Heading(l.gender, l.category),
		Gender:      l.gender,
		Category:    l.category,
		Loading:     l.loading,
		Error:       Message(l.err),
		Products:    ToCards(res.Items, l.mediaBaseURL),
		TotalCount:  res.TotalCount,
		Page:        res.Page,
		PageSize:    l.filters.pageSize(),
		TotalPages:  res.TotalPages,
		Brands:      l.brands,
		Sizes:       l.sizes,
		PriceBounds: l.bounds,
		Filters: FilterView{
			Sort:     l.filters.Sort,
			InStock:  l.filters.OnlyInStock,
			Sale:     l.filters.OnlySale,
			Brands:   l.filters.SelectedBrands(),
			Sizes:    l.filters.SelectedSizes(),
			MinPrice: l.filters.MinPrice,
			MaxPrice: l.filters.MaxPrice,
		},
	}
}

// View is everything a listing page renders, taken from one consistent state.
type View struct {
	Heading     string        `json:"heading"`
	Gender      string        `json:"gender"`
	Category    string        `json:"category"`
	Loading     bool          `json:"loading"`
	Error       string        `json:"error,omitempty"`
	Products    []ProductCard `json:"products"`
	TotalCount  int           `json:"totalCount"`
	Page        int           `json:"page"`
	PageSize    int           `json:"pageSize"`
	TotalPages  int           `json:"totalPages"`
	Brands      []Facet       `json:"brands"`
	Sizes       []Facet       `json:"sizes"`
	PriceBounds PriceBounds   `json:"priceBounds"`
	Filters     FilterView    `json:"filters"`
}

type FilterView struct {
	Sort     SortKey  `json:"sort"`
	InStock  bool     `json:"inStock"`
	Sale     bool     `json:"sale"`
	Brands   []string `json:"brands"`
	Sizes    []string `json:"sizes"`
	MinPrice *float64 `json:"minPrice,omitempty"`
	MaxPrice *float64 `json:"maxPrice,omitempty"`
}
