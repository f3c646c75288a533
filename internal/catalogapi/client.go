package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"planeta-be/internal/catalog"
	"planeta-be/internal/logger"
	"planeta-be/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is kept on APIError.
const maxErrorBody = 4 << 10

var ErrVariantNotFound = fmt.Errorf("catalogapi: variant not found: %w", catalog.ErrProductNotFound)

// APIError is a non-2xx response from the catalog backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalogapi: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the catalog backend. Category lists are fetched once and
// kept for the client's lifetime; concurrent first fetches share a request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Registry

	group singleflight.Group

	mu         sync.RWMutex
	categories []catalog.Category
	values     map[string][]catalog.CategoryValue
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(r *metrics.Registry) Option {
	return func(c *Client) { c.metrics = r }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		values:     map[string][]catalog.CategoryValue{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ----------------- Categories -----------------

func (c *Client) GetCategories(ctx context.Context) ([]catalog.Category, error) {
	c.mu.RLock()
	cached := c.categories
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("categories", func() (any, error) {
		var cats []catalog.Category
		if err := c.do(ctx, http.MethodGet, "/categories", nil, &cats); err != nil {
			return nil, err
		}
		if cats == nil {
			cats = []catalog.Category{}
		}
		c.metrics.IncCategoryFetches()

		c.mu.Lock()
		c.categories = cats
		c.mu.Unlock()
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]catalog.Category), nil
}

// GetCategoryIDByName returns the id of the category whose name matches
// case-insensitively, or "" when there is none.
func (c *Client) GetCategoryIDByName(ctx context.Context, name string) (string, error) {
	cats, err := c.GetCategories(ctx)
	if err != nil {
		return "", err
	}
	target := strings.TrimSpace(name)
	for _, cat := range cats {
		if strings.EqualFold(cat.Name, target) {
			return cat.ID, nil
		}
	}
	return "", nil
}

func (c *Client) GetCategoryValues(ctx context.Context, categoryID string) ([]catalog.CategoryValue, error) {
	c.mu.RLock()
	cached, ok := c.values[categoryID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := c.group.Do("values:"+categoryID, func() (any, error) {
		var vals []catalog.CategoryValue
		path := "/categories/" + url.PathEscape(categoryID) + "/values"
		if err := c.do(ctx, http.MethodGet, path, nil, &vals); err != nil {
			return nil, err
		}
		if vals == nil {
			vals = []catalog.CategoryValue{}
		}
		c.metrics.IncCategoryFetches()

		c.mu.Lock()
		c.values[categoryID] = vals
		c.mu.Unlock()
		return vals, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]catalog.CategoryValue), nil
}

// ResolveRoute turns a gender/category slug pair into a search request keyed
// by the POL and KATEGORIJA category ids.
func (c *Client) ResolveRoute(ctx context.Context, genderSlug, categorySlug string) (catalog.SearchRequest, error) {
	polID, err := c.GetCategoryIDByName(ctx, catalog.GenderCategory)
	if err != nil {
		return catalog.SearchRequest{}, err
	}
	katID, err := c.GetCategoryIDByName(ctx, catalog.TypeCategory)
	if err != nil {
		return catalog.SearchRequest{}, err
	}
	if polID == "" || katID == "" {
		return catalog.SearchRequest{}, catalog.ErrMissingRouteCategories
	}

	var genders, types []catalog.CategoryValue
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		genders, err = c.GetCategoryValues(gctx, polID)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = c.GetCategoryValues(gctx, katID)
		return err
	})
	if err := g.Wait(); err != nil {
		return catalog.SearchRequest{}, err
	}

	gender, ok := findValue(genders, catalog.FromSlug(genderSlug))
	if !ok {
		return catalog.SearchRequest{}, catalog.ErrUnknownRoute
	}
	category, ok := findValue(types, catalog.FromSlug(categorySlug))
	if !ok {
		return catalog.SearchRequest{}, catalog.ErrUnknownRoute
	}

	return catalog.SearchRequest{
		InitialCategoryFilters: map[string][]string{
			polID: {gender.ID},
			katID: {category.ID},
		},
	}, nil
}

func findValue(vals []catalog.CategoryValue, apiValue string) (catalog.CategoryValue, bool) {
	for _, v := range vals {
		if v.Value == apiValue {
			return v, true
		}
	}
	return catalog.CategoryValue{}, false
}

// ----------------- Products -----------------

func (c *Client) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.SearchResponse, error) {
	timer := metrics.StartTimer()

	var resp catalog.SearchResponse
	err := c.do(ctx, http.MethodPost, "/products/search", req, &resp)
	c.metrics.ObserveSearch(timer.Duration(), err)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetVariantDetails(ctx context.Context, id string) (*catalog.VariantDetails, error) {
	var d catalog.VariantDetails
	path := "/products/variants/" + url.PathEscape(id) + "/details"
	if err := c.do(ctx, http.MethodGet, path, nil, &d); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ----------------- Transport -----------------

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("catalogapi: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("catalogapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rid := logger.RequestIDFrom(ctx); rid != "" {
		req.Header.Set(logger.RequestIDHeader, rid)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("catalog request failed", zap.Error(err))
		return fmt.Errorf("catalogapi: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("catalog returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", b),
		)
		return &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Body: string(b)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode catalog response", zap.Error(err))
		return fmt.Errorf("catalogapi: decode %s: %w", path, err)
	}
	return nil
}
