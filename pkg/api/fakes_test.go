package api

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/catalog-bff/pkg/cache"
	"github.com/Sternrassler/catalog-bff/pkg/catalog"
	"github.com/Sternrassler/catalog-bff/pkg/commerce"
)

type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
	sets   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: map[string]string{},
		ttls: map[string]time.Duration{},
	}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return value, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

type fakeSource struct {
	mu sync.Mutex

	categories    *commerce.CategoryResult
	categoriesErr error
	search        *catalog.SearchResult
	searchErr     error

	categoryCalls int
	searchCalls   int
	lastToken     string
	lastQuery     commerce.SearchQuery
}

func (s *fakeSource) GetCategories(_ context.Context, token string, _ commerce.CategoryQuery) (*commerce.CategoryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryCalls++
	s.lastToken = token
	if s.categoriesErr != nil {
		return nil, s.categoriesErr
	}
	return s.categories, nil
}

func (s *fakeSource) SearchProducts(_ context.Context, token string, q commerce.SearchQuery) (*catalog.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchCalls++
	s.lastToken = token
	s.lastQuery = q
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.search, nil
}

func sampleCategories() *commerce.CategoryResult {
	return &commerce.CategoryResult{
		Total: 1,
		Data: []catalog.RawCategory{{
			ID: "root",
			Categories: []catalog.RawCategory{
				{
					ID:            "jewelry",
					Name:          "Jewelry",
					ShowInMenu:    true,
					MegaMenuImage: "https://cdn.shoplc.com/menu/jewelry.png",
				},
				{ID: "hidden", ShowInMenu: false},
			},
		}},
	}
}

func sampleSearch() *catalog.SearchResult {
	return &catalog.SearchResult{
		Total: 130,
		Hits: []catalog.Hit{
			{ProductName: "Silver Ring", Price: 100, RepresentedProduct: &catalog.RawProduct{ID: "P1"}},
		},
		SortingOptions: []catalog.SortingOption{{ID: "best-matches", Label: "Best Matches"}},
	}
}
