package services

import (
	"context"
	"math/rand"
	"sort"

	"github.com/bakudeals/deal-scout/internal/catalog"
	"github.com/bakudeals/deal-scout/internal/models"
)

// GeoQuery is an optional location filter parsed from request params.
// Zero value means no filter: the full catalog passes through.
type GeoQuery struct {
	Active  bool
	Lat     float64
	Lon     float64
	RangeKm float64
}

// DealService answers every catalog read: grouped deals, search, and the
// home feed product lists. All methods recompute from the memoized catalog
// per call.
type DealService struct {
	catalog *catalog.Cache
	grouper *Grouper
	matcher *Matcher
	geo     *GeoFilter
}

func NewDealService(cache *catalog.Cache, grouper *Grouper, matcher *Matcher, geo *GeoFilter) *DealService {
	return &DealService{
		catalog: cache,
		grouper: grouper,
		matcher: matcher,
		geo:     geo,
	}
}

// Products returns the usable catalog, geo-filtered when a query is
// active.
func (s *DealService) Products(ctx context.Context, geo GeoQuery) ([]models.Product, error) {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	if geo.Active {
		products = s.geo.FilterProducts(products, geo.Lat, geo.Lon, geo.RangeKm)
	}
	return products, nil
}

// GroupedBrandDeals buckets the whole catalog into category groups.
func (s *DealService) GroupedBrandDeals(ctx context.Context, geo GeoQuery) (*models.BrandGroupsResponse, error) {
	products, err := s.Products(ctx, geo)
	if err != nil {
		return nil, err
	}
	return &models.BrandGroupsResponse{Groups: s.grouper.BrandGroups(products)}, nil
}

// GroupsForItems builds one group per confirmed scan item, matching each
// item name against the catalog. Items matching nothing produce no group.
func (s *DealService) GroupsForItems(ctx context.Context, itemNames []string, geo GeoQuery) (*models.BrandGroupsResponse, error) {
	products, err := s.Products(ctx, geo)
	if err != nil {
		return nil, err
	}

	groups := []models.BrandGroup{}
	for _, name := range itemNames {
		matches := s.matcher.Match(name, products)
		if len(matches) == 0 {
			continue
		}
		groups = append(groups, s.grouper.BrandGroupForTerm(name, matches))
	}
	return &models.BrandGroupsResponse{Groups: groups}, nil
}

// Search returns the top matches for one free-text query, store names
// formatted for display.
func (s *DealService) Search(ctx context.Context, query string, geo GeoQuery) ([]models.Product, error) {
	products, err := s.Products(ctx, geo)
	if err != nil {
		return nil, err
	}

	results := s.matcher.Match(query, products)
	for i := range results {
		results[i].Store = FormatStoreName(results[i].Store)
	}
	return results, nil
}

// TopDeals returns discounted products, highest discount first.
func (s *DealService) TopDeals(ctx context.Context, geo GeoQuery, limit, offset int) ([]models.Product, error) {
	products, err := s.Products(ctx, geo)
	if err != nil {
		return nil, err
	}

	deals := []models.Product{}
	for _, p := range products {
		if p.DiscountPercent > 0 {
			deals = append(deals, p)
		}
	}
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].DiscountPercent > deals[j].DiscountPercent
	})

	if offset >= len(deals) {
		return []models.Product{}, nil
	}
	deals = deals[offset:]
	if limit > 0 && limit < len(deals) {
		deals = deals[:limit]
	}
	return deals, nil
}

// RandomDeals samples discounted products for the scan fallback path.
func (s *DealService) RandomDeals(ctx context.Context, count int) ([]models.Product, error) {
	deals, err := s.TopDeals(ctx, GeoQuery{}, 0, 0)
	if err != nil {
		return nil, err
	}

	shuffled := make([]models.Product, len(deals))
	copy(shuffled, deals)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled, nil
}

// Stores lists the distinct stores present in the catalog, with coordinates
// where the store resolves to a registered location. The geo filter applies
// through Products, so an active query drops unresolvable stores.
func (s *DealService) Stores(ctx context.Context, geo GeoQuery) ([]models.StoreInfo, error) {
	products, err := s.Products(ctx, geo)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	stores := []models.StoreInfo{}
	for _, p := range products {
		key := Normalize(p.Store)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		info := models.StoreInfo{Name: FormatStoreName(p.Store)}
		if loc, ok := s.geo.Resolve(p.Store); ok {
			lat, lon := loc.Lat, loc.Lon
			info.Lat, info.Lon = &lat, &lon
		}
		stores = append(stores, info)
	}
	return stores, nil
}
