package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakudeals/deal-scout/internal/catalog"
	"github.com/bakudeals/deal-scout/internal/config"
	"github.com/bakudeals/deal-scout/internal/middleware"
	"github.com/bakudeals/deal-scout/internal/models"
	"github.com/bakudeals/deal-scout/internal/services"
)

type fixedProvider struct {
	products []models.Product
}

func (p *fixedProvider) LoadAll(ctx context.Context) ([]models.Product, error) {
	return p.products, nil
}

func testCatalog() []models.Product {
	return []models.Product{
		{
			ID: "1", Store: "BRAVO KOROGLU", Name: "Tea", Brand: "Azercay",
			Description: "Azercay qara tea", Price: 3.0, OriginalPrice: 3.5,
			DiscountPercent: 14, Details: "100 paket",
			ImageURL: "https://cdn.example.com/tea.jpg",
		},
		{
			ID: "2", Store: "ARAZ SUPERMARKET SUMGAIT 9 MICRODISTRICT", Name: "Tea", Brand: "Beta",
			Description: "Beta tea 250g", Price: 2.5, OriginalPrice: 3.1,
			DiscountPercent: 19, Details: "250g",
			ImageURL: models.PlaceholderImageURL,
		},
		{
			ID: "3", Store: "OBA MARKET YASAMAL", Name: "Pendir", Brand: "Milla",
			Description: "Milla pendir 500g", Price: 5.1, OriginalPrice: 5.6,
			DiscountPercent: 9, Details: "500g",
			ImageURL: models.PlaceholderImageURL,
		},
	}
}

// newTestApp wires the full HTTP surface over a fixed catalog, without a
// database. Plan and auth endpoints are not exercised here.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Load()
	cache := catalog.NewCache(&fixedProvider{products: testCatalog()}, time.Second, 1)
	matcher := services.NewMatcher(cfg.MatchThreshold)
	grouper := services.NewGrouper(nil)
	geo := services.NewGeoFilter(nil)
	deals := services.NewDealService(cache, grouper, matcher, geo)

	h := New(Deps{
		Cfg:          cfg,
		Deals:        deals,
		Optimizer:    services.NewOptimizer(matcher),
		Scans:        services.NewScanStore(time.Hour),
		PlanSessions: services.NewPlanSessionStore("test-secret", time.Hour),
		Trips:        services.NewTripStore(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(middleware.Locale())

	api := app.Group("/api/v1")
	api.Get("/home/feed", h.GetHomeFeed)
	api.Get("/stores", h.GetStores)
	api.Get("/search", h.Search)
	api.Post("/scan/process", h.ProcessScan)
	api.Post("/scan/:scanId/confirm", h.ConfirmScan)
	api.Get("/scan/:scanId/image", h.GetScanImage)
	api.Get("/deals/brands", h.GetBrandDeals)
	api.Post("/planning/optimize", h.OptimizePlan)
	api.Get("/planning/route/:optionId", h.GetRouteDetails)
	api.Post("/trips", h.SaveTrip)
	api.Get("/trips/last", h.GetLastTrip)
	api.Get("/watchlist", h.GetWatchlist)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestHomeFeed(t *testing.T) {
	app := newTestApp(t)

	t.Run("english hero by default", func(t *testing.T) {
		resp, raw := doJSON(t, app, "GET", "/api/v1/home/feed?page=1&limit=5", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var feed models.HomeFeedResponse
		require.NoError(t, json.Unmarshal(raw, &feed))
		require.NotNil(t, feed.Hero)
		assert.Equal(t, "Deal of the Day ⚡️", feed.Hero.Title)
		// Only product 1 carries a real image.
		assert.Equal(t, "1", feed.Hero.Product.ID)
		assert.NotEmpty(t, feed.Products)
	})

	t.Run("azerbaijani hero via accept-language", func(t *testing.T) {
		_, raw := doJSON(t, app, "GET", "/api/v1/home/feed", nil, map[string]string{"Accept-Language": "az"})

		var feed models.HomeFeedResponse
		require.NoError(t, json.Unmarshal(raw, &feed))
		require.NotNil(t, feed.Hero)
		assert.Equal(t, "Günün Təklifi ⚡️", feed.Hero.Title)
	})

	t.Run("pagination bounds", func(t *testing.T) {
		_, raw := doJSON(t, app, "GET", "/api/v1/home/feed?page=99&limit=5", nil, nil)

		var feed models.HomeFeedResponse
		require.NoError(t, json.Unmarshal(raw, &feed))
		assert.Empty(t, feed.Products)
		assert.Equal(t, 3, feed.Total)
	})
}

func TestStores(t *testing.T) {
	app := newTestApp(t)

	_, raw := doJSON(t, app, "GET", "/api/v1/stores", nil, nil)

	var body struct {
		Stores []models.StoreInfo `json:"stores"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Stores, 3)

	names := make([]string, 0, len(body.Stores))
	for _, s := range body.Stores {
		names = append(names, s.Name)
		// Every test store resolves to a registered location.
		require.NotNil(t, s.Lat)
		require.NotNil(t, s.Lon)
	}
	assert.Contains(t, names, "Bravo Koroglu")
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing query is a 400", func(t *testing.T) {
		resp, raw := doJSON(t, app, "GET", "/api/v1/search", nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Query parameter 'q' is required", body["error"])
	})

	t.Run("finds matches with formatted store names", func(t *testing.T) {
		resp, raw := doJSON(t, app, "GET", "/api/v1/search?q=pendir", nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.SearchResponse
		require.NoError(t, json.Unmarshal(raw, &result))
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "Oba Market Yasamal", result.Results[0].Store)
	})
}

func TestBrandDealsIdempotence(t *testing.T) {
	app := newTestApp(t)

	_, first := doJSON(t, app, "GET", "/api/v1/deals/brands", nil, nil)
	_, second := doJSON(t, app, "GET", "/api/v1/deals/brands", nil, nil)
	assert.JSONEq(t, string(first), string(second))
}

func TestScanConfirmScopesBrandDeals(t *testing.T) {
	app := newTestApp(t)

	items := []models.ConfirmedItem{{Name: "Pendir"}}
	resp, _ := doJSON(t, app, "POST", "/api/v1/scan/scan_test/confirm", items, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw := doJSON(t, app, "GET", "/api/v1/deals/brands?scanId=scan_test", nil, nil)
	var result models.BrandGroupsResponse
	require.NoError(t, json.Unmarshal(raw, &result))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "Pendir", result.Groups[0].ItemName)
}

func TestScanConfirmSurvivesLaterRequests(t *testing.T) {
	app := newTestApp(t)

	items := []models.ConfirmedItem{{Name: "Pendir"}}
	resp, _ := doJSON(t, app, "POST", "/api/v1/scan/scan_keep/confirm", items, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Unrelated traffic recycles the request buffers; the stored scan id
	// must not alias them.
	doJSON(t, app, "GET", "/api/v1/search?q=pendir", nil, nil)
	doJSON(t, app, "GET", "/api/v1/home/feed", nil, nil)

	_, raw := doJSON(t, app, "GET", "/api/v1/deals/brands?scanId=scan_keep", nil, nil)
	var result models.BrandGroupsResponse
	require.NoError(t, json.Unmarshal(raw, &result))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "Pendir", result.Groups[0].ItemName)
}

func TestOptimizeThenRouteDetail(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, "POST", "/api/v1/planning/optimize", models.OptimizeRequest{Items: []string{"Tea"}}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var optimize models.OptimizeResponse
	require.NoError(t, json.Unmarshal(raw, &optimize))
	require.NotEmpty(t, optimize.PlanSession)
	require.Len(t, optimize.Options, 2)

	_, raw = doJSON(t, app, "GET", "/api/v1/planning/route/"+models.OptionIDMaxSavings+"?planSession="+optimize.PlanSession, nil, nil)
	var details models.RouteDetails
	require.NoError(t, json.Unmarshal(raw, &details))

	require.NotEmpty(t, details.Stops)
	require.NotEmpty(t, details.Stops[0].Items)

	summed := 0.0
	for _, stop := range details.Stops {
		for _, item := range stop.Items {
			summed += item.Savings
		}
	}
	assert.InDelta(t, optimize.Options[0].TotalSavings, summed, 0.01)
}

func TestRouteDetailWithoutSessionIsEmpty(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, "GET", "/api/v1/planning/route/"+models.OptionIDMaxSavings, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var details models.RouteDetails
	require.NoError(t, json.Unmarshal(raw, &details))
	assert.Zero(t, details.TotalSavings)
	assert.Equal(t, "0 mins", details.EstTime)
	assert.Empty(t, details.Stops)
}

func TestTripsRoundTrip(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, "POST", "/api/v1/trips", models.SaveTripRequest{
		TotalSavings: 2.5, TimeSpent: "20 mins", DealsScouted: 3,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved models.SaveTripResponse
	require.NoError(t, json.Unmarshal(raw, &saved))
	assert.True(t, saved.Success)

	_, raw = doJSON(t, app, "GET", "/api/v1/trips/last", nil, nil)
	var last models.LastTripResponse
	require.NoError(t, json.Unmarshal(raw, &last))
	assert.InDelta(t, 2.5, last.TotalSavings, 1e-9)
	assert.Equal(t, saved.TripID, last.TripID)
}

func TestWatchlist(t *testing.T) {
	app := newTestApp(t)

	_, raw := doJSON(t, app, "GET", "/api/v1/watchlist", nil, nil)
	var watchlist models.WatchlistResponse
	require.NoError(t, json.Unmarshal(raw, &watchlist))
	assert.Empty(t, watchlist.Items)
	assert.Contains(t, watchlist.PopularEssentials, "Milk")
}

func TestScanImageWithoutStorage(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/v1/scan/scan_test/image", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScanProcessFallsBackToSampling(t *testing.T) {
	app := newTestApp(t)

	resp, raw := doJSON(t, app, "POST", "/api/v1/scan/process", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var scan models.ProcessScanResponse
	require.NoError(t, json.Unmarshal(raw, &scan))
	assert.NotEmpty(t, scan.ScanID)
	require.NotEmpty(t, scan.DetectedItems)
	for _, item := range scan.DetectedItems {
		assert.GreaterOrEqual(t, item.Confidence, 0.80)
		assert.Less(t, item.Confidence, 0.95)
	}
}
