package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/bakudeals/deal-scout/internal/models"
)

// Route presentation constants. Times and distances are illustrative, not
// real routing estimates.
const (
	minutesPerStop = 15
	oneStopEstTime = "25 mins"
	defaultAisle   = "General"
)

// DefaultShoppingList is used when an optimize request carries neither
// items nor ids and no scan session exists.
var DefaultShoppingList = []string{"Yogurt", "Milk", "Eggs"}

// Optimizer builds route options from a shopping list and the catalog.
// Stateless per request.
type Optimizer struct {
	matcher *Matcher
}

func NewOptimizer(matcher *Matcher) *Optimizer {
	return &Optimizer{matcher: matcher}
}

// BuildShoppingList resolves an optimize request into a structured list.
// Explicit catalog ids lock the list to those rows; otherwise free-text
// terms are taken as-is. An empty request falls back to fallbackNames,
// then to the default list.
func (o *Optimizer) BuildShoppingList(req *models.OptimizeRequest, catalog []models.Product, fallbackNames []string) []models.ShoppingListItem {
	if len(req.IDs) > 0 {
		wanted := map[string]bool{}
		for _, id := range req.IDs {
			wanted[id] = true
		}

		list := []models.ShoppingListItem{}
		for _, p := range catalog {
			if !wanted[p.ID] {
				continue
			}
			term := p.Name
			if p.Brand == "Generic" {
				term = p.DisplayName()
			}
			list = append(list, models.ShoppingListItem{
				ID:           p.ID,
				Term:         Normalize(term),
				OriginalName: p.DisplayName(),
			})
		}
		return list
	}

	names := req.Items
	if len(names) == 0 {
		names = fallbackNames
	}
	if len(names) == 0 {
		names = DefaultShoppingList
	}

	list := make([]models.ShoppingListItem, 0, len(names))
	for _, name := range names {
		list = append(list, models.ShoppingListItem{
			Term:         Normalize(name),
			OriginalName: name,
		})
	}
	return list
}

// Optimize produces the two route strategies for a shopping list. Items
// that match nothing anywhere are dropped silently; a list matching
// nothing at all yields zero-stop options, not an error.
func (o *Optimizer) Optimize(list []models.ShoppingListItem, catalog []models.Product) (maxSavings, oneStop models.RouteDetails) {
	return o.maxSavingsRoute(list, catalog), o.oneStopRoute(list, catalog)
}

// resolveBest finds the best candidate for one list item within the given
// inventory: lowest price wins, except the item's exact catalog row is
// pinned ahead of everything.
func (o *Optimizer) resolveBest(item models.ShoppingListItem, inventory []models.Product) (models.Product, bool) {
	matches := o.matcher.Match(item.Term, inventory)
	if item.Locked() {
		for _, p := range inventory {
			if p.ID == item.ID {
				matches = append(matches, p)
				break
			}
		}
	}
	if len(matches) == 0 {
		return models.Product{}, false
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if item.Locked() {
			if matches[i].ID == item.ID {
				return true
			}
			if matches[j].ID == item.ID {
				return false
			}
		}
		return matches[i].Price < matches[j].Price
	})
	return matches[0], true
}

func routeItem(item models.ShoppingListItem, match models.Product) models.RouteItem {
	return models.RouteItem{
		ID:      match.ID,
		Name:    match.DisplayName(),
		Price:   match.Price,
		Savings: match.Savings(),
		Aisle:   defaultAisle,
		IsExact: item.Locked() && match.ID == item.ID,
	}
}

// maxSavingsRoute picks the globally cheapest candidate per item and
// groups the picks by store.
func (o *Optimizer) maxSavingsRoute(list []models.ShoppingListItem, catalog []models.Product) models.RouteDetails {
	storeOrder := []string{}
	storeItems := map[string][]models.RouteItem{}
	totalSavings := 0.0

	for _, item := range list {
		match, ok := o.resolveBest(item, catalog)
		if !ok {
			continue
		}
		if _, seen := storeItems[match.Store]; !seen {
			storeOrder = append(storeOrder, match.Store)
		}
		storeItems[match.Store] = append(storeItems[match.Store], routeItem(item, match))
		totalSavings += match.Savings()
	}

	details := models.RouteDetails{
		TotalSavings: totalSavings,
		EstTime:      fmt.Sprintf("%d mins", len(storeOrder)*minutesPerStop),
		Stops:        []models.RouteStop{},
	}
	for i, store := range storeOrder {
		color := "green"
		if i%2 == 1 {
			color = "blue"
		}
		details.Stops = append(details.Stops, models.RouteStop{
			Sequence: i + 1,
			Store:    store,
			Distance: fmt.Sprintf("%.1f km", 0.8+0.4*float64(i)),
			Color:    color,
			Items:    storeItems[store],
		})
	}
	return details
}

type storeBasket struct {
	store       string
	items       []models.RouteItem
	basketPrice float64
	savings     float64
	foundCount  int
}

// oneStopRoute tries to satisfy the whole list at each store. In free-text
// mode the store covering the most items wins, cheapest basket breaking
// ties. In locked mode the user already picked exact rows, so the winner
// is the store with the highest total savings among stores carrying any of
// them.
func (o *Optimizer) oneStopRoute(list []models.ShoppingListItem, catalog []models.Product) models.RouteDetails {
	locked := len(list) > 0 && list[0].Locked()

	storeOrder := []string{}
	byStore := map[string][]models.Product{}
	for _, p := range catalog {
		if _, seen := byStore[p.Store]; !seen {
			storeOrder = append(storeOrder, p.Store)
		}
		byStore[p.Store] = append(byStore[p.Store], p)
	}

	var best *storeBasket
	for _, store := range storeOrder {
		basket := storeBasket{store: store}
		for _, item := range list {
			match, ok := o.resolveBest(item, byStore[store])
			if !ok {
				continue
			}
			basket.items = append(basket.items, routeItem(item, match))
			basket.basketPrice += match.Price
			basket.savings += match.Savings()
			basket.foundCount++
		}
		if basket.foundCount == 0 {
			continue
		}
		if best == nil || betterOneStop(&basket, best, locked) {
			b := basket
			best = &b
		}
	}

	details := models.RouteDetails{
		EstTime: oneStopEstTime,
		Stops:   []models.RouteStop{},
	}
	if best == nil {
		details.EstTime = "0 mins"
		return details
	}

	details.TotalSavings = best.savings
	details.Stops = append(details.Stops, models.RouteStop{
		Sequence: 1,
		Store:    best.store,
		Distance: "1.5 km",
		Color:    "purple",
		Items:    best.items,
	})
	return details
}

func betterOneStop(candidate, current *storeBasket, locked bool) bool {
	if locked {
		if candidate.savings != current.savings {
			return candidate.savings > current.savings
		}
		return candidate.basketPrice < current.basketPrice
	}
	if candidate.foundCount != current.foundCount {
		return candidate.foundCount > current.foundCount
	}
	return candidate.basketPrice < current.basketPrice
}

// Options renders both strategies into the optimize response list.
func (o *Optimizer) Options(list []models.ShoppingListItem, maxSavings, oneStop models.RouteDetails) []models.RouteOption {
	maxStops := make([]models.StopSummary, 0, len(maxSavings.Stops))
	for _, stop := range maxSavings.Stops {
		maxStops = append(maxStops, models.StopSummary{
			Store:   stop.Store,
			Summary: fmt.Sprintf("%d item(s)", len(stop.Items)),
		})
	}

	oneStopDescription := "No single store has these items."
	oneStopSummaries := []models.StopSummary{}
	if len(oneStop.Stops) > 0 {
		stop := oneStop.Stops[0]
		found := len(stop.Items)
		required := len(list)
		summary := fmt.Sprintf("%d of %d items available here", found, required)
		if found == required {
			summary = fmt.Sprintf("All %d items available here", required)
		}
		oneStopSummaries = append(oneStopSummaries, models.StopSummary{Store: stop.Store, Summary: summary})
		oneStopDescription = fmt.Sprintf("Get everything at %s.", stop.Store)
	}

	return []models.RouteOption{
		{
			ID:           models.OptionIDMaxSavings,
			Type:         models.OptionTypeMaxSavings,
			Title:        "Max Savings",
			TotalSavings: roundMoney(maxSavings.TotalSavings),
			Description:  "Save more by visiting multiple stores.",
			Stops:        maxStops,
		},
		{
			ID:           models.OptionIDOneStop,
			Type:         models.OptionTypeTimeSaver,
			Title:        "One Stop",
			TotalSavings: roundMoney(oneStop.TotalSavings),
			Description:  oneStopDescription,
			Stops:        oneStopSummaries,
		},
	}
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatStoreName tidies an all-caps feed store string for display.
func FormatStoreName(store string) string {
	words := strings.Fields(strings.ToLower(store))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
