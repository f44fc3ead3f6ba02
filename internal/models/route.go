package models

// Route option ids and types. The ids are stable API contract values.
const (
	OptionIDMaxSavings = "opt_max_savings"
	OptionIDOneStop    = "opt_one_stop"

	OptionTypeMaxSavings = "MAX_SAVINGS"
	OptionTypeTimeSaver  = "TIME_SAVER"
)

// ShoppingListItem is one requested item, either locked to an exact catalog
// id or carrying a normalized free-text term to fuzzy-match.
type ShoppingListItem struct {
	ID           string `json:"id,omitempty"`
	Term         string `json:"term"`
	OriginalName string `json:"originalName"`
}

// Locked reports whether the item pins an exact catalog id.
func (i ShoppingListItem) Locked() bool { return i.ID != "" }

// RouteItem is one product placed on a stop's pick list.
type RouteItem struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Savings float64 `json:"savings"`
	Aisle   string  `json:"aisle"`
	Checked bool    `json:"checked"`
	IsExact bool    `json:"isExact,omitempty"`
}

// RouteStop is one store visit within a computed route.
type RouteStop struct {
	Sequence int         `json:"sequence"`
	Store    string      `json:"store"`
	Distance string      `json:"distance"`
	Color    string      `json:"color"`
	Items    []RouteItem `json:"items"`
}

// RouteDetails is the full stop/item breakdown for one strategy, cached per
// plan session between the optimize call and the detail fetch.
type RouteDetails struct {
	TotalSavings float64     `json:"totalSavings"`
	EstTime      string      `json:"estTime"`
	Stops        []RouteStop `json:"stops"`
}

// StopSummary is the condensed per-store line shown on an option card.
type StopSummary struct {
	Store   string `json:"store"`
	Summary string `json:"summary"`
}

// RouteOption is one strategy's summary in the optimize response.
type RouteOption struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Title         string        `json:"title"`
	TotalSavings  float64       `json:"totalSavings"`
	TotalDistance string        `json:"totalDistance"`
	Description   string        `json:"description"`
	Stops         []StopSummary `json:"stops"`
}

// OptimizeRequest is the /planning/optimize body. Ids take precedence over
// free-text items when both are present.
type OptimizeRequest struct {
	Items []string `json:"items"`
	IDs   []string `json:"ids"`
}

// OptimizeResponse carries both strategies plus the session token required
// by the follow-up route-detail fetch.
type OptimizeResponse struct {
	PlanSession string        `json:"planSession"`
	Options     []RouteOption `json:"options"`
}
