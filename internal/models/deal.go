package models

// Badge labels assigned within a brand group.
const (
	BadgeBestPrice    = "BEST PRICE"
	BadgeMostDiscount = "MOST DISCOUNT"
)

// Brand group statuses.
const (
	GroupStatusDealFound = "DEAL_FOUND"
	GroupStatusNoDeal    = "NO_DEAL"
)

// BrandOption is one deduplicated product offer rendered inside a brand
// group.
type BrandOption struct {
	ID            string  `json:"id"`
	BrandName     string  `json:"brandName"`
	LogoURL       string  `json:"logoUrl"`
	DealText      string  `json:"dealText"`
	Savings       float64 `json:"savings"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Badge         string  `json:"badge,omitempty"`
	IsSelected    bool    `json:"isSelected"`
	Details       string  `json:"details,omitempty"`
}

// BrandGroup is a named cluster of catalog entries considered the same
// shopping item across stores and brands. Exactly one option is selected.
type BrandGroup struct {
	ItemName    string        `json:"itemName"`
	ItemDetails string        `json:"itemDetails"`
	Status      string        `json:"status"`
	Options     []BrandOption `json:"options"`
}

// BrandGroupsResponse is the /deals/brands payload.
type BrandGroupsResponse struct {
	Groups []BrandGroup `json:"groups"`
}

// HomeProduct is a catalog entry rendered for the home feed.
type HomeProduct struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand"`
	Category        string  `json:"category"`
	Store           string  `json:"store"`
	ImageURL        string  `json:"imageUrl"`
	Price           float64 `json:"price"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountPercent int     `json:"discountPercent"`
	Badge           string  `json:"badge,omitempty"`
	InStock         bool    `json:"inStock"`
}

// HeroSection is the home feed's featured pick.
type HeroSection struct {
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Product  HomeProduct `json:"product"`
}

// HomeCategory is a static feed filter chip.
type HomeCategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected,omitempty"`
}

// HomeFeedResponse is the /home/feed payload.
type HomeFeedResponse struct {
	Hero       *HeroSection   `json:"hero"`
	Categories []HomeCategory `json:"categories"`
	Products   []HomeProduct  `json:"products"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int            `json:"total"`
}

// StoreInfo is one entry of the /stores payload.
type StoreInfo struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
}

// SearchResponse is the /search payload.
type SearchResponse struct {
	Query   string    `json:"query"`
	Count   int       `json:"count"`
	Results []Product `json:"results"`
}
