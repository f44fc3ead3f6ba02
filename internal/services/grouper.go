package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bakudeals/deal-scout/internal/models"
)

// Badge thresholds, in manats.
const (
	// minVisibleSavings gates the most-discount badge inside multi-option
	// groups.
	minVisibleSavings = 0.01
	// soloDiscountSavings gates the discount badge on a single-option
	// group; a two-qepik saving is not worth a badge of its own.
	soloDiscountSavings = 0.50
	// maxBestPriceTies suppresses the best-price badge when too many
	// options share the minimum price.
	maxBestPriceTies = 2
)

// defaultLogoURL is used until per-brand artwork exists.
const defaultLogoURL = "https://media.screensdesign.com/gasset/c32d330e-31e8-47f6-b125-f2a7ce9de999.png"

// ruleInput carries the pre-normalized fields a category rule inspects.
type ruleInput struct {
	Name        string
	Description string
	Brand       string
}

// CategoryRule relabels a product into a canonical category bucket. Rules
// are evaluated in order; the first hit wins.
type CategoryRule struct {
	Label string
	Match func(ruleInput) bool
}

// phrase reports whether needle appears anywhere in the name or
// description.
func phrase(needles ...string) func(ruleInput) bool {
	return func(in ruleInput) bool {
		for _, n := range needles {
			if strings.Contains(in.Name, n) || strings.Contains(in.Description, n) {
				return true
			}
		}
		return false
	}
}

// word reports whether keyword appears as a complete word in the name,
// description, or brand.
func word(keyword string) func(ruleInput) bool {
	re := regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(keyword) + `($|\W)`)
	return func(in ruleInput) bool {
		return re.MatchString(in.Name) || re.MatchString(in.Description) || re.MatchString(in.Brand)
	}
}

// DefaultCategoryRules is the relabeling vocabulary for the Baku feed.
// Butter and liquid-oil phrases must run before the bare "yag" keyword,
// otherwise sunflower oil lands in the butter bucket.
var DefaultCategoryRules = []CategoryRule{
	{Label: "Kərə Yağı", Match: phrase("kere yagi", "koka yagi")},
	{Label: "Duru Yağ", Match: phrase("gunabaxan", "qargidali", "zeytun")},
	{Label: "Çay", Match: word("cay")},
	{Label: "Toyuq", Match: word("toyuq")},
	{Label: "Kərə Yağı", Match: word("yag")},
	{Label: "Seker", Match: word("seker")},
	{Label: "Un", Match: word("un")},
	{Label: "Duyu", Match: word("duyu")},
	{Label: "Makaron", Match: word("makaron")},
	{Label: "Pendir", Match: word("pendir")},
	{Label: "Sokolad", Match: word("sokolad")},
	{Label: "Yuyucu toz", Match: word("yuyucu")},
}

// Grouper clusters catalog products into named category buckets.
type Grouper struct {
	rules []CategoryRule
}

// NewGrouper creates a grouper. Nil rules fall back to the default
// vocabulary.
func NewGrouper(rules []CategoryRule) *Grouper {
	if rules == nil {
		rules = DefaultCategoryRules
	}
	return &Grouper{rules: rules}
}

// ProductGroup is one labeled bucket in catalog insertion order.
type ProductGroup struct {
	Label    string
	Products []models.Product
}

// Group buckets products by category label. Keyword rules can relabel a
// product away from its own category; label collisions are merged
// case/diacritic-insensitively, first-seen casing winning. Bucket order
// follows first appearance in the input, so an unchanged catalog always
// yields the same grouping.
func (g *Grouper) Group(products []models.Product) []ProductGroup {
	groups := []ProductGroup{}
	index := map[string]int{}

	for _, p := range products {
		label := g.categorize(p)

		normLabel := Normalize(label)
		i, ok := index[normLabel]
		if !ok {
			i = len(groups)
			index[normLabel] = i
			groups = append(groups, ProductGroup{Label: label})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	return groups
}

// categorize picks the bucket label for one product. The unknown-name
// sentinel skips keyword rules entirely, since "un" matches inside the
// sentinel text itself.
func (g *Grouper) categorize(p models.Product) string {
	if p.Name == models.UnknownProductName {
		return p.Name
	}

	in := ruleInput{
		Name:        Normalize(p.Name),
		Description: Normalize(p.Description),
		Brand:       Normalize(p.Brand),
	}
	for _, rule := range g.rules {
		if rule.Match(in) {
			return rule.Label
		}
	}
	return p.Name
}

// BrandGroups renders buckets into the /deals/brands response shape:
// options deduplicated, badges assigned, exactly one option selected.
func (g *Grouper) BrandGroups(products []models.Product) []models.BrandGroup {
	buckets := g.Group(products)

	out := make([]models.BrandGroup, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, buildBrandGroup(bucket.Label, bucket.Products))
	}
	return out
}

// BrandGroupForTerm renders a single matched-product bucket under the
// caller's label, used for scan-confirmed item lookups.
func (g *Grouper) BrandGroupForTerm(label string, matches []models.Product) models.BrandGroup {
	return buildBrandGroup(label, matches)
}

func buildBrandGroup(label string, products []models.Product) models.BrandGroup {
	group := models.BrandGroup{
		ItemName: label,
		Status:   models.GroupStatusNoDeal,
	}
	if len(products) > 0 {
		group.ItemDetails = products[0].Description
	}

	options := []models.BrandOption{}
	seen := map[string]bool{}
	for _, p := range products {
		opt := buildBrandOption(p)
		key := fmt.Sprintf("%s|%s|%.2f|%s", opt.BrandName, opt.DealText, opt.Price, opt.Details)
		if seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, opt)
	}

	if len(options) == 0 {
		group.Options = options
		return group
	}

	selected := assignBadges(options)
	options[selected].IsSelected = true

	group.Status = models.GroupStatusDealFound
	group.Options = options
	return group
}

// assignBadges marks best-price and most-discount options in place and
// returns the index of the option that should be selected by default.
func assignBadges(options []models.BrandOption) int {
	if len(options) == 1 {
		if options[0].Savings > soloDiscountSavings {
			options[0].Badge = models.BadgeMostDiscount
		}
		return 0
	}

	minPrice := options[0].Price
	maxSavings := options[0].Savings
	for _, opt := range options[1:] {
		if opt.Price < minPrice {
			minPrice = opt.Price
		}
		if opt.Savings > maxSavings {
			maxSavings = opt.Savings
		}
	}

	ties := 0
	for _, opt := range options {
		if opt.Price == minPrice {
			ties++
		}
	}

	selected := 0
	if ties <= maxBestPriceTies {
		chosen := false
		for i := range options {
			if options[i].Price == minPrice {
				options[i].Badge = models.BadgeBestPrice
				if !chosen {
					selected = i
					chosen = true
				}
			}
		}
	}

	if maxSavings > minVisibleSavings {
		for i := range options {
			if options[i].Savings == maxSavings {
				options[i].Badge = models.BadgeMostDiscount
			}
		}
	}

	return selected
}

func buildBrandOption(p models.Product) models.BrandOption {
	return models.BrandOption{
		ID:            p.ID,
		BrandName:     buildDisplayName(p),
		LogoURL:       defaultLogoURL,
		DealText:      "at " + p.Store,
		Savings:       p.Savings(),
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Details:       p.Details,
	}
}

// buildDisplayName combines brand, description, and unit into one display
// string, skipping parts the description already carries.
func buildDisplayName(p models.Product) string {
	name := p.Brand
	if p.Description != "" {
		if strings.HasPrefix(strings.ToLower(p.Description), strings.ToLower(p.Brand)) {
			name = p.Description
		} else {
			name = p.Brand + " - " + p.Description
		}
	}
	if p.Details != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(p.Details)) {
		name = name + " (" + p.Details + ")"
	}
	return name
}
