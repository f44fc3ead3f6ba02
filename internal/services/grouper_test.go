package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakudeals/deal-scout/internal/models"
)

func dealProduct(id, name, brand, description, store string, price, oldPrice float64) models.Product {
	return models.Product{
		ID:            id,
		Name:          name,
		Brand:         brand,
		Description:   description,
		Store:         store,
		Price:         price,
		OriginalPrice: oldPrice,
	}
}

func TestGrouperDiacriticMerge(t *testing.T) {
	g := NewGrouper(nil)

	groups := g.Group([]models.Product{
		dealProduct("1", "çay", "Azercay", "Azercay qara cay", "BRAVO", 3.0, 3.5),
		dealProduct("2", "Cay", "Beta", "Beta cay 100 paket", "ARAZ", 2.8, 3.2),
	})

	require.Len(t, groups, 1)
	assert.Equal(t, "Çay", groups[0].Label)
	assert.Len(t, groups[0].Products, 2)
}

func TestGrouperKeywordRelabeling(t *testing.T) {
	g := NewGrouper(nil)

	t.Run("liquid oil carve-out beats the butter keyword", func(t *testing.T) {
		groups := g.Group([]models.Product{
			dealProduct("1", "Yag", "Final", "Gunabaxan yagi 1L", "BRAVO", 4.0, 5.0),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "Duru Yağ", groups[0].Label)
	})

	t.Run("butter phrase wins over everything", func(t *testing.T) {
		groups := g.Group([]models.Product{
			dealProduct("1", "Yaglar", "Sevimli Dad", "Sevimli Dad kere yagi", "ARAZ", 6.5, 8.0),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "Kərə Yağı", groups[0].Label)
	})

	t.Run("keyword in brand relabels too", func(t *testing.T) {
		groups := g.Group([]models.Product{
			dealProduct("1", "Icki", "Azercay cay", "Qara paket", "OBA", 3.0, 3.0),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "Çay", groups[0].Label)
	})

	t.Run("unknown sentinel skips keyword rules", func(t *testing.T) {
		// "un" would otherwise match inside "Unknown Product".
		groups := g.Group([]models.Product{
			dealProduct("1", models.UnknownProductName, "Generic", "", "BRAVO", 1.0, 1.0),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, models.UnknownProductName, groups[0].Label)
	})

	t.Run("no keyword keeps own category", func(t *testing.T) {
		groups := g.Group([]models.Product{
			dealProduct("1", "Dondurma", "Salam", "Salam dondurma 1kq", "BRAVO", 5.0, 5.0),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, "Dondurma", groups[0].Label)
	})
}

func TestBrandGroupSelection(t *testing.T) {
	g := NewGrouper(nil)

	t.Run("every non-empty group selects exactly one option", func(t *testing.T) {
		groups := g.BrandGroups([]models.Product{
			dealProduct("1", "Cay", "Azercay", "Azercay qara cay", "BRAVO", 3.0, 3.5),
			dealProduct("2", "Cay", "Beta", "Beta cay", "ARAZ", 2.8, 3.2),
			dealProduct("3", "Pendir", "Milla", "Milla pendir", "OBA", 5.1, 5.1),
		})

		require.NotEmpty(t, groups)
		for _, group := range groups {
			selected := 0
			for _, opt := range group.Options {
				if opt.IsSelected {
					selected++
				}
			}
			assert.Equal(t, 1, selected, "group %s", group.ItemName)
			assert.Equal(t, models.GroupStatusDealFound, group.Status)
		}
	})

	t.Run("identical offers deduplicate", func(t *testing.T) {
		groups := g.BrandGroups([]models.Product{
			dealProduct("1", "Cay", "Beta", "Beta cay", "BRAVO", 2.8, 3.2),
			dealProduct("2", "Cay", "Beta", "Beta cay", "BRAVO", 2.8, 3.2),
		})
		require.Len(t, groups, 1)
		assert.Len(t, groups[0].Options, 1)
	})

	t.Run("grouping is deterministic", func(t *testing.T) {
		catalog := []models.Product{
			dealProduct("1", "Cay", "Azercay", "Azercay qara cay", "BRAVO", 3.0, 3.5),
			dealProduct("2", "Pendir", "Milla", "Milla pendir", "OBA", 5.1, 5.5),
			dealProduct("3", "Cay", "Beta", "Beta cay", "ARAZ", 2.8, 3.2),
		}
		first := g.BrandGroups(catalog)
		second := g.BrandGroups(catalog)
		assert.Equal(t, first, second)
	})
}

func TestAssignBadges(t *testing.T) {
	opts := func(prices ...float64) []models.BrandOption {
		out := make([]models.BrandOption, 0, len(prices))
		for _, p := range prices {
			out = append(out, models.BrandOption{Price: p})
		}
		return out
	}

	t.Run("two-way price tie badges both", func(t *testing.T) {
		options := opts(10, 10, 12)
		assignBadges(options)
		assert.Equal(t, models.BadgeBestPrice, options[0].Badge)
		assert.Equal(t, models.BadgeBestPrice, options[1].Badge)
		assert.Empty(t, options[2].Badge)
	})

	t.Run("three-way price tie suppresses the badge", func(t *testing.T) {
		options := opts(10, 10, 10, 12)
		assignBadges(options)
		for _, opt := range options {
			assert.Empty(t, opt.Badge)
		}
	})

	t.Run("most discount marks the max savings option", func(t *testing.T) {
		options := []models.BrandOption{
			{Price: 10, Savings: 0.5},
			{Price: 11, Savings: 2.0},
		}
		assignBadges(options)
		assert.Equal(t, models.BadgeMostDiscount, options[1].Badge)
	})

	t.Run("single option needs visible savings for a badge", func(t *testing.T) {
		small := []models.BrandOption{{Price: 10, Savings: 0.3}}
		assignBadges(small)
		assert.Empty(t, small[0].Badge)

		big := []models.BrandOption{{Price: 10, Savings: 1.2}}
		assignBadges(big)
		assert.Equal(t, models.BadgeMostDiscount, big[0].Badge)
	})
}
