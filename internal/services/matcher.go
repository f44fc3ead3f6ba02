package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/bakudeals/deal-scout/internal/models"
)

// MaxMatchesPerTerm bounds the result set for a single search term so one
// broad query cannot inflate a group to the whole catalog.
const MaxMatchesPerTerm = 10

// shortTermLen is the cutoff below which fuzzy scoring is too eager:
// "un" (flour) would otherwise match inside "Sabun" (soap).
const shortTermLen = 3

// Matcher scores catalog products against free-text search terms.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher. Scores below threshold are discarded.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

type scoredProduct struct {
	product models.Product
	score   float64
}

// Match returns the catalog products matching term, best first, capped at
// MaxMatchesPerTerm. An empty term or empty candidate list yields an empty
// slice.
func (m *Matcher) Match(term string, candidates []models.Product) []models.Product {
	normTerm := Normalize(strings.TrimSpace(term))
	if normTerm == "" || len(candidates) == 0 {
		return []models.Product{}
	}

	if utf8.RuneCountInString(normTerm) <= shortTermLen {
		if hits := m.matchWholeWord(normTerm, candidates); len(hits) > 0 {
			return hits
		}
		// No strict hit at all; degrade to fuzzy rather than return nothing.
	}

	return m.matchFuzzy(normTerm, candidates)
}

// matchWholeWord requires the term to appear as a complete word in the
// product name or description.
func (m *Matcher) matchWholeWord(normTerm string, candidates []models.Product) []models.Product {
	re, err := regexp.Compile(`(^|\W)` + regexp.QuoteMeta(normTerm) + `($|\W)`)
	if err != nil {
		return nil
	}

	matches := []models.Product{}
	for _, p := range candidates {
		if re.MatchString(Normalize(p.Name)) || re.MatchString(Normalize(p.Description)) {
			matches = append(matches, p)
			if len(matches) == MaxMatchesPerTerm {
				break
			}
		}
	}
	return matches
}

func (m *Matcher) matchFuzzy(normTerm string, candidates []models.Product) []models.Product {
	scored := []scoredProduct{}
	for _, p := range candidates {
		score := m.scoreProduct(normTerm, p)
		if score >= m.threshold {
			scored = append(scored, scoredProduct{product: p, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > MaxMatchesPerTerm {
		scored = scored[:MaxMatchesPerTerm]
	}

	matches := make([]models.Product, 0, len(scored))
	for _, sp := range scored {
		matches = append(matches, sp.product)
	}
	return matches
}

// scoreProduct takes the best score across the product's searchable fields.
// A whole-word hit scores 1.0, a substring hit 0.9, otherwise the highest
// per-token Jaro-Winkler similarity.
func (m *Matcher) scoreProduct(normTerm string, p models.Product) float64 {
	best := 0.0
	for _, field := range []string{p.Name, p.Brand, p.Description, p.Store} {
		if field == "" {
			continue
		}
		if s := scoreField(normTerm, Normalize(field)); s > best {
			best = s
		}
		if best == 1.0 {
			break
		}
	}
	return best
}

func scoreField(normTerm, normField string) float64 {
	tokens := strings.FieldsFunc(normField, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && !(r > 127)
	})

	best := 0.0
	for _, tok := range tokens {
		if tok == normTerm {
			return 1.0
		}
		if s := matchr.JaroWinkler(normTerm, tok, true); s > best {
			best = s
		}
	}
	if strings.Contains(normField, normTerm) && best < 0.9 {
		best = 0.9
	}
	return best
}
