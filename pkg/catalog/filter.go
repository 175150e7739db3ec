package catalog

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter narrows a product list. Empty fields match everything.
// All comparisons ignore case and accents.
type Filter struct {
	FragranceType string
	Genders       []string
	Brands        []string
	// Query matches a substring of name, brand or description.
	Query string
}

// Apply returns the products matching f, keeping their order.
func (f Filter) Apply(products []Product) []Product {
	ft := fold(f.FragranceType)
	genders := foldAll(f.Genders)
	brands := foldAll(f.Brands)
	query := fold(f.Query)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if ft != "" && fold(p.FragranceType) != ft {
			continue
		}
		if len(genders) > 0 && !slices.Contains(genders, fold(p.Gender)) {
			continue
		}
		if len(brands) > 0 && (p.Brand == "" || !slices.Contains(brands, fold(p.Brand))) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Brands returns the distinct non-empty brands of products, sorted. Brands
// that differ only in case or accents are listed once, with the first
// spelling seen.
func Brands(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	brands := make([]string, 0, len(products))
	for _, p := range products {
		key := fold(p.Brand)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		brands = append(brands, strings.TrimSpace(p.Brand))
	}
	slices.SortFunc(brands, func(a, b string) int {
		return strings.Compare(fold(a), fold(b))
	})
	return brands
}

func matchesQuery(p Product, query string) bool {
	return strings.Contains(fold(p.Name), query) ||
		strings.Contains(fold(p.Brand), query) ||
		strings.Contains(fold(p.Description), query)
}

// fold strips diacritics and case-folds s, so "Sprays", "SPRAYS" and
// "spráys" compare equal.
func fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func foldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if f := fold(v); f != "" && f != "all" {
			out = append(out, f)
		}
	}
	return out
}
