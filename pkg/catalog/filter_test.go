package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sprayshop/pkg/catalog"
)

func ids(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

var sampleProducts = []catalog.Product{
	{ID: "1", Name: "Acqua di Gio", Brand: "Armani", Gender: "hombre", FragranceType: "Sprays", Price: 80},
	{ID: "2", Name: "Bloom", Brand: "Gucci", Gender: "mujer", FragranceType: "sprays", Price: 95, Description: "Floral jazmín"},
	{ID: "3", Name: "CK One", Brand: "Calvin Klein", Gender: "unisex", FragranceType: "SPRÁYS", Price: 40},
	{ID: "4", Name: "Daisy", Brand: "", Gender: "mujer", FragranceType: "sprays", Price: 70},
	{ID: "5", Name: "Eros", Brand: "Versace", Gender: "hombre", FragranceType: "perfume", Price: 85},
	{ID: "6", Name: "Fantasy", Brand: "Gucci", Gender: "Mujer", FragranceType: "", Price: 30},
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{"empty filter matches all", catalog.Filter{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"fragrance type ignores case and accents", catalog.Filter{FragranceType: "Sprays"}, []string{"1", "2", "3", "4"}},
		{"gender", catalog.Filter{Genders: []string{"mujer"}}, []string{"2", "4", "6"}},
		{"several genders", catalog.Filter{Genders: []string{"hombre", "unisex"}}, []string{"1", "3", "5"}},
		{"all sentinel is ignored", catalog.Filter{Genders: []string{"all"}}, []string{"1", "2", "3", "4", "5", "6"}},
		{"brand excludes products without brand", catalog.Filter{Brands: []string{"gucci"}}, []string{"2", "6"}},
		{"combined", catalog.Filter{FragranceType: "sprays", Genders: []string{"mujer"}, Brands: []string{"Gucci"}}, []string{"2"}},
		{"query matches description without accents", catalog.Filter{Query: "jazmin"}, []string{"2"}},
		{"query matches brand", catalog.Filter{Query: "klein"}, []string{"3"}},
		{"no matches", catalog.Filter{Brands: []string{"Chanel"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(sampleProducts)))
		})
	}
}

func TestBrands(t *testing.T) {
	assert.Equal(t, []string{"Armani", "Calvin Klein", "Gucci", "Versace"}, catalog.Brands(sampleProducts))
	assert.Empty(t, catalog.Brands(nil))

	t.Run("case and accent variants are listed once", func(t *testing.T) {
		products := []catalog.Product{
			{ID: "1", Name: "A", Brand: "Dior"},
			{ID: "2", Name: "B", Brand: "DIOR"},
			{ID: "3", Name: "C", Brand: "Lancôme"},
			{ID: "4", Name: "D", Brand: "lancome "},
			{ID: "5", Name: "E", Brand: "armani"},
		}
		assert.Equal(t, []string{"armani", "Dior", "Lancôme"}, catalog.Brands(products))

		got := catalog.Filter{Brands: []string{"dior"}}.Apply(products)
		assert.Len(t, got, 2)
	})
}
