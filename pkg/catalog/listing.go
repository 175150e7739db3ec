package catalog

import "context"

// Listing is the sprays page: the matching products plus every brand
// available among sprays, independent of the gender and brand selection.
type Listing struct {
	Products []Product `json:"products"`
	Brands   []string  `json:"brands"`
	Total    int       `json:"total"`
}

// ListSprays loads the catalog and applies f on top of the sprays filter.
func ListSprays(ctx context.Context, s Store, f Filter) (Listing, error) {
	all, err := s.ListProducts(ctx)
	if err != nil {
		return Listing{}, err
	}

	sprays := Filter{FragranceType: FragranceTypeSprays}.Apply(all)
	f.FragranceType = ""
	products := f.Apply(sprays)

	return Listing{
		Products: products,
		Brands:   Brands(sprays),
		Total:    len(products),
	}, nil
}
