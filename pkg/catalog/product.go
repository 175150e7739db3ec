package catalog

import (
	"context"
	"fmt"
	"strings"
)

// FragranceTypeSprays is the fragrance type listed on the sprays page.
const FragranceTypeSprays = "sprays"

// Product is a catalog entry.
type Product struct {
	ID            string   `json:"id" yaml:"id" bson:"_id"`
	Name          string   `json:"name" yaml:"name" bson:"name"`
	Brand         string   `json:"brand,omitempty" yaml:"brand" bson:"brand,omitempty"`
	Price         float64  `json:"price" yaml:"price" bson:"price"`
	Gender        string   `json:"gender,omitempty" yaml:"gender" bson:"gender,omitempty"`
	FragranceType string   `json:"fragrance_type,omitempty" yaml:"fragrance_type" bson:"fragrance_type,omitempty"`
	Images        []string `json:"images,omitempty" yaml:"images" bson:"images,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description" bson:"description,omitempty"`
}

// FirstImage returns the main image URL, or an empty string.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Validate checks the fields every stored product must have.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: negative price %v", ErrInvalidProduct, p.Price)
	}
	return nil
}

// Store persists products.
type Store interface {
	// ListProducts returns every product ordered by name.
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	// CreateProduct stores p, assigning an id when it has none.
	CreateProduct(ctx context.Context, p *Product) error
	CountProducts(ctx context.Context) (int64, error)
}
