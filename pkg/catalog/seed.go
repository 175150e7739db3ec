package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout accepted by LoadSeed:
//
//	products:
//	  - id: sauvage-edt
//	    name: Sauvage
//	    brand: Dior
//	    price: 89.9
//	    gender: hombre
//	    fragrance_type: Sprays
//	    images: [https://cdn.example.com/sauvage.jpg]
type SeedFile struct {
	Products []Product `yaml:"products"`
}

// LoadSeed decodes and validates a seed file.
func LoadSeed(r io.Reader) ([]Product, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Join(ErrInvalidSeed, err)
	}

	for i, p := range f.Products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: product #%d: %w", ErrInvalidSeed, i+1, err)
		}
	}
	return f.Products, nil
}

// Seed creates products in s, skipping ids that already exist. It returns
// the number of products created.
func Seed(ctx context.Context, s Store, products []Product) (int, error) {
	created := 0
	for i := range products {
		p := products[i]
		err := s.CreateProduct(ctx, &p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrProductExists):
		default:
			return created, fmt.Errorf("seed %q: %w", p.Name, err)
		}
	}
	return created, nil
}
