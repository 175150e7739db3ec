package cart

import (
	"context"
	"time"
)

// Item is a cart line. Name, brand, price and image are copied from the
// product when it is first added.
type Item struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Name      string    `json:"name" bson:"name"`
	Brand     string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Price     float64   `json:"price" bson:"price"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}

// Cart is a user's cart document.
type Cart struct {
	UserID    string    `json:"user_id" bson:"_id"`
	Items     []Item    `json:"items" bson:"items"`
	UpdatedAt time.Time `json:"updated_at,omitzero" bson:"updated_at"`
}

// Count is the total quantity across items.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price times quantity.
func (c Cart) Total() float64 {
	var t float64
	for _, it := range c.Items {
		t += it.Price * float64(it.Quantity)
	}
	return t
}

// Store loads and saves whole cart documents. Load returns an empty cart for
// users without one.
type Store interface {
	Load(ctx context.Context, userID string) (Cart, error)
	Save(ctx context.Context, c Cart) error
}
