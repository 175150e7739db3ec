// Package cart manages the signed-in user's shopping cart.
//
// A cart is a single document per user holding product snapshots and
// quantities. Adding a product already in the cart increases its quantity;
// setting a quantity to zero removes the line. Count feeds the header badge.
package cart
