// Package catalog holds the product catalog and the filters behind the
// sprays listing.
//
// Products come from a Store: MongoStore in production, MemoryStore in
// tests, optionally fronted by CachedStore. ListSprays keeps products whose
// fragrance type is "sprays" (ignoring case and accents), then applies the
// shopper's gender, brand and text filters. The brand list it returns covers
// every spray so the filter panel doesn't shrink as boxes are ticked.
//
// LoadSeed reads a YAML catalog; Seed writes it to a store.
package catalog
