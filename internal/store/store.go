package store

import "github.com/closetlab/wairdrobe/internal/garment"

// GarmentStore is the durable persistence boundary for the wardrobe.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with fakes.
type GarmentStore interface {
	// LoadAll returns every stored garment, falling back to the legacy
	// flat snapshot when the keyed store is empty.
	LoadAll() ([]garment.Garment, error)
	// ReplaceAll atomically clears the store and writes every item keyed
	// by id. Either the full new collection is durable or an error is
	// returned with the previous contents intact.
	ReplaceAll(items []garment.Garment) error
	Close() error
}

// Verify *DB satisfies GarmentStore at compile time.
var _ GarmentStore = (*DB)(nil)
