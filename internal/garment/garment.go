// Package garment defines the wardrobe domain types and the pure
// derivation functions computed over a collection: category inference,
// colour keyword matching, grouping, filtering, and catalogue sorting.
package garment

// Garment is the sole persisted entity: one catalogued piece of clothing.
type Garment struct {
	// ID doubles as the primary key and a creation-order token: ids
	// generated locally are lexically sortable timestamps, imported ids
	// may be arbitrary strings.
	ID          string   `json:"id"`
	ImageURL    string   `json:"imageUrl"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Uses        []string `json:"uses"`
	LastWorn    string   `json:"lastWorn,omitempty"` // YYYY-MM-DD, empty = never worn
	NewPurchase bool     `json:"isNewPurchase,omitempty"`
}

// DisplayName returns the user-facing label, falling back to the type
// when no name was assigned.
func (g Garment) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.Type
}

// AddUse appends a styling tag, suppressing exact-string duplicates.
func (g *Garment) AddUse(use string) {
	for _, u := range g.Uses {
		if u == use {
			return
		}
	}
	g.Uses = append(g.Uses, use)
}
