package garment

import (
	"sort"
	"strings"
)

// Grouped is a category bucket with its items, in display order.
type Grouped struct {
	Category string    `json:"category"`
	Items    []Garment `json:"items"`
}

// GroupByCategory partitions the collection into the canonical categories
// plus an Other bucket. The stored or inferred category is matched against
// bucket names case-insensitively; anything unmatched lands in Other.
// Every item appears in exactly one bucket.
func GroupByCategory(collection []Garment) []Grouped {
	order := append(append([]string{}, CategoryOrder...), CategoryOther)

	buckets := make(map[string][]Garment, len(order))
	for _, cat := range order {
		buckets[cat] = []Garment{}
	}

	for _, g := range collection {
		cat := ResolveCategory(g)
		key := CategoryOther
		for _, known := range order {
			if strings.EqualFold(known, cat) {
				key = known
				break
			}
		}
		buckets[key] = append(buckets[key], g)
	}

	out := make([]Grouped, 0, len(order))
	for _, cat := range order {
		out = append(out, Grouped{Category: cat, Items: buckets[cat]})
	}
	return out
}

// NewArrivals returns unworn new purchases, preserving collection order.
// Once lastWorn is set the item leaves this view permanently, even if the
// new-purchase flag remains.
func NewArrivals(collection []Garment) []Garment {
	out := []Garment{}
	for _, g := range collection {
		if g.NewPurchase && g.LastWorn == "" {
			out = append(out, g)
		}
	}
	return out
}

// Filters describes the filter options available within one category view.
type Filters struct {
	Types   []string `json:"types"`
	Colours []Colour `json:"colours"`
}

// AvailableFilters scans a category's items once, collecting the distinct
// type values (sorted) and the catalogue colours matched by any item.
func AvailableFilters(items []Garment) Filters {
	typeSet := make(map[string]struct{})
	colourSet := make(map[string]struct{})

	for _, g := range items {
		if g.Type != "" {
			typeSet[g.Type] = struct{}{}
		}
		for _, c := range Colours {
			if MatchesColour(g, c.Name) {
				colourSet[c.Name] = struct{}{}
			}
		}
	}

	types := make([]string, 0, len(typeSet))
	for t := range typeSet {
		types = append(types, t)
	}
	sort.Strings(types)

	colours := []Colour{}
	for _, c := range Colours {
		if _, ok := colourSet[c.Name]; ok {
			colours = append(colours, c)
		}
	}
	return Filters{Types: types, Colours: colours}
}

// ApplyFilters keeps items matching the active colour AND the active type.
// Both filters are optional; an empty value is a pass-through.
func ApplyFilters(items []Garment, activeColour, activeType string) []Garment {
	out := []Garment{}
	for _, g := range items {
		if activeColour != "" && !MatchesColour(g, activeColour) {
			continue
		}
		if activeType != "" && g.Type != activeType {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Catalogue sort keys.
const (
	SortByName     = "name"
	SortByCategory = "category"
	SortByType     = "type"
	SortByLastWorn = "lastWorn"
	SortByStatus   = "status"
)

// SortCatalogue returns a sorted copy of the collection for the full-catalogue
// table. Name, category, and type compare case-insensitively. LastWorn sorts
// never-worn items first when ascending (then oldest to newest); descending
// reverses the whole order. Status sorts on the new-purchase flag as a 0/1
// key. Unknown keys leave the order unchanged.
func SortCatalogue(collection []Garment, key string, descending bool) []Garment {
	out := make([]Garment, len(collection))
	copy(out, collection)

	dir := 1
	if descending {
		dir = -1
	}

	less := func(a, b Garment) int { return 0 }
	switch key {
	case SortByLastWorn:
		less = func(a, b Garment) int {
			if a.LastWorn == "" && b.LastWorn == "" {
				return 0
			}
			if a.LastWorn == "" {
				return -1 * dir
			}
			if b.LastWorn == "" {
				return 1 * dir
			}
			return strings.Compare(a.LastWorn, b.LastWorn) * dir
		}
	case SortByStatus:
		less = func(a, b Garment) int {
			return (statusKey(a) - statusKey(b)) * dir
		}
	case SortByName, SortByCategory, SortByType:
		field := func(g Garment) string {
			switch key {
			case SortByName:
				return g.Name
			case SortByCategory:
				return g.Category
			default:
				return g.Type
			}
		}
		less = func(a, b Garment) int {
			return strings.Compare(strings.ToLower(field(a)), strings.ToLower(field(b))) * dir
		}
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j]) < 0
	})
	return out
}

func statusKey(g Garment) int {
	if g.NewPurchase {
		return 1
	}
	return 0
}

// FilterCatalogue keeps items whose name, type, or category contains the
// query, case-insensitively. An empty query is a pass-through.
func FilterCatalogue(collection []Garment, query string) []Garment {
	if query == "" {
		return collection
	}
	q := strings.ToLower(query)
	out := []Garment{}
	for _, g := range collection {
		if strings.Contains(strings.ToLower(g.Name), q) ||
			strings.Contains(strings.ToLower(g.Type), q) ||
			strings.Contains(strings.ToLower(g.Category), q) {
			out = append(out, g)
		}
	}
	return out
}
