package garment

import "strings"

// Canonical categories.
const (
	CategoryOuterwear   = "Outerwear"
	CategoryTops        = "Tops"
	CategoryBottoms     = "Bottoms"
	CategoryOnePiece    = "One-Piece"
	CategoryFootwear    = "Footwear"
	CategoryAccessories = "Accessories"
	CategoryOther       = "Other"
)

// CategoryOrder is the fixed display order for category grouping.
var CategoryOrder = []string{
	CategoryOuterwear,
	CategoryTops,
	CategoryBottoms,
	CategoryOnePiece,
	CategoryFootwear,
	CategoryAccessories,
}

// categoryKeywords are tested in precedence order: the first group with a
// keyword contained in the lower-cased type wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryOuterwear, []string{"jacket", "coat", "blazer", "hoodie", "cardigan", "vest", "parka", "trench"}},
	{CategoryBottoms, []string{"jean", "trouser", "skirt", "short", "pant", "legging", "jogger"}},
	{CategoryFootwear, []string{"shoe", "boot", "sneaker", "sandal", "heel", "loafer", "flat"}},
	{CategoryOnePiece, []string{"dress", "jumpsuit", "suit", "gown", "romper"}},
	{CategoryAccessories, []string{"bag", "hat", "scarf", "belt", "tie", "glasses", "jewelry"}},
}

// InferCategory maps a free-text garment type to a canonical category.
// T-shirts, shirts, blouses, and sweaters all land on the Tops default.
func InferCategory(garmentType string) string {
	t := strings.ToLower(garmentType)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(t, kw) {
				return group.category
			}
		}
	}
	return CategoryTops
}

// ResolveCategory returns the stored category verbatim when present;
// inference is a fallback only and never overwrites a stored value.
func ResolveCategory(g Garment) string {
	if g.Category != "" {
		return g.Category
	}
	return InferCategory(g.Type)
}
