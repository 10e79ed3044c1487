package garment

import "strings"

// Colour is one entry of the fixed colour catalogue used for filtering.
type Colour struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Colours is the ordered catalogue of canonical colours.
var Colours = []Colour{
	{Name: "Black", Hex: "#1c1917"},
	{Name: "White", Hex: "#ffffff"},
	{Name: "Grey", Hex: "#9ca3af"},
	{Name: "Beige", Hex: "#d6d3d1"},
	{Name: "Brown", Hex: "#78350f"},
	{Name: "Red", Hex: "#ef4444"},
	{Name: "Orange", Hex: "#f97316"},
	{Name: "Yellow", Hex: "#eab308"},
	{Name: "Green", Hex: "#22c55e"},
	{Name: "Blue", Hex: "#3b82f6"},
	{Name: "Purple", Hex: "#a855f7"},
	{Name: "Pink", Hex: "#ec4899"},
}

var colourKeywords = map[string][]string{
	"Black":  {"black", "noir", "dark", "ink", "obsidian", "jet"},
	"White":  {"white", "ivory", "cream", "snow", "light", "eggshell"},
	"Grey":   {"grey", "gray", "charcoal", "silver", "slate", "ash", "smoke"},
	"Beige":  {"beige", "tan", "khaki", "nude", "camel", "sand", "taupe", "oat"},
	"Brown":  {"brown", "chocolate", "coffee", "rust", "mocha", "cognac", "sepia"},
	"Red":    {"red", "maroon", "crimson", "burgundy", "cherry", "wine", "scarlet"},
	"Orange": {"orange", "peach", "terracotta", "coral", "apricot"},
	"Yellow": {"yellow", "gold", "mustard", "lemon", "amber"},
	"Green":  {"green", "olive", "lime", "emerald", "sage", "mint", "forest", "teal"},
	"Blue":   {"blue", "navy", "cyan", "indigo", "denim", "azure", "sky", "royal", "sapphire"},
	"Purple": {"purple", "violet", "lavender", "plum", "lilac", "mauve", "grape"},
	"Pink":   {"pink", "rose", "magenta", "salmon", "blush", "fuchsia"},
}

// MatchesColour reports whether the garment's textual fields reference the
// given canonical colour. Name, type, and uses are concatenated into one
// lower-cased blob and scanned for keyword substrings. Unknown colour names
// fall back to testing the name itself as the sole keyword.
func MatchesColour(g Garment, colourName string) bool {
	text := strings.ToLower(g.Name + " " + g.Type + " " + strings.Join(g.Uses, " "))
	keywords, ok := colourKeywords[colourName]
	if !ok {
		keywords = []string{strings.ToLower(colourName)}
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
