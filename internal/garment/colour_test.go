package garment

import "testing"

func TestMatchesColour_Keywords(t *testing.T) {
	cases := []struct {
		name   string
		g      Garment
		colour string
		want   bool
	}{
		{"navy maps to blue", Garment{Name: "Navy Blazer"}, "Blue", true},
		{"navy is not red", Garment{Name: "Navy Blazer"}, "Red", false},
		{"direct name", Garment{Name: "Red Scarf"}, "Red", true},
		{"keyword in type", Garment{Name: "Everyday", Type: "Denim Jacket"}, "Blue", true},
		{"keyword in uses", Garment{Name: "Plain Tee", Uses: []string{"pairs with olive chinos"}}, "Green", true},
		{"case insensitive", Garment{Name: "CHARCOAL Sweater"}, "Grey", true},
		{"no match", Garment{Name: "Plain Tee", Type: "T-Shirt"}, "Purple", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesColour(tc.g, tc.colour); got != tc.want {
				t.Errorf("MatchesColour(%+v, %q) = %v, want %v", tc.g, tc.colour, got, tc.want)
			}
		})
	}
}

func TestMatchesColour_UnknownColourUsesNameAsKeyword(t *testing.T) {
	g := Garment{Name: "Turquoise Bracelet"}
	if !MatchesColour(g, "Turquoise") {
		t.Error("unknown colour should fall back to its own name as keyword")
	}
	if MatchesColour(g, "Chartreuse") {
		t.Error("non-matching unknown colour should not match")
	}
}

func TestColourCatalogue(t *testing.T) {
	if len(Colours) != 12 {
		t.Fatalf("catalogue size = %d, want 12", len(Colours))
	}
	// Every catalogue colour has a keyword set containing its own name.
	for _, c := range Colours {
		if !MatchesColour(Garment{Name: c.Name + " thing"}, c.Name) {
			t.Errorf("colour %q does not match its own name", c.Name)
		}
	}
}
