package garment

import "testing"

func TestInferCategory(t *testing.T) {
	cases := []struct {
		garmentType string
		want        string
	}{
		{"Leather Jacket", CategoryOuterwear},
		{"Wool Coat", CategoryOuterwear},
		{"Blazer", CategoryOuterwear},
		{"Skinny Jeans", CategoryBottoms},
		{"Pleated Skirt", CategoryBottoms},
		{"Chino Pants", CategoryBottoms},
		{"Sneakers", CategoryFootwear},
		{"Chelsea Boots", CategoryFootwear},
		{"Cocktail Dress", CategoryOnePiece},
		{"Jumpsuit", CategoryOnePiece},
		{"Wool Scarf", CategoryAccessories},
		{"Tote Bag", CategoryAccessories},
		{"Plain T-Shirt", CategoryTops},
		{"Silk Blouse", CategoryTops},
		{"", CategoryTops},
		{"Something Unrecognizable", CategoryTops},
	}
	for _, tc := range cases {
		if got := InferCategory(tc.garmentType); got != tc.want {
			t.Errorf("InferCategory(%q) = %q, want %q", tc.garmentType, got, tc.want)
		}
	}
}

func TestInferCategory_CaseInsensitive(t *testing.T) {
	if got := InferCategory("BOMBER JACKET"); got != CategoryOuterwear {
		t.Errorf("got %q, want %q", got, CategoryOuterwear)
	}
}

func TestInferCategory_Precedence(t *testing.T) {
	// "suit jacket" contains both an outerwear and a one-piece keyword;
	// outerwear is checked first and must win.
	if got := InferCategory("suit jacket"); got != CategoryOuterwear {
		t.Errorf("got %q, want %q", got, CategoryOuterwear)
	}
}

func TestResolveCategory_StoredWins(t *testing.T) {
	g := Garment{Type: "Denim Jacket", Category: "Bottoms"}
	if got := ResolveCategory(g); got != "Bottoms" {
		t.Errorf("stored category should win, got %q", got)
	}
}

func TestResolveCategory_FallsBackToInference(t *testing.T) {
	g := Garment{Type: "Chelsea Boots"}
	if got := ResolveCategory(g); got != CategoryFootwear {
		t.Errorf("got %q, want %q", got, CategoryFootwear)
	}
}
