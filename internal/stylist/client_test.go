package stylist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/closetlab/wairdrobe/internal/apperr"
	"github.com/closetlab/wairdrobe/internal/garment"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeGemini serves canned GenerateContent responses and records requests.
func fakeGemini(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", srv.URL, "text-model", "image-model", testLogger())
	return c, srv
}

// textResponse wraps a JSON payload as a single-candidate text response.
func textResponse(payload string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": payload}},
			},
		}},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestAnalyze(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, textResponse(`{"name": "Navy Wool Blazer", "type": "Blazer", "category": "Outerwear", "uses": ["work"]}`))
	})

	wardrobe := []garment.Garment{{Type: "Jeans", Category: "Bottoms", Uses: []string{"casual"}}}
	result, err := c.Analyze(context.Background(), "BASE64", "image/jpeg", wardrobe)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Name != "Navy Wool Blazer" || result.Category != "Outerwear" {
		t.Errorf("result = %+v", result)
	}

	if !strings.Contains(gotPath, "/models/text-model:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotPath, "key=test-key") {
		t.Errorf("api key missing from query: %q", gotPath)
	}

	parts := gotBody.Contents[0].Parts
	if len(parts) != 2 || parts[0].InlineData == nil || parts[0].InlineData.Data != "BASE64" {
		t.Errorf("image part not sent: %+v", parts)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Error("expected schema-constrained JSON response config")
	}
	if !strings.Contains(parts[1].Text, "Jeans") {
		t.Error("existing wardrobe examples should be embedded in the prompt")
	}
}

func TestAnalyze_CapsExamplesAtTen(t *testing.T) {
	var gotBody generateRequest
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, textResponse(`{"name": "x", "type": "x", "category": "Tops", "uses": []}`))
	})

	wardrobe := make([]garment.Garment, 25)
	for i := range wardrobe {
		wardrobe[i] = garment.Garment{Type: fmt.Sprintf("Type%02d", i)}
	}
	if _, err := c.Analyze(context.Background(), "B", "image/png", wardrobe); err != nil {
		t.Fatal(err)
	}

	prompt := gotBody.Contents[0].Parts[1].Text
	if !strings.Contains(prompt, "Type09") {
		t.Error("tenth example missing")
	}
	if strings.Contains(prompt, "Type10") {
		t.Error("examples not capped at ten")
	}
}

func TestWardrobeInsights(t *testing.T) {
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse(`{"stylePersona": "Minimal Classic", "colorPalette": ["navy"],
			"topCategories": ["Tops"], "versatilityScore": 4.5, "description": "Thin."}`))
	})

	got, err := c.WardrobeInsights(context.Background(), []garment.Garment{{Type: "Tee"}})
	if err != nil {
		t.Fatal(err)
	}
	if got.StylePersona != "Minimal Classic" || got.VersatilityScore != 4.5 {
		t.Errorf("insights = %+v", got)
	}
}

func TestGenerateOutfit(t *testing.T) {
	var gotBody generateRequest
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, textResponse(`{"outfitName": "Smart Casual", "itemIds": ["1", "2"], "reasoning": "Works."}`))
	})

	got, err := c.GenerateOutfit(context.Background(), []garment.Garment{{ID: "1"}}, "dinner", "mild", "blazer")
	if err != nil {
		t.Fatal(err)
	}
	if got.OutfitName != "Smart Casual" || len(got.ItemIDs) != 2 {
		t.Errorf("outfit = %+v", got)
	}

	prompt := gotBody.Contents[0].Parts[0].Text
	for _, want := range []string{"dinner", "mild", "blazer"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestShoppingSuggestions(t *testing.T) {
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse(`{"suggestions": [{"item": "White Sneakers", "reasoning": "Goes with everything."}]}`))
	})

	got, err := c.ShoppingSuggestions(context.Background(), []garment.Garment{{Type: "Tee"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Item != "White Sneakers" {
		t.Errorf("suggestions = %+v", got)
	}
}

func TestVisualize(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"inlineData": map[string]any{"mimeType": "image/png", "data": "IMGDATA"}},
					},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	garments := []garment.Garment{
		{Name: "Navy Blazer", Type: "Blazer", ImageURL: "data:image/jpeg;base64,AAA"},
		{Name: "No Image", Type: "Tee", ImageURL: "https://example.com/x.jpg"},
	}
	uri, err := c.Visualize(context.Background(), garments)
	if err != nil {
		t.Fatal(err)
	}
	if uri != "data:image/png;base64,IMGDATA" {
		t.Errorf("uri = %q", uri)
	}

	if !strings.Contains(gotPath, "image-model") {
		t.Errorf("visualize should use the image model, path = %q", gotPath)
	}

	// One image part for the data-URI garment, plus the text prompt.
	parts := gotBody.Contents[0].Parts
	imageParts := 0
	for _, p := range parts {
		if p.InlineData != nil {
			imageParts++
		}
	}
	if imageParts != 1 {
		t.Errorf("image parts = %d, want 1 (non-data-URI images skipped)", imageParts)
	}
	if gotBody.GenerationConfig != nil {
		t.Error("image generation must not request a JSON schema")
	}
}

func TestVisualize_NoImageInResponse(t *testing.T) {
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse("sorry, text only"))
	})

	_, err := c.Visualize(context.Background(), []garment.Garment{{Type: "Tee"}})
	if !errors.Is(err, apperr.ErrAIRequest) {
		t.Errorf("err = %v, want ErrAIRequest", err)
	}
}

func TestGenerate_APIError(t *testing.T) {
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"code": 429, "message": "Resource exhausted", "status": "RESOURCE_EXHAUSTED"}}`)
	})

	_, err := c.WardrobeInsights(context.Background(), nil)
	if !errors.Is(err, apperr.ErrAIRequest) {
		t.Fatalf("err = %v, want ErrAIRequest", err)
	}
	if !strings.Contains(err.Error(), "Resource exhausted") {
		t.Errorf("err = %q, want upstream message surfaced", err)
	}
}

func TestGenerate_MalformedJSONPayload(t *testing.T) {
	c, _ := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse("this is not json"))
	})

	_, err := c.WardrobeInsights(context.Background(), nil)
	if !errors.Is(err, apperr.ErrAIRequest) {
		t.Errorf("err = %v, want ErrAIRequest", err)
	}
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	c := NewClient("", "http://unused", "m", "im", testLogger())
	_, err := c.WardrobeInsights(context.Background(), nil)
	if !errors.Is(err, apperr.ErrAIRequest) {
		t.Errorf("err = %v, want ErrAIRequest", err)
	}
}

func TestSplitDataURI(t *testing.T) {
	cases := []struct {
		uri  string
		mime string
		data string
		ok   bool
	}{
		{"data:image/png;base64,abc", "image/png", "abc", true},
		{"data:image/jpeg;base64,x/y=", "image/jpeg", "x/y=", true},
		{"https://example.com/a.png", "", "", false},
		{"data:image/png;base64,", "", "", false},
		{"data:,", "", "", false},
	}
	for _, tc := range cases {
		mime, data, ok := splitDataURI(tc.uri)
		if mime != tc.mime || data != tc.data || ok != tc.ok {
			t.Errorf("splitDataURI(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.uri, mime, data, ok, tc.mime, tc.data, tc.ok)
		}
	}
}
