// Package stylist is the client for the generative AI styling service.
// It translates garment collections and user-chosen parameters into
// Gemini GenerateContent requests and parses the structured responses
// into typed suggestion objects. It never touches the persisted store.
package stylist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/closetlab/wairdrobe/internal/apperr"
	"github.com/closetlab/wairdrobe/internal/garment"
)

// DefaultBaseURL is the Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Gemini GenerateContent API.
type Client struct {
	HTTPClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	imageModel string
	logger     *slog.Logger
}

// NewClient creates a stylist client. baseURL defaults to the public
// Gemini endpoint; model and imageModel must name valid Gemini models.
func NewClient(apiKey, baseURL, model, imageModel string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		imageModel: imageModel,
		logger:     logger,
	}
}

// contextItem is a garment with the image stripped, keeping prompts small.
type contextItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Uses        []string `json:"uses"`
	LastWorn    string   `json:"lastWorn,omitempty"`
	NewPurchase bool     `json:"isNewPurchase,omitempty"`
}

func lightweightContext(wardrobe []garment.Garment) []contextItem {
	out := make([]contextItem, len(wardrobe))
	for i, g := range wardrobe {
		out[i] = contextItem{
			ID:          g.ID,
			Name:        g.Name,
			Type:        g.Type,
			Category:    g.Category,
			Uses:        g.Uses,
			LastWorn:    g.LastWorn,
			NewPurchase: g.NewPurchase,
		}
	}
	return out
}

// Analyze classifies the garment in the image. Up to ten existing items
// are included as categorization examples so new items follow the user's
// established conventions.
func (c *Client) Analyze(ctx context.Context, imageData, mimeType string, wardrobe []garment.Garment) (*AnalysisResult, error) {
	type example struct {
		Type     string   `json:"type"`
		Category string   `json:"category"`
		Uses     []string `json:"uses"`
	}
	examples := []example{}
	for _, g := range wardrobe {
		if len(examples) == 10 {
			break
		}
		examples = append(examples, example{Type: g.Type, Category: g.Category, Uses: g.Uses})
	}

	contextPrompt := ""
	if len(examples) > 0 {
		ex, _ := json.Marshal(examples)
		contextPrompt = fmt.Sprintf("To help you, here's how I've categorized some of my other clothes: %s", ex)
	}

	prompt := fmt.Sprintf(`You are a fashion AI assistant. Analyze the garment in the image.
%s

Perform the following:
1. Generate a unique, descriptive name. Include the color, pattern (if any), and material or specific style details.
2. Identify its specific 'type' (e.g., 'Hoodie', 'Pleated Skirt').
3. Identify its 'category' from this list: ['Tops', 'Bottoms', 'Outerwear', 'One-Piece', 'Footwear', 'Accessories'].
4. Suggest up to 3 'uses'.

Response must be JSON.`, contextPrompt)

	parts := []part{
		{InlineData: &inlineData{MimeType: mimeType, Data: imageData}},
		{Text: prompt},
	}
	schema := objectSchema(map[string]any{
		"name":     map[string]any{"type": "STRING"},
		"type":     map[string]any{"type": "STRING"},
		"category": map[string]any{"type": "STRING", "description": "One of: Tops, Bottoms, Outerwear, One-Piece, Footwear, Accessories"},
		"uses":     map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
	}, "name", "type", "category", "uses")

	var result AnalysisResult
	if err := c.generateJSON(ctx, c.model, parts, schema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WardrobeInsights produces the wardrobe audit report.
func (c *Client) WardrobeInsights(ctx context.Context, wardrobe []garment.Garment) (*Insights, error) {
	inventory, _ := json.Marshal(lightweightContext(wardrobe))
	prompt := fmt.Sprintf(`Act as a strict, high-standards fashion editor. Analyze this wardrobe inventory: %s.

Your task is to provide a brutally honest 'Wardrobe Audit'.

STRICT SCORING RULES FOR VERSATILITY (0-10):
- 0-3 items: Score MUST be 0.0 to 2.0. (It's not a wardrobe, it's an outfit).
- 4-9 items: Score MUST be 2.0 to 4.5. (Severe gaps exist, impossible to be versatile).
- 10-19 items: Score MUST be 4.5 to 7.0. (Getting there, but likely missing key layers/shoes).
- 20+ items: Score based on actual mix-and-match potential.

TONE:
- Be witty, critical, and realistic.
- Do NOT be supportive if the wardrobe is lacking.
- If the wardrobe is small, explicitly call out that they need to go shopping.

Output JSON with:
- stylePersona: Creative 2-3 word vibe.
- colorPalette: Colors found.
- topCategories: Top 3 categories.
- versatilityScore: The number based on the strict rules above.
- description: A blunt, 2-sentence summary.`, inventory)

	schema := objectSchema(map[string]any{
		"stylePersona":     map[string]any{"type": "STRING"},
		"colorPalette":     map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"topCategories":    map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"versatilityScore": map[string]any{"type": "NUMBER"},
		"description":      map[string]any{"type": "STRING"},
	}, "stylePersona", "colorPalette", "topCategories", "versatilityScore", "description")

	var result Insights
	if err := c.generateJSON(ctx, c.model, []part{{Text: prompt}}, schema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateOutfit asks for an outfit composed from the wardrobe for the
// given occasion, weather, and focus. Returned item ids may reference
// items that no longer exist; callers resolve them against the live
// collection and drop dangling ids.
func (c *Client) GenerateOutfit(ctx context.Context, wardrobe []garment.Garment, occasion, weather, focus string) (*OutfitSuggestion, error) {
	inventory, _ := json.Marshal(lightweightContext(wardrobe))
	prompt := fmt.Sprintf(`Act as a personal stylist. Create an outfit from this wardrobe: %s.
Occasion: %s, Weather: %s, Focus: %s.
Select items and return IDs, name, and reasoning.`, inventory, occasion, weather, focus)

	schema := objectSchema(map[string]any{
		"outfitName": map[string]any{"type": "STRING"},
		"itemIds":    map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
		"reasoning":  map[string]any{"type": "STRING"},
	}, "outfitName", "itemIds", "reasoning")

	var result OutfitSuggestion
	if err := c.generateJSON(ctx, c.model, []part{{Text: prompt}}, schema, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ShoppingSuggestions runs the gap analysis and returns purchase ideas.
func (c *Client) ShoppingSuggestions(ctx context.Context, wardrobe []garment.Garment) ([]ShoppingItem, error) {
	inventory, _ := json.Marshal(lightweightContext(wardrobe))
	prompt := fmt.Sprintf("Analyze this wardrobe for gaps: %s. Suggest 3 specific items to maximize versatility.", inventory)

	schema := objectSchema(map[string]any{
		"suggestions": map[string]any{
			"type": "ARRAY",
			"items": objectSchema(map[string]any{
				"item":      map[string]any{"type": "STRING"},
				"reasoning": map[string]any{"type": "STRING"},
			}, "item", "reasoning"),
		},
	}, "suggestions")

	var result struct {
		Suggestions []ShoppingItem `json:"suggestions"`
	}
	if err := c.generateJSON(ctx, c.model, []part{{Text: prompt}}, schema, &result); err != nil {
		return nil, err
	}
	return result.Suggestions, nil
}

// Visualize renders the outfit onto a mannequin with the image model and
// returns the generated image as a data URI. Every garment must carry a
// data-URI image; items without one are skipped.
func (c *Client) Visualize(ctx context.Context, garments []garment.Garment) (string, error) {
	parts := []part{}
	descriptions := make([]string, 0, len(garments))
	for _, g := range garments {
		descriptions = append(descriptions, fmt.Sprintf("%s (%s)", g.Type, g.Name))
		mime, data, ok := splitDataURI(g.ImageURL)
		if !ok {
			continue
		}
		parts = append(parts, part{InlineData: &inlineData{MimeType: mime, Data: data}})
	}

	prompt := fmt.Sprintf("Generate a realistic fashion image of a mannequin wearing this outfit: %s. Combine these specific items onto the mannequin. Clean neutral background.",
		strings.Join(descriptions, ", "))
	parts = append(parts, part{Text: prompt})

	resp, err := c.generate(ctx, c.imageModel, generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			mime := p.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return fmt.Sprintf("data:%s;base64,%s", mime, p.InlineData.Data), nil
		}
	}
	return "", fmt.Errorf("%w: no image in visualization response", apperr.ErrAIRequest)
}

// generateJSON issues a schema-constrained request and unmarshals the
// text of the first candidate into out.
func (c *Client) generateJSON(ctx context.Context, model string, parts []part, schema map[string]any, out any) error {
	resp, err := c.generate(ctx, model, generateRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return err
	}

	text := ""
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			text += p.Text
		}
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty response", apperr.ErrAIRequest)
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", apperr.ErrAIRequest, err)
	}
	return nil
}

// generate posts one GenerateContent request.
// Endpoint format: {base}/models/{model}:generateContent?key={api_key}.
func (c *Client) generate(ctx context.Context, model string, reqBody generateRequest) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: api key not configured", apperr.ErrAIRequest)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", apperr.ErrAIRequest, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperr.ErrAIRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrAIRequest, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperr.ErrAIRequest, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr apiError
		msg := httpResp.Status
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		c.logger.Warn("stylist: request failed",
			slog.String("model", model),
			slog.Int("status", httpResp.StatusCode),
			slog.String("error", msg))
		return nil, fmt.Errorf("%w: %s", apperr.ErrAIRequest, msg)
	}

	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperr.ErrAIRequest, err)
	}

	c.logger.Debug("stylist: request ok",
		slog.String("model", model),
		slog.Duration("elapsed", time.Since(start)))
	return &resp, nil
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "OBJECT",
		"properties": properties,
		"required":   required,
	}
}

// splitDataURI decomposes "data:<mime>;base64,<data>" references.
func splitDataURI(uri string) (mime, data string, ok bool) {
	if !strings.HasPrefix(uri, "data:") {
		return "", "", false
	}
	head, payload, found := strings.Cut(uri, ",")
	if !found {
		return "", "", false
	}
	mime = strings.TrimPrefix(head, "data:")
	mime = strings.TrimSuffix(mime, ";base64")
	if mime == "" || payload == "" {
		return "", "", false
	}
	return mime, payload, true
}
