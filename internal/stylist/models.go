package stylist

// Native Gemini GenerateContent API shapes (only the fields consumed).

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Typed suggestion objects parsed out of structured responses.

// AnalysisResult is the classification of a photographed garment.
type AnalysisResult struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Uses     []string `json:"uses"`
}

// Insights is the wardrobe audit report.
type Insights struct {
	StylePersona     string   `json:"stylePersona"`
	ColorPalette     []string `json:"colorPalette"`
	TopCategories    []string `json:"topCategories"`
	VersatilityScore float64  `json:"versatilityScore"`
	Description      string   `json:"description"`
}

// OutfitSuggestion is a styled combination of existing wardrobe items.
type OutfitSuggestion struct {
	OutfitName string   `json:"outfitName"`
	ItemIDs    []string `json:"itemIds"`
	Reasoning  string   `json:"reasoning"`
}

// ShoppingItem is one gap-analysis purchase suggestion.
type ShoppingItem struct {
	Item      string `json:"item"`
	Reasoning string `json:"reasoning"`
}
