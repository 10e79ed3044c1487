package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/closetlab/wairdrobe/internal/backup"
	"github.com/closetlab/wairdrobe/internal/garment"
	"github.com/closetlab/wairdrobe/internal/stylist"
)

// GarmentRequest is the request body for creating or updating a garment.
type GarmentRequest struct {
	ImageURL    string   `json:"imageUrl"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Uses        []string `json:"uses"`
	LastWorn    string   `json:"lastWorn"`
	NewPurchase bool     `json:"isNewPurchase"`
}

// Validate enforces the add/update boundary: a garment without a type
// cannot be persisted.
func (r GarmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required),
	)
}

// ToGarment converts the request into a domain garment (id unset).
func (r GarmentRequest) ToGarment() garment.Garment {
	uses := r.Uses
	if uses == nil {
		uses = []string{}
	}
	return garment.Garment{
		ImageURL:    r.ImageURL,
		Name:        r.Name,
		Type:        r.Type,
		Category:    r.Category,
		Uses:        uses,
		LastWorn:    r.LastWorn,
		NewPurchase: r.NewPurchase,
	}
}

// GarmentListResponse wraps the full collection.
type GarmentListResponse struct {
	Garments []garment.Garment `json:"garments"`
	Total    int               `json:"total"`
}

// CategoriesResponse wraps the grouped-by-category view.
type CategoriesResponse struct {
	Categories []garment.Grouped `json:"categories"`
}

// CategoryViewResponse is the filtered item list for one category.
type CategoryViewResponse struct {
	Category string            `json:"category"`
	Items    []garment.Garment `json:"items"`
	Total    int               `json:"total"`
}

// ImportResponse reports a completed snapshot import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// BackupListResponse wraps available snapshot files.
type BackupListResponse struct {
	Backups []backup.Snapshot `json:"backups"`
}

// AnalyzeRequest carries a captured garment image for classification.
type AnalyzeRequest struct {
	ImageData string `json:"imageData"` // base64, no data: prefix
	MimeType  string `json:"mimeType"`
}

// Validate checks the analyze payload.
func (r AnalyzeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ImageData, validation.Required),
		validation.Field(&r.MimeType, validation.Required),
	)
}

// OutfitRequest carries the user-chosen styling parameters.
type OutfitRequest struct {
	Occasion string `json:"occasion"`
	Weather  string `json:"weather"`
	Focus    string `json:"focus"`
}

// OutfitResponse is an outfit suggestion with the returned ids resolved
// against the live collection; dangling ids are dropped.
type OutfitResponse struct {
	OutfitName string            `json:"outfitName"`
	Items      []garment.Garment `json:"items"`
	Reasoning  string            `json:"reasoning"`
}

// ShoppingResponse wraps gap-analysis suggestions.
type ShoppingResponse struct {
	Suggestions []stylist.ShoppingItem `json:"suggestions"`
}

// VisualizeRequest names the items to render.
type VisualizeRequest struct {
	ItemIDs []string `json:"itemIds"`
}

// Validate checks the visualize payload.
func (r VisualizeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ItemIDs, validation.Required, validation.Length(1, 0)),
	)
}

// VisualizeResponse carries the generated outfit image.
type VisualizeResponse struct {
	Image string `json:"image"` // data URI
}
