package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/closetlab/wairdrobe/internal/apperr"
	"github.com/closetlab/wairdrobe/internal/garment"
	"github.com/closetlab/wairdrobe/internal/stylist"
	"github.com/closetlab/wairdrobe/internal/wardrobe"
)

// Stylist is the AI collaborator boundary consumed by the handlers.
// The concrete implementation lives in internal/stylist; tests use fakes.
type Stylist interface {
	Analyze(ctx context.Context, imageData, mimeType string, wardrobe []garment.Garment) (*stylist.AnalysisResult, error)
	WardrobeInsights(ctx context.Context, wardrobe []garment.Garment) (*stylist.Insights, error)
	GenerateOutfit(ctx context.Context, wardrobe []garment.Garment, occasion, weather, focus string) (*stylist.OutfitSuggestion, error)
	ShoppingSuggestions(ctx context.Context, wardrobe []garment.Garment) ([]stylist.ShoppingItem, error)
	Visualize(ctx context.Context, garments []garment.Garment) (string, error)
}

// StylistHandler holds the AI styling route handlers. Stylist results are
// never persisted here; only an explicit add through the normal path is.
type StylistHandler struct {
	ctrl    *wardrobe.Controller
	stylist Stylist
}

// NewStylistHandler creates a new StylistHandler.
func NewStylistHandler(ctrl *wardrobe.Controller, st Stylist) *StylistHandler {
	return &StylistHandler{ctrl: ctrl, stylist: st}
}

// aiError maps a stylist failure onto the wire: AI failures become a
// retryable 502 alert local to the triggering flow.
func aiError(w http.ResponseWriter, op string, err error) {
	slog.Error("stylist call failed", slog.String("op", op), slog.String("error", err.Error()))
	if errors.Is(err, apperr.ErrAIRequest) {
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// Analyze handles POST /api/stylist/analyze.
func (h *StylistHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 20<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.stylist.Analyze(r.Context(), req.ImageData, req.MimeType, h.ctrl.Items())
	if err != nil {
		aiError(w, "analyze", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Insights handles GET /api/stylist/insights.
func (h *StylistHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.stylist.WardrobeInsights(r.Context(), h.ctrl.Items())
	if err != nil {
		aiError(w, "insights", err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// Outfit handles POST /api/stylist/outfit. Item ids returned by the
// collaborator are resolved against the live collection; ids that no
// longer exist are dropped rather than surfaced.
func (h *StylistHandler) Outfit(w http.ResponseWriter, r *http.Request) {
	var req OutfitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	items := h.ctrl.Items()
	suggestion, err := h.stylist.GenerateOutfit(r.Context(), items, req.Occasion, req.Weather, req.Focus)
	if err != nil {
		aiError(w, "outfit", err)
		return
	}

	byID := make(map[string]garment.Garment, len(items))
	for _, g := range items {
		byID[g.ID] = g
	}
	resolved := []garment.Garment{}
	for _, id := range suggestion.ItemIDs {
		if g, ok := byID[id]; ok {
			resolved = append(resolved, g)
		}
	}

	writeJSON(w, http.StatusOK, OutfitResponse{
		OutfitName: suggestion.OutfitName,
		Items:      resolved,
		Reasoning:  suggestion.Reasoning,
	})
}

// Shopping handles GET /api/stylist/shopping.
func (h *StylistHandler) Shopping(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.stylist.ShoppingSuggestions(r.Context(), h.ctrl.Items())
	if err != nil {
		aiError(w, "shopping", err)
		return
	}
	if suggestions == nil {
		suggestions = []stylist.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, ShoppingResponse{Suggestions: suggestions})
}

// Visualize handles POST /api/stylist/visualize.
func (h *StylistHandler) Visualize(w http.ResponseWriter, r *http.Request) {
	var req VisualizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	garments := []garment.Garment{}
	for _, id := range req.ItemIDs {
		if g, err := h.ctrl.Get(id); err == nil {
			garments = append(garments, g)
		}
	}
	if len(garments) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("no matching items to visualize"))
		return
	}

	image, err := h.stylist.Visualize(r.Context(), garments)
	if err != nil {
		aiError(w, "visualize", err)
		return
	}
	writeJSON(w, http.StatusOK, VisualizeResponse{Image: image})
}
