package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/closetlab/wairdrobe/internal/apperr"
	"github.com/closetlab/wairdrobe/internal/backup"
	"github.com/closetlab/wairdrobe/internal/garment"
	"github.com/closetlab/wairdrobe/internal/wardrobe"
)

// Handler holds API route handlers.
type Handler struct {
	ctrl    *wardrobe.Controller
	backups *backup.Dir
}

// NewHandler creates a new Handler.
func NewHandler(ctrl *wardrobe.Controller, backups *backup.Dir) *Handler {
	return &Handler{ctrl: ctrl, backups: backups}
}

// ListGarments handles GET /api/garments.
func (h *Handler) ListGarments(w http.ResponseWriter, _ *http.Request) {
	items := h.ctrl.Items()
	writeJSON(w, http.StatusOK, GarmentListResponse{Garments: items, Total: len(items)})
}

// AddGarment handles POST /api/garments.
func (h *Handler) AddGarment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 20<<20)
	var req GarmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	g, err := h.ctrl.Add(req.ToGarment())
	if err != nil {
		slog.Error("add garment failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// UpdateGarment handles PUT /api/garments/{id}.
func (h *Handler) UpdateGarment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, 20<<20)

	var req GarmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	g := req.ToGarment()
	g.ID = id
	updated, err := h.ctrl.Update(g)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update garment failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteGarment handles DELETE /api/garments/{id}.
func (h *Handler) DeleteGarment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.ctrl.Delete(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete garment failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleWorn handles POST /api/garments/{id}/worn.
func (h *Handler) ToggleWorn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	g, err := h.ctrl.ToggleWornToday(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("toggle worn failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Categories handles GET /api/views/categories.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{
		Categories: garment.GroupByCategory(h.ctrl.Items()),
	})
}

// NewArrivals handles GET /api/views/new-arrivals.
func (h *Handler) NewArrivals(w http.ResponseWriter, _ *http.Request) {
	items := garment.NewArrivals(h.ctrl.Items())
	writeJSON(w, http.StatusOK, GarmentListResponse{Garments: items, Total: len(items)})
}

// categoryItems returns the bucket for the named category.
func (h *Handler) categoryItems(name string) []garment.Garment {
	for _, group := range garment.GroupByCategory(h.ctrl.Items()) {
		if group.Category == name {
			return group.Items
		}
	}
	return []garment.Garment{}
}

// AvailableFilters handles GET /api/views/filters?category=.
func (h *Handler) AvailableFilters(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("category is required"))
		return
	}
	writeJSON(w, http.StatusOK, garment.AvailableFilters(h.categoryItems(category)))
}

// CategoryView handles GET /api/views/category?name=&colour=&type=.
func (h *Handler) CategoryView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	items := garment.ApplyFilters(h.categoryItems(name), q.Get("colour"), q.Get("type"))
	writeJSON(w, http.StatusOK, CategoryViewResponse{Category: name, Items: items, Total: len(items)})
}

// Catalogue handles GET /api/views/catalogue?sort=&dir=&q=.
func (h *Handler) Catalogue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = garment.SortByLastWorn
	}
	descending := q.Get("dir") == "desc"

	items := garment.FilterCatalogue(h.ctrl.Items(), q.Get("q"))
	items = garment.SortCatalogue(items, sortKey, descending)
	writeJSON(w, http.StatusOK, GarmentListResponse{Garments: items, Total: len(items)})
}

// Export handles GET /api/export: the snapshot is written to the backup
// directory and streamed back as a download.
func (h *Handler) Export(w http.ResponseWriter, _ *http.Request) {
	data, name, err := h.ctrl.ExportSnapshot()
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyWardrobe) {
			writeJSON(w, http.StatusConflict, errorBody("your wardrobe is empty, nothing to export"))
			return
		}
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	if err := h.backups.Write(name, data); err != nil {
		// The download still proceeds; the local copy is best-effort.
		slog.Warn("export: backup write failed", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import. The body is either a raw JSON array or
// a reference to a snapshot in the backup directory ({"backup": name}).
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read request body"))
		return
	}

	var ref struct {
		Backup string `json:"backup"`
	}
	if json.Unmarshal(raw, &ref) == nil && ref.Backup != "" {
		raw, err = h.backups.Read(ref.Backup)
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorBody("backup not found"))
			return
		}
	}

	count, err := h.ctrl.ImportSnapshot(raw)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidFormat) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Imported: count})
}

// ListBackups handles GET /api/backups.
func (h *Handler) ListBackups(w http.ResponseWriter, _ *http.Request) {
	snapshots, err := h.backups.List()
	if err != nil {
		slog.Error("list backups failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, BackupListResponse{Backups: snapshots})
}
