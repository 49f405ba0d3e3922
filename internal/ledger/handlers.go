package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/LukasGLars/construction-buddy/internal/catalog"
	"github.com/LukasGLars/construction-buddy/internal/common"
	"github.com/LukasGLars/construction-buddy/internal/obs"
)

// Handler wires the session ledgers to HTTP.
type Handler struct {
	Store    *Store
	Catalog  *catalog.Service
	Validate *validator.Validate
}

// Create handles POST /api/v1/ledgers.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "ledger store not configured", nil)
		return
	}
	id := h.Store.Create()
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"ledgerId": id}})
}

// Get handles GET /api/v1/ledgers/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	led, ok := h.resolve(w, r)
	if !ok {
		return
	}
	lines := led.Snapshot()
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"items": lines,
		"count": len(lines),
	}})
}

// AddItem handles POST /api/v1/ledgers/{id}/items. The article is resolved
// against the catalog; adding an article already in the ledger merges by
// incrementing its quantity.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	led, ok := h.resolve(w, r)
	if !ok {
		return
	}
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	var payload struct {
		ArticleNo string `json:"articleNo" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gte=1"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	item, err := h.Catalog.Get(r.Context(), payload.ArticleNo)
	if err != nil {
		observeLedgerOp("add", err)
		common.WriteError(w, err)
		return
	}
	err = led.Add(item, payload.Quantity)
	observeLedgerOp("add", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"items": led.Snapshot()}})
}

// UpdateItem handles PATCH /api/v1/ledgers/{id}/items/{articleNo}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	led, ok := h.resolve(w, r)
	if !ok {
		return
	}
	var payload struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if !h.decode(w, r, &payload) {
		return
	}
	err := led.SetQuantity(chi.URLParam(r, "articleNo"), payload.Quantity)
	observeLedgerOp("set_quantity", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"items": led.Snapshot()}})
}

// RemoveItem handles DELETE /api/v1/ledgers/{id}/items/{articleNo}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	led, ok := h.resolve(w, r)
	if !ok {
		return
	}
	err := led.Remove(chi.URLParam(r, "articleNo"))
	observeLedgerOp("remove", err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"items": led.Snapshot()}})
}

// Clear handles DELETE /api/v1/ledgers/{id}/items.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	led, ok := h.resolve(w, r)
	if !ok {
		return
	}
	led.Clear()
	observeLedgerOp("clear", nil)
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"items": []Line{}}})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*Ledger, bool) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "ledger store not configured", nil)
		return nil, false
	}
	led, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.NotFoundError("ledger not found", err))
		return nil, false
	}
	return led, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", nil)
		return false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(dst); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "quantity must be a positive integer and articleNo is required", nil)
			return false
		}
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.WriteError(w, common.ValidationError("quantity must be a positive integer", err))
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, common.NotFoundError("article not in ledger", err))
	default:
		common.WriteError(w, err)
	}
}

func observeLedgerOp(op string, err error) {
	if obs.LedgerOpsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	obs.LedgerOpsTotal.WithLabelValues(op, result).Inc()
}
