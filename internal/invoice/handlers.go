package invoice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/LukasGLars/construction-buddy/internal/common"
	"github.com/LukasGLars/construction-buddy/internal/ledger"
	"github.com/LukasGLars/construction-buddy/internal/obs"
)

// Handler exposes invoice preview and download endpoints on top of the
// session ledgers.
type Handler struct {
	Store    *ledger.Store
	Calc     Calculator
	Renderer Renderer
	Validate *validator.Validate
	Now      func() time.Time
}

type request struct {
	CustomerName string `json:"customerName" validate:"required"`
	ProjectNo    string `json:"projectNo" validate:"required"`
	// Date overrides the generation date, format 2006-01-02.
	Date string `json:"date"`
}

// Preview handles POST /api/v1/ledgers/{id}/invoice/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	inv, _, ok := h.compute(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": inv})
}

// Download handles POST /api/v1/ledgers/{id}/invoice and returns the
// rendered plain-text document as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	inv, date, ok := h.compute(w, r)
	if !ok {
		return
	}
	doc := h.Renderer.Render(inv, date)
	if obs.InvoicesRenderedTotal != nil {
		obs.InvoicesRenderedTotal.Inc()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", Filename(inv.ProjectNo, date)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (Invoice, time.Time, bool) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "ledger store not configured", nil)
		return Invoice{}, time.Time{}, false
	}
	led, err := h.Store.Get(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, common.NotFoundError("ledger not found", err))
		return Invoice{}, time.Time{}, false
	}
	var payload request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid payload", nil)
		return Invoice{}, time.Time{}, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.WriteError(w, common.ValidationError("missing customer information", err))
			return Invoice{}, time.Time{}, false
		}
	}
	inv, err := h.Calc.Compute(led.Snapshot(), payload.CustomerName, payload.ProjectNo)
	if err != nil {
		common.WriteError(w, err)
		return Invoice{}, time.Time{}, false
	}
	date := h.now()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			common.WriteError(w, common.ValidationError("date must use format 2006-01-02", err))
			return Invoice{}, time.Time{}, false
		}
		date = parsed
	}
	return inv, date, true
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
