package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/LukasGLars/construction-buddy/internal/catalog"
	"github.com/LukasGLars/construction-buddy/internal/ledger"
)

type fakeCatalog struct {
	items map[string]catalog.Item
}

func (f fakeCatalog) Search(_ context.Context, _ string, _ int) ([]catalog.Item, error) {
	return nil, nil
}

func (f fakeCatalog) List(_ context.Context, _ int) ([]catalog.Item, error) {
	return nil, nil
}

func (f fakeCatalog) Get(_ context.Context, articleNo string) (catalog.Item, error) {
	item, ok := f.items[articleNo]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return item, nil
}

type ledgerResponse struct {
	Data struct {
		LedgerID string        `json:"ledgerId"`
		Items    []ledger.Line `json:"items"`
		Count    int           `json:"count"`
	} `json:"data"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(t *testing.T) (chi.Router, *ledger.Store) {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Store: fakeCatalog{items: map[string]catalog.Item{
			"A1": laborItem(),
			"B1": pipeItem(),
		}},
		Timeout: time.Second,
	})
	require.NoError(t, err)

	store := ledger.NewStore(time.Minute)
	handler := &ledger.Handler{Store: store, Catalog: svc, Validate: validator.New()}

	r := chi.NewRouter()
	r.Post("/ledgers", handler.Create)
	r.Get("/ledgers/{id}", handler.Get)
	r.Post("/ledgers/{id}/items", handler.AddItem)
	r.Patch("/ledgers/{id}/items/{articleNo}", handler.UpdateItem)
	r.Delete("/ledgers/{id}/items/{articleNo}", handler.RemoveItem)
	r.Delete("/ledgers/{id}/items", handler.Clear)
	return r, store
}

func do(t *testing.T, r chi.Router, method, target, body string) (*httptest.ResponseRecorder, ledgerResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var resp ledgerResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestLedgerLifecycle(t *testing.T) {
	r, _ := newRouter(t)

	rec, resp := do(t, r, http.MethodPost, "/ledgers", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := resp.Data.LedgerID
	require.NotEmpty(t, id)

	rec, resp = do(t, r, http.MethodGet, "/ledgers/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, resp.Data.Count)

	rec, resp = do(t, r, http.MethodPost, "/ledgers/"+id+"/items", `{"articleNo":"A1","quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, 3, resp.Data.Items[0].Quantity)

	// same article merges instead of duplicating
	rec, resp = do(t, r, http.MethodPost, "/ledgers/"+id+"/items", `{"articleNo":"A1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, 5, resp.Data.Items[0].Quantity)
	require.Equal(t, "5000", resp.Data.Items[0].Subtotal.String())

	rec, resp = do(t, r, http.MethodPost, "/ledgers/"+id+"/items", `{"articleNo":"B1","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data.Items, 2)

	rec, resp = do(t, r, http.MethodPatch, "/ledgers/"+id+"/items/B1", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 4, resp.Data.Items[1].Quantity)

	rec, resp = do(t, r, http.MethodDelete, "/ledgers/"+id+"/items/A1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Data.Items, 1)
	require.Equal(t, "B1", resp.Data.Items[0].ArticleNo)

	rec, resp = do(t, r, http.MethodDelete, "/ledgers/"+id+"/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Data.Items)
}

func TestLedgerErrors(t *testing.T) {
	r, _ := newRouter(t)

	_, created := do(t, r, http.MethodPost, "/ledgers", "")
	id := created.Data.LedgerID

	t.Run("unknown ledger", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodGet, "/ledgers/missing", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("unknown article", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/ledgers/"+id+"/items", `{"articleNo":"ZZ9","quantity":1}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("zero quantity", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/ledgers/"+id+"/items", `{"articleNo":"A1","quantity":0}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "VALIDATION", resp.Error.Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPost, "/ledgers/"+id+"/items", `{"articleNo":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "VALIDATION", resp.Error.Code)
	})

	t.Run("update article not in ledger", func(t *testing.T) {
		rec, resp := do(t, r, http.MethodPatch, "/ledgers/"+id+"/items/B1", `{"quantity":2}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})
}
