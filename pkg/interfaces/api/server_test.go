package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/application/services/catalog"
	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/stock"
	"github.com/vsinha/blacksmith/pkg/application/services/tree"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
	"github.com/vsinha/blacksmith/pkg/infrastructure/metrics"
	testhelpers "github.com/vsinha/blacksmith/pkg/infrastructure/testing"
)

func newTestRouter(t *testing.T, allowOrigins ...string) (*echo.Echo, *testhelpers.Workshop) {
	t.Helper()
	w := testhelpers.BuildWorkshopCatalog()
	m := metrics.New("test")

	resolver := tree.NewResolver(w.Store, nil, 0)
	estimator := estimation.NewEstimatorWithConfig(w.Store, nil, estimation.EstimatorConfig{MaxParallel: 4, Metrics: m})
	mutator := stock.NewMutator(w.Store, estimator, resolver, nil, stock.MutatorConfig{Metrics: m})
	h := NewHandler(catalog.NewService(w.Store, resolver, nil), estimator, mutator)

	return NewRouter(h, nil, m, allowOrigins...), w
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_StatusMapping(t *testing.T) {
	e, w := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, ""},
		{"malformed id", http.MethodGet, "/product/not-a-uuid", "", http.StatusBadRequest, "invalid id"},
		{"unknown product", http.MethodGet, "/product/" + string(entities.NewProductID()), "", http.StatusNotFound, ""},
		{"estimate without quantity", http.MethodPost, "/product/" + string(w.Table.ID) + "/estimate", `{}`, http.StatusBadRequest, "field 'quantity' is required"},
		{"negative estimate", http.MethodPost, "/product/" + string(w.Table.ID) + "/estimate", `{"quantity": -1}`, http.StatusBadRequest, ""},
		{"stock without change", http.MethodPost, "/product/" + string(w.Leg.ID) + "/stock", `{}`, http.StatusBadRequest, "field 'change' is required"},
		{"empty material stock edit", http.MethodPost, "/material/" + string(w.Oak.ID) + "/stock", `{}`, http.StatusBadRequest, "invalid body"},
		{"cycle", http.MethodPost, "/product/" + string(w.Leg.ID) + "/detail/" + string(w.Table.ID), `{"quantity": 1}`, http.StatusConflict, ""},
		{"unknown grade", http.MethodPost, "/product/" + string(w.Leg.ID) + "/material/" + string(w.Oak.ID), `{"quantity": 1, "grade": "premium"}`, http.StatusBadRequest, ""},
		{"attached tag", http.MethodDelete, "/tag/" + string(w.Wood.ID), "", http.StatusConflict, ""},
		{"used material", http.MethodDelete, "/material/" + string(w.Bolt.ID), "", http.StatusConflict, ""},
		{"insufficient material", http.MethodPost, "/material/" + string(w.Bolt.ID) + "/stock", `{"ordinary": -51}`, http.StatusConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus >= 400 {
				body := decode[map[string]string](t, rec)
				if body["error"] == "" {
					t.Errorf("Expected an error message, got %s", rec.Body.String())
				}
				if tt.wantError != "" && body["error"] != tt.wantError {
					t.Errorf("Expected error %q, got %q", tt.wantError, body["error"])
				}
			}
		})
	}
}

func TestRouter_EstimateAndProduce(t *testing.T) {
	e, w := newTestRouter(t)
	tablePath := "/product/" + string(w.Table.ID)

	rec := do(e, http.MethodGet, tablePath, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	hydrated := decode[dto.HydratedProduct](t, rec)
	if hydrated.Article != "TABLE" || len(hydrated.Details) != 2 || len(hydrated.Tags) != 1 {
		t.Errorf("Expected hydrated TABLE, got %+v", hydrated)
	}

	rec = do(e, http.MethodPost, tablePath+"/estimate", `{"quantity": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	estimate := decode[dto.ProductEstimate](t, rec)
	if estimate.CreateNew != 2 || estimate.Enough {
		t.Errorf("Expected create_new 2 and not enough, got %d %v", estimate.CreateNew, estimate.Enough)
	}

	// TABLE cannot be built while LEG has no stock
	rec = do(e, http.MethodPost, tablePath+"/stock", `{"change": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for a rejected change, got %d", rec.Code)
	}
	if result := decode[dto.MutationResult](t, rec); result.Success || result.Estimate == nil {
		t.Errorf("Expected rejection with an estimate, got %+v", result)
	}

	rec = do(e, http.MethodPost, "/product/"+string(w.Leg.ID)+"/stock", `{"change": 4}`)
	if result := decode[dto.MutationResult](t, rec); !result.Success || result.Product.Stock != 4 {
		t.Fatalf("Expected LEG production to succeed, got %s", rec.Body.String())
	}

	rec = do(e, http.MethodPost, tablePath+"/stock", `{"change": 1}`)
	result := decode[dto.MutationResult](t, rec)
	if !result.Success || result.Product.Stock != 1 {
		t.Fatalf("Expected TABLE production to succeed, got %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, tablePath+"/movements", "")
	movements := decode[[]entities.StockMovement](t, rec)
	if len(movements) != 1 || movements[0].Delta != 1 || movements[0].Reason != entities.ReasonProduced {
		t.Errorf("Expected one production movement, got %+v", movements)
	}

	rec = do(e, http.MethodPost, tablePath+"/stock", `{"change": -1}`)
	if result := decode[dto.MutationResult](t, rec); !result.Success || result.Product.Stock != 0 {
		t.Errorf("Expected consumption to succeed, got %s", rec.Body.String())
	}
}

func TestRouter_MaterialEdits(t *testing.T) {
	e, w := newTestRouter(t)

	rec := do(e, http.MethodPost, "/material", `{"article": "GLUE", "measure_unit": "ml", "price": "0.2", "stock": {"ordinary": 10}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	glue := decode[entities.Material](t, rec)
	if glue.Stock.Ordinary != 10 || !entities.ValidID(string(glue.ID)) {
		t.Errorf("Expected GLUE with stock 10 and an id, got %+v", glue)
	}

	if rec := do(e, http.MethodPost, "/material", `{"article": "GLUE"}`); rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for duplicate article, got %d", rec.Code)
	}
	if rec := do(e, http.MethodPost, "/material", `{"price": 1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without article, got %d", rec.Code)
	}

	oakPath := "/material/" + string(w.Oak.ID)
	rec = do(e, http.MethodPut, oakPath, `{"price": 7.5, "stock": {"ordinary": 1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	oak := decode[entities.Material](t, rec)
	if oak.Price.String() != "7.5" || oak.Stock.Ordinary != 100 || oak.Article != "OAK" {
		t.Errorf("Expected price 7.5 with stock and article kept, got %+v", oak)
	}

	rec = do(e, http.MethodPost, oakPath+"/stock", `{"improved": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if oak := decode[entities.Material](t, rec); oak.Stock.Improved != 15 {
		t.Errorf("Expected improved 15, got %d", oak.Stock.Improved)
	}

	rec = do(e, http.MethodPut, "/product/"+string(w.Leg.ID)+"/material/"+string(w.Oak.ID), `{"quantity": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	leg := decode[dto.HydratedProduct](t, rec)
	if leg.Materials[0].QuantityPerUnit != 3 || leg.Materials[0].Grade != entities.Ordinary {
		t.Errorf("Expected OAK line 3 ordinary, got %+v", leg.Materials[0].MaterialUsage)
	}
}

func TestRouter_RequestIDAndMetrics(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("Expected request id to be echoed, got %q", got)
	}

	rec = do(e, http.MethodGet, "/tag", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a generated request id")
	}

	rec = do(e, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `test_http_requests_total{method="GET",path="/tag",status="200"} 1`) {
		t.Errorf("Expected request counter for /tag, got:\n%s", rec.Body.String())
	}
}

func preflight(e *echo.Echo, path, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, path, nil)
	req.Header.Set(echo.HeaderOrigin, origin)
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_CORS(t *testing.T) {
	tests := []struct {
		name          string
		allowOrigins  []string
		origin        string
		expectAllowed string
	}{
		{"any origin by default", nil, "http://localhost:3000", "*"},
		{"listed origin", []string{"https://shop.example"}, "https://shop.example", "https://shop.example"},
		{"unlisted origin", []string{"https://shop.example"}, "https://evil.example", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, w := newTestRouter(t, tt.allowOrigins...)

			rec := preflight(e, "/product/"+string(w.Table.ID)+"/estimate", tt.origin)
			if rec.Code != http.StatusNoContent {
				t.Errorf("Expected preflight status 204, got %d", rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != tt.expectAllowed {
				t.Errorf("Expected allowed origin %q, got %q", tt.expectAllowed, got)
			}
			if tt.expectAllowed != "" && !strings.Contains(rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost) {
				t.Errorf("Expected POST in allowed methods, got %q", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
			}
		})
	}

	e, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/tag", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Errorf("Expected simple request to allow any origin, got %q", got)
	}
}

// countingCatalog counts reads made outside a transaction
type countingCatalog struct {
	repositories.Catalog
	products  atomic.Int64
	materials atomic.Int64
}

func (c *countingCatalog) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	c.products.Add(1)
	return c.Catalog.GetProduct(ctx, id)
}

func (c *countingCatalog) GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error) {
	c.materials.Add(1)
	return c.Catalog.GetMaterial(ctx, id)
}

func TestRouter_EditsReadOnlyTheEditedRow(t *testing.T) {
	w := testhelpers.BuildWorkshopCatalog()
	store := &countingCatalog{Catalog: w.Store}
	resolver := tree.NewResolver(store, nil, 0)
	estimator := estimation.NewEstimator(store, nil)
	mutator := stock.NewMutator(store, estimator, resolver, nil, stock.MutatorConfig{})
	e := NewRouter(NewHandler(catalog.NewService(store, resolver, nil), estimator, mutator), nil, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"product", "/product/" + string(w.Table.ID), `{"article": "DINING_TABLE"}`},
		{"material line", "/product/" + string(w.Table.ID) + "/material/" + string(w.Bolt.ID), `{"quantity": 6}`},
		{"detail line", "/product/" + string(w.Table.ID) + "/detail/" + string(w.Leg.ID), `{"quantity": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.products.Store(0)
			store.materials.Store(0)

			rec := do(e, http.MethodPut, tt.path, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if got := store.products.Load(); got != 1 {
				t.Errorf("Expected 1 product read before the edit, got %d", got)
			}
			if got := store.materials.Load(); got != 0 {
				t.Errorf("Expected no material reads before the edit, got %d", got)
			}
		})
	}

	rec := do(e, http.MethodPut, "/product/"+string(w.Top.ID)+"/detail/"+string(w.Leg.ID), `{"quantity": 3}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for a missing detail line, got %d", rec.Code)
	}
}
