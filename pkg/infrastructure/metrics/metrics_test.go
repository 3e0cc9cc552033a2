package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/stock"
)

func TestMetrics_Observe(t *testing.T) {
	m := New("test")

	m.ObserveEstimate(estimation.OutcomeEnough, 10*time.Millisecond)
	m.ObserveEstimate(estimation.OutcomeEnough, 20*time.Millisecond)
	m.ObserveEstimate(estimation.OutcomeShort, time.Millisecond)
	m.ObserveMutation(stock.DirectionProduce, stock.OutcomeApplied)
	m.ObserveHTTP("GET", "/product/:productId", "200", time.Millisecond)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"enough estimates", testutil.ToFloat64(m.EstimatesTotal.WithLabelValues(estimation.OutcomeEnough)), 2},
		{"short estimates", testutil.ToFloat64(m.EstimatesTotal.WithLabelValues(estimation.OutcomeShort)), 1},
		{"applied productions", testutil.ToFloat64(m.StockMutationsTotal.WithLabelValues(stock.DirectionProduce, stock.OutcomeApplied)), 1},
		{"rejected consumptions", testutil.ToFloat64(m.StockMutationsTotal.WithLabelValues(stock.DirectionConsume, stock.OutcomeRejected)), 0},
		{"http requests", testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/product/:productId", "200")), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	// A second set under the same prefix must not collide
	a, b := New("dup"), New("dup")
	a.ObserveMutation(stock.DirectionAdjust, stock.OutcomeApplied)
	if got := testutil.ToFloat64(b.StockMutationsTotal.WithLabelValues(stock.DirectionAdjust, stock.OutcomeApplied)); got != 0 {
		t.Errorf("Expected registries to be independent, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New("scrape")
	m.ObserveMutation(stock.DirectionConsume, stock.OutcomeRejected)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `scrape_stock_mutations_total{direction="consume",result="rejected"} 1`) {
		t.Errorf("Expected mutation counter in scrape output, got:\n%s", rec.Body.String())
	}
}
