package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"motorline/internal/domain"
	"motorline/internal/valuation"
)

func testEstimator(t *testing.T) *valuation.Estimator {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.csv")
	content := "year,mileage,price\n"
	for year := 2000; year <= 2020; year += 5 {
		for _, mileage := range []int{10000, 80000, 150000} {
			price := 900*(year-2000) - mileage/25 + 6000
			content += fmt.Sprintf("%d,%d,%d\n", year, mileage, price)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	est, err := valuation.NewEstimator(path)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	return est
}

func newValuationServer(t *testing.T) *testServer {
	t.Helper()
	handler := NewValuation(ValuationConfig{
		Estimator: testEstimator(t),
		Repo:      testRepo(t),
		Log:       testLogger(),
	})
	return startServer(t, handler)
}

func TestTradeEndpoint(t *testing.T) {
	srv := newValuationServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/trade", map[string]any{
		"year":    2015,
		"mileage": 60000,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("trade status %d: %s", res.StatusCode, string(data))
	}
	var trade TradeResponse
	if err := json.Unmarshal(data, &trade); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if trade.Year != 2015 || trade.Mileage != 60000 {
		t.Fatalf("echo mismatch: %+v", trade)
	}
	if trade.Value < 0 {
		t.Fatalf("negative value: %v", trade.Value)
	}
	if trade.ID == 0 {
		t.Fatal("trade not persisted")
	}

	// Identical input yields the identical value.
	res2, data2 := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/trade", map[string]any{
		"year":    2015,
		"mileage": 60000,
	})
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("second trade status %d", res2.StatusCode)
	}
	var again TradeResponse
	_ = json.Unmarshal(data2, &again)
	if again.Value != trade.Value {
		t.Fatalf("valuation not idempotent: %v vs %v", again.Value, trade.Value)
	}
}

func TestTradeMissingFields(t *testing.T) {
	srv := newValuationServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/trade", map[string]any{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	if env.Error.Code != "validation_error" {
		t.Fatalf("code %q", env.Error.Code)
	}
	missing, _ := env.Error.Details["missing"].([]any)
	if len(missing) != 2 {
		t.Fatalf("expected both missing fields named, got %v", env.Error.Details)
	}
}

func TestTradeOutOfRange(t *testing.T) {
	srv := newValuationServer(t)
	cases := []map[string]any{
		{"year": 1902, "mileage": 1000},
		{"year": 2030, "mileage": 1000},
		{"year": 2015, "mileage": -5},
		{"year": 2015, "mileage": 2_000_000},
	}
	for _, body := range cases {
		res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/trade", body)
		if res.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %v: status %d, want 400: %s", body, res.StatusCode, string(data))
		}
	}
}

func TestTradeNonNumeric(t *testing.T) {
	srv := newValuationServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/trade", map[string]any{
		"year":    "two thousand",
		"mileage": 1000,
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", res.StatusCode, string(data))
	}
}

func TestTradeHistory(t *testing.T) {
	srv := newValuationServer(t)
	for _, year := range []int{2010, 2015, 2020} {
		res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/api/trade", map[string]any{
			"year":    year,
			"mileage": 50000,
		})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("seed trade: %d %s", res.StatusCode, string(data))
		}
	}
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/api/history?limit=2", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("history status %d: %s", res.StatusCode, string(data))
	}
	var trades []domain.Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	// Newest first.
	if trades[0].Year != 2020 || trades[1].Year != 2015 {
		t.Fatalf("unexpected order: %+v", trades)
	}
}
