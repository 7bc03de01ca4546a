package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"testing"

	"motorline/internal/domain"
)

func TestFinanceCalculate(t *testing.T) {
	srv := startServer(t, NewFinance(testLogger()))
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/finance/calculate", map[string]any{
		"price":         30000,
		"down_payment":  5000,
		"loan_years":    5,
		"interest_rate": 6,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("calculate status %d: %s", res.StatusCode, string(data))
	}
	var quote domain.FinanceQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if quote.LoanAmount != 25000 {
		t.Fatalf("loan amount %v, want 25000", quote.LoanAmount)
	}
	if quote.Months != 60 {
		t.Fatalf("months %d, want 60", quote.Months)
	}
	if quote.MonthlyPayment <= 0 || math.Abs(quote.MonthlyPayment-483.32) > 0.01 {
		t.Fatalf("monthly payment %v, want ~483.32", quote.MonthlyPayment)
	}
}

func TestFinanceCalculateMissingFields(t *testing.T) {
	srv := startServer(t, NewFinance(testLogger()))
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/finance/calculate", map[string]any{
		"price": 30000,
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", res.StatusCode, string(data))
	}
	env := decodeError(t, data)
	for _, field := range []string{"down_payment", "loan_years", "interest_rate"} {
		if !strings.Contains(env.Error.Message, field) {
			t.Fatalf("message %q does not name %s", env.Error.Message, field)
		}
	}
	if strings.Contains(env.Error.Message, "price") {
		t.Fatalf("message %q names a field that was present", env.Error.Message)
	}
}

func TestFinanceApprove(t *testing.T) {
	srv := startServer(t, NewFinance(testLogger()))
	for _, c := range []struct {
		score    int
		approved bool
	}{{720, true}, {550, false}} {
		res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/finance/approve", map[string]any{
			"credit_score": c.score,
		})
		if res.StatusCode != http.StatusOK {
			t.Fatalf("approve status %d: %s", res.StatusCode, string(data))
		}
		var approval domain.Approval
		if err := json.Unmarshal(data, &approval); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if approval.Approved != c.approved {
			t.Fatalf("score %d: approved=%v, want %v", c.score, approval.Approved, c.approved)
		}
	}
}

func TestFinanceApproveMissing(t *testing.T) {
	srv := startServer(t, NewFinance(testLogger()))
	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/finance/approve", map[string]any{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", res.StatusCode, string(data))
	}
}
