package motorlinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal Motorline HTTP API client. BaseURL points at whichever
// service a call targets (gateway, valuation, finance, billing, sentiment).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Trade is a persisted valuation.
type Trade struct {
	ID        int64   `json:"id"`
	Year      int     `json:"year"`
	Mileage   float64 `json:"mileage"`
	Value     float64 `json:"value"`
	CreatedAt string  `json:"created_at"`
}

// ReviewResult is a scored review.
type ReviewResult struct {
	Review   string `json:"review"`
	Polarity struct {
		Pos float64 `json:"pos"`
		Neg float64 `json:"neg"`
		Neu float64 `json:"neu"`
	} `json:"polarity"`
	Stars int `json:"stars"`
}

// FinanceQuote is a loan calculation.
type FinanceQuote struct {
	LoanAmount     float64 `json:"loan_amount"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Months         int     `json:"months"`
}

// Approval is a credit verdict.
type Approval struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
}

// Transaction is one billing ledger entry.
type Transaction struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	CardLast4 string  `json:"card_last4"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

// PayResult wraps a successful payment.
type PayResult struct {
	Message     string      `json:"message"`
	Transaction Transaction `json:"transaction"`
}

// Analysis is the gateway's aggregated response.
type Analysis struct {
	Results  map[string]any `json:"results"`
	Warnings []string       `json:"warnings,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Analyze runs the combined car analysis via the gateway.
func (c *Client) Analyze(ctx context.Context, year int, mileage float64, review string) (Analysis, error) {
	body := map[string]any{"year": year, "mileage": mileage, "review": review}
	var resp Analysis
	err := c.do(ctx, http.MethodPost, "api/car-analysis", body, &resp)
	return resp, err
}

// TradeIn estimates a trade-in value via the valuation service.
func (c *Client) TradeIn(ctx context.Context, year int, mileage float64) (Trade, error) {
	body := map[string]any{"year": year, "mileage": mileage}
	var resp Trade
	err := c.do(ctx, http.MethodPost, "api/trade", body, &resp)
	return resp, err
}

// TradeHistory lists recent trades, newest first.
func (c *Client) TradeHistory(ctx context.Context, limit int) ([]Trade, error) {
	endpoint := "api/history"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Trade
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

// Review scores a review text via the sentiment service.
func (c *Client) Review(ctx context.Context, review string) (ReviewResult, error) {
	var resp ReviewResult
	err := c.do(ctx, http.MethodPost, "api/review", map[string]any{"review": review}, &resp)
	return resp, err
}

// Calculate amortizes a loan via the finance service.
func (c *Client) Calculate(ctx context.Context, price, downPayment float64, loanYears int, interestRate float64) (FinanceQuote, error) {
	body := map[string]any{
		"price":         price,
		"down_payment":  downPayment,
		"loan_years":    loanYears,
		"interest_rate": interestRate,
	}
	var resp FinanceQuote
	err := c.do(ctx, http.MethodPost, "finance/calculate", body, &resp)
	return resp, err
}

// Approve asks the finance service for a credit verdict.
func (c *Client) Approve(ctx context.Context, creditScore int) (Approval, error) {
	var resp Approval
	err := c.do(ctx, http.MethodPost, "finance/approve", map[string]any{"credit_score": creditScore}, &resp)
	return resp, err
}

// Pay charges a card via the billing service.
func (c *Client) Pay(ctx context.Context, amount float64, cardNumber string) (PayResult, error) {
	body := map[string]any{"amount": amount, "card_number": cardNumber}
	var resp PayResult
	err := c.do(ctx, http.MethodPost, "billing/pay", body, &resp)
	return resp, err
}

// Payments lists the billing ledger in insertion order.
func (c *Client) Payments(ctx context.Context) ([]Transaction, error) {
	var resp []Transaction
	err := c.do(ctx, http.MethodGet, "billing/history", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
