package server

import "motorline/internal/domain"

// Request payloads. Required fields are pointers so that handlers can name
// every missing field in one validation error.

type TradeRequest struct {
	Year    *int     `json:"year,omitempty"`
	Mileage *float64 `json:"mileage,omitempty"`
}

type ReviewRequest struct {
	Review *string `json:"review,omitempty"`
}

type CalculateRequest struct {
	Price        *float64 `json:"price,omitempty"`
	DownPayment  *float64 `json:"down_payment,omitempty"`
	LoanYears    *int     `json:"loan_years,omitempty"`
	InterestRate *float64 `json:"interest_rate,omitempty"`
}

type ApproveRequest struct {
	CreditScore *int `json:"credit_score,omitempty"`
}

type PayRequest struct {
	Amount     *float64 `json:"amount,omitempty"`
	CardNumber *string  `json:"card_number,omitempty"`
}

type AnalysisRequest struct {
	Year    *int     `json:"year,omitempty"`
	Mileage *float64 `json:"mileage,omitempty"`
	Review  *string  `json:"review,omitempty"`
}

// Response payloads

type TradeResponse struct {
	ID        int64   `json:"id"`
	Year      int     `json:"year"`
	Mileage   float64 `json:"mileage"`
	Value     float64 `json:"value"`
	CreatedAt string  `json:"created_at" format:"date-time"`
}

type PayResponse struct {
	Message     string             `json:"message"`
	Transaction domain.Transaction `json:"transaction"`
}

// AnalysisResponse aggregates whichever downstream capabilities succeeded.
// Warnings are present only when a downstream call failed.
type AnalysisResponse struct {
	Results  map[string]any `json:"results" jsonschema:"type=object,additionalProperties=true"`
	Warnings []string       `json:"warnings,omitempty"`
}
