package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"motorline/internal/domain"
	"motorline/internal/finance"
)

// NewFinance returns the financing service handler.
func NewFinance(log zerolog.Logger) http.Handler {
	router := newRouter(log)
	api := newAPI(router, "Motorline Finance API")
	registerCalculate(api)
	registerApprove(api)
	return router
}

func registerCalculate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "finance-calculate",
		Method:      http.MethodPost,
		Path:        "/finance/calculate",
		Summary:     "Amortize a car loan",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CalculateRequest `json:"body"`
	}) (*struct {
		Body domain.FinanceQuote `json:"body"`
	}, error) {
		var missing []string
		if input.Body.Price == nil {
			missing = append(missing, "price")
		}
		if input.Body.DownPayment == nil {
			missing = append(missing, "down_payment")
		}
		if input.Body.LoanYears == nil {
			missing = append(missing, "loan_years")
		}
		if input.Body.InterestRate == nil {
			missing = append(missing, "interest_rate")
		}
		if len(missing) > 0 {
			return nil, errMissingFields(missing)
		}
		if *input.Body.LoanYears <= 0 {
			return nil, newAPIError(http.StatusBadRequest, "validation_error", "loan_years must be positive", nil)
		}
		quote := finance.Calculate(*input.Body.Price, *input.Body.DownPayment, *input.Body.InterestRate, *input.Body.LoanYears)
		return &struct {
			Body domain.FinanceQuote `json:"body"`
		}{Body: quote}, nil
	})
}

func registerApprove(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "finance-approve",
		Method:      http.MethodPost,
		Path:        "/finance/approve",
		Summary:     "Decide credit approval",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body ApproveRequest `json:"body"`
	}) (*struct {
		Body domain.Approval `json:"body"`
	}, error) {
		if input.Body.CreditScore == nil {
			return nil, errMissingFields([]string{"credit_score"})
		}
		return &struct {
			Body domain.Approval `json:"body"`
		}{Body: finance.Approve(*input.Body.CreditScore)}, nil
	})
}
