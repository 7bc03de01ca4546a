package server

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"motorline/internal/billing"
	"motorline/internal/domain"
)

// BillingConfig wires the transaction ledger into the billing HTTP surface.
type BillingConfig struct {
	Ledger billing.Ledger
	Log    zerolog.Logger
	Now    func() time.Time
}

// NewBilling returns the billing service handler.
func NewBilling(cfg BillingConfig) http.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	router := newRouter(cfg.Log)
	api := newAPI(router, "Motorline Billing API")
	registerPay(api, cfg)
	registerBillingHistory(api, cfg)
	return router
}

func registerPay(api huma.API, cfg BillingConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "billing-pay",
		Method:      http.MethodPost,
		Path:        "/billing/pay",
		Summary:     "Charge a card",
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body PayRequest `json:"body"`
	}) (*struct {
		Body PayResponse `json:"body"`
	}, error) {
		var missing []string
		if input.Body.Amount == nil {
			missing = append(missing, "amount")
		}
		if input.Body.CardNumber == nil {
			missing = append(missing, "card_number")
		}
		if len(missing) > 0 {
			return nil, errMissingFields(missing)
		}
		if *input.Body.Amount <= 0 {
			return nil, newAPIError(http.StatusBadRequest, "validation_error", "amount must be positive", nil)
		}
		if len(*input.Body.CardNumber) < 4 {
			return nil, newAPIError(http.StatusBadRequest, "validation_error", "card_number must have at least 4 digits", nil)
		}
		txn := billing.NewTransaction(*input.Body.Amount, *input.Body.CardNumber, cfg.Now())
		if err := cfg.Ledger.Append(ctx, txn); err != nil {
			return nil, handleError(cfg.Log, err)
		}
		return &struct {
			Body PayResponse `json:"body"`
		}{Body: PayResponse{Message: "payment successful", Transaction: txn}}, nil
	})
}

func registerBillingHistory(api huma.API, cfg BillingConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "billing-history",
		Method:      http.MethodGet,
		Path:        "/billing/history",
		Summary:     "List transactions in insertion order",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Transaction `json:"body"`
	}, error) {
		txns, err := cfg.Ledger.ListRecent(ctx, 0)
		if err != nil {
			return nil, handleError(cfg.Log, err)
		}
		if txns == nil {
			txns = []domain.Transaction{}
		}
		return &struct {
			Body []domain.Transaction `json:"body"`
		}{Body: txns}, nil
	})
}
