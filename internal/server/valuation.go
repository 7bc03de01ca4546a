package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"motorline/internal/domain"
	"motorline/internal/repo"
	"motorline/internal/valuation"
)

// ValuationConfig wires the trained estimator and trade store into the
// valuation HTTP surface.
type ValuationConfig struct {
	Estimator *valuation.Estimator
	Repo      repo.Repo
	Log       zerolog.Logger
	Now       func() time.Time
}

// NewValuation returns the valuation service handler.
func NewValuation(cfg ValuationConfig) http.Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	router := newRouter(cfg.Log)
	api := newAPI(router, "Motorline Valuation API")
	registerTrade(api, cfg)
	registerTradeHistory(api, cfg)
	return router
}

func registerTrade(api huma.API, cfg ValuationConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "trade",
		Method:      http.MethodPost,
		Path:        "/api/trade",
		Summary:     "Estimate a trade-in value",
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body TradeRequest `json:"body"`
	}) (*struct {
		Body TradeResponse `json:"body"`
	}, error) {
		var missing []string
		if input.Body.Year == nil {
			missing = append(missing, "year")
		}
		if input.Body.Mileage == nil {
			missing = append(missing, "mileage")
		}
		if len(missing) > 0 {
			return nil, errMissingFields(missing)
		}
		year, mileage := *input.Body.Year, *input.Body.Mileage
		if year < valuation.MinYear || year > valuation.MaxYear {
			return nil, newAPIError(http.StatusBadRequest, "validation_error",
				fmt.Sprintf("year must be between %d and %d", valuation.MinYear, valuation.MaxYear), nil)
		}
		if mileage < 0 || mileage > valuation.MaxMileage {
			return nil, newAPIError(http.StatusBadRequest, "validation_error",
				fmt.Sprintf("mileage must be between 0 and %d", valuation.MaxMileage), nil)
		}

		value := cfg.Estimator.Estimate(year, mileage)
		trade := domain.Trade{
			Year:      year,
			Mileage:   mileage,
			Value:     value,
			CreatedAt: cfg.Now().UTC().Format(time.RFC3339),
		}
		id, err := cfg.Repo.InsertTrade(ctx, trade)
		if err != nil {
			return nil, handleError(cfg.Log, err)
		}
		return &struct {
			Body TradeResponse `json:"body"`
		}{Body: TradeResponse{
			ID:        id,
			Year:      year,
			Mileage:   mileage,
			Value:     value,
			CreatedAt: trade.CreatedAt,
		}}, nil
	})
}

func registerTradeHistory(api huma.API, cfg ValuationConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "trade-history",
		Method:      http.MethodGet,
		Path:        "/api/history",
		Summary:     "Recent trades, newest first",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"25" minimum:"1" maximum:"500"`
	}) (*struct {
		Body []domain.Trade `json:"body"`
	}, error) {
		trades, err := cfg.Repo.ListTrades(ctx, input.Limit)
		if err != nil {
			return nil, handleError(cfg.Log, err)
		}
		if trades == nil {
			trades = []domain.Trade{}
		}
		return &struct {
			Body []domain.Trade `json:"body"`
		}{Body: trades}, nil
	})
}
