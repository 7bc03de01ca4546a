package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"motorline/internal/gateway"
)

// GatewayConfig wires downstream URLs into the gateway HTTP surface.
type GatewayConfig struct {
	Client      *gateway.Client
	CarValueURL string
	ReviewURL   string
	Log         zerolog.Logger
}

// NewGateway returns the gateway handler. The aggregated endpoint fans out
// to the valuation and sentiment services; the single-capability endpoints
// proxy one downstream verbatim.
func NewGateway(cfg GatewayConfig) http.Handler {
	router := newRouter(cfg.Log)
	api := newAPI(router, "Motorline Gateway API")
	registerCarAnalysis(api, cfg)

	// Pass-through routes forward the downstream status and body verbatim,
	// so they bypass the typed huma layer.
	router.Post("/api/car-value", passthrough(cfg, cfg.CarValueURL+"/api/trade", []string{"year", "mileage"}))
	router.Post("/api/review-sentiment", passthrough(cfg, cfg.ReviewURL+"/api/review", []string{"review"}))
	return router
}

func registerCarAnalysis(api huma.API, cfg GatewayConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "car-analysis",
		Method:      http.MethodPost,
		Path:        "/api/car-analysis",
		Summary:     "Combined valuation and sentiment analysis",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		Body AnalysisRequest `json:"body"`
	}) (*struct {
		Body AnalysisResponse `json:"body"`
	}, error) {
		var missing []string
		if input.Body.Year == nil {
			missing = append(missing, "year")
		}
		if input.Body.Mileage == nil {
			missing = append(missing, "mileage")
		}
		if input.Body.Review == nil {
			missing = append(missing, "review")
		}
		if len(missing) > 0 {
			return nil, errMissingFields(missing)
		}

		res := cfg.Client.FanOut(ctx, []gateway.Call{
			{
				Capability: "car_value",
				URL:        cfg.CarValueURL + "/api/trade",
				Payload:    map[string]any{"year": *input.Body.Year, "mileage": *input.Body.Mileage},
			},
			{
				Capability: "review",
				URL:        cfg.ReviewURL + "/api/review",
				Payload:    map[string]any{"review": *input.Body.Review},
			},
		})
		if len(res.Results) == 0 {
			return nil, newAPIError(http.StatusServiceUnavailable, "all_upstreams_failed",
				"all downstream services failed",
				map[string]any{"warnings": res.Warnings})
		}
		return &struct {
			Body AnalysisResponse `json:"body"`
		}{Body: AnalysisResponse{Results: res.Results, Warnings: res.Warnings}}, nil
	})
}

// passthrough validates the required fields then forwards the request body
// to one downstream endpoint, mirroring its status and body on any HTTP
// response. Timeout maps to 504, transport failure to 503.
func passthrough(cfg GatewayConfig, url string, required []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorEnvelope(w, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
			return
		}
		var missing []string
		for _, f := range required {
			if _, ok := body[f]; !ok {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			writeErrorEnvelope(w, http.StatusBadRequest, "validation_error",
				"missing required fields: "+strings.Join(missing, ", "),
				map[string]any{"missing": missing})
			return
		}

		status, downstream, err := cfg.Client.Forward(r.Context(), url, body)
		switch {
		case err != nil && gateway.IsTimeout(err):
			cfg.Log.Warn().Str("url", url).Msg("pass-through timeout")
			writeErrorEnvelope(w, http.StatusGatewayTimeout, "upstream_timeout", "downstream service timed out", nil)
		case err != nil:
			cfg.Log.Warn().Str("url", url).Err(err).Msg("pass-through failed")
			writeErrorEnvelope(w, http.StatusServiceUnavailable, "upstream_unavailable", "downstream service unavailable", nil)
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write(downstream)
		}
	}
}

func writeErrorEnvelope(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": apiErrorBody{Code: code, Message: message, Details: details},
	})
}
