package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"

	"motorline/internal/domain"
	"motorline/internal/sentiment"
)

// NewSentiment returns the review scoring service handler.
func NewSentiment(log zerolog.Logger) http.Handler {
	router := newRouter(log)
	api := newAPI(router, "Motorline Sentiment API")
	huma.Register(api, huma.Operation{
		OperationID: "review",
		Method:      http.MethodPost,
		Path:        "/api/review",
		Summary:     "Score review sentiment",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body ReviewRequest `json:"body"`
	}) (*struct {
		Body domain.ReviewResult `json:"body"`
	}, error) {
		if input.Body.Review == nil {
			return nil, errMissingFields([]string{"review"})
		}
		text := strings.TrimSpace(*input.Body.Review)
		if text == "" {
			return nil, newAPIError(http.StatusBadRequest, "validation_error", "review text is required", nil)
		}
		return &struct {
			Body domain.ReviewResult `json:"body"`
		}{Body: sentiment.Analyze(text)}, nil
	})
	return router
}
