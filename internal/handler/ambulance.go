package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/ambulance-finder/internal/ambulance"
	"github.com/bbernstein/ambulance-finder/internal/api"
	"github.com/bbernstein/ambulance-finder/internal/geo"
	"github.com/bbernstein/ambulance-finder/internal/models"
	"github.com/rs/zerolog/log"
)

const WelcomeMessage = "Welcome to the Express.js Server with Supabase!"

type AmbulanceHandler struct {
	finder models.AmbulanceFinder
	cors   *api.CORSPolicy
}

// NewAmbulanceHandler serves lookups through finder. Responses may be read
// by allowedOrigins; none means any origin.
func NewAmbulanceHandler(finder models.AmbulanceFinder, allowedOrigins ...string) *AmbulanceHandler {
	return &AmbulanceHandler{
		finder: finder,
		cors:   api.NewCORSPolicy(allowedOrigins),
	}
}

func (h *AmbulanceHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	origin := api.RequestOrigin(request.Headers)
	if request.HTTPMethod == http.MethodOptions && origin != "" {
		if _, ok := h.cors.AllowOrigin(origin); !ok {
			log.Debug().Str("origin", origin).Msg("Rejecting preflight from disallowed origin")
			return events.APIGatewayProxyResponse{StatusCode: http.StatusForbidden}, nil
		}
	}

	response, err := h.route(ctx, request)
	if response.Headers == nil {
		response.Headers = make(map[string]string)
	}
	h.cors.Apply(origin, response.Headers)
	return response, err
}

func (h *AmbulanceHandler) route(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := "/" + strings.Trim(request.Path, "/")

	switch {
	case request.HTTPMethod == http.MethodOptions:
		return api.NoContent()
	case request.HTTPMethod == http.MethodGet && path == "/":
		return api.Text(http.StatusOK, WelcomeMessage)
	case request.HTTPMethod == http.MethodPost && path == "/ambulance":
		return h.findNearest(ctx, request)
	default:
		return api.Error("Not found", http.StatusNotFound)
	}
}

func (h *AmbulanceHandler) findNearest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	query, err := api.ParseQueryPoint(request.Body)
	if err != nil {
		return badRequest(err)
	}

	result, err := h.finder.FindNearest(ctx, query)
	if err != nil {
		var coordErr geo.InvalidCoordinatesError
		if errors.As(err, &coordErr) {
			return api.Error(coordErr.Error(), http.StatusBadRequest)
		}

		var storeErr *ambulance.StoreError
		if errors.As(err, &storeErr) {
			log.Error().Err(storeErr.Err).Str("store", storeErr.Store).Msg("Error fetching ambulances")
			return api.Error(storeErr.Message, http.StatusInternalServerError)
		}

		log.Error().Err(err).Msg("Unexpected error finding nearest ambulance")
		return api.Error("An unexpected error occurred.", http.StatusInternalServerError)
	}

	if !result.Found {
		return api.Message(api.NoMatchMessage(result.Reason), http.StatusNotFound)
	}

	return api.Success(api.NewNearestAmbulanceResponse(result.Match))
}

func badRequest(err error) (events.APIGatewayProxyResponse, error) {
	var malformed api.MalformedBodyError
	if errors.As(err, &malformed) {
		log.Debug().Err(malformed.Err).Msg("Rejecting malformed request body")
	}
	return api.Error(err.Error(), http.StatusBadRequest)
}
