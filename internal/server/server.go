package server

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/ambulance-finder/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RequestHandler is satisfied by the Lambda handlers, so one handler serves
// both transports.
type RequestHandler interface {
	HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

// New builds the gin engine serving handler
func New(cfg *config.Config, handler RequestHandler) *gin.Engine {
	if cfg.Environment != "local" && cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(), CORS(cfg.AllowedOrigins))

	adapter := Adapt(handler)
	r.GET("/", adapter)
	r.POST("/ambulance", adapter)
	r.NoRoute(adapter)

	return r
}

// Adapt converts the gin request into an API Gateway proxy request and writes
// the handler's response back.
func Adapt(handler RequestHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to read request body"})
			return
		}

		request := events.APIGatewayProxyRequest{
			HTTPMethod:            c.Request.Method,
			Path:                  c.Request.URL.Path,
			Headers:               flatten(c.Request.Header),
			QueryStringParameters: flatten(c.Request.URL.Query()),
			Body:                  string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID: c.GetString(requestIDKey),
			},
		}

		response, err := handler.HandleRequest(c.Request.Context(), request)
		if err != nil {
			log.Error().Err(err).Str("request_id", request.RequestContext.RequestID).Msg("Handler returned an error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
			return
		}

		for key, value := range response.Headers {
			// the CORS middleware decides the allowed origin
			if key == "Access-Control-Allow-Origin" || key == "Vary" {
				continue
			}
			c.Header(key, value)
		}

		if response.Body == "" {
			c.Status(response.StatusCode)
			return
		}
		c.Data(response.StatusCode, response.Headers["Content-Type"], []byte(response.Body))
	}
}

func flatten(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	flat := make(map[string]string, len(values))
	for key, v := range values {
		if len(v) > 0 {
			flat[key] = v[0]
		}
	}
	return flat
}
