package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/ambulance-finder/internal/geo"
	"github.com/bbernstein/ambulance-finder/internal/models"
)

const (
	MessageNoAmbulances       = "No ambulances found."
	MessageNoActiveAmbulances = "No active ambulances found."
)

type NearestAmbulanceResponse struct {
	NearestAmbulance models.Match `json:"nearestAmbulance"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewNearestAmbulanceResponse(match models.Match) *NearestAmbulanceResponse {
	return &NearestAmbulanceResponse{NearestAmbulance: match}
}

// NoMatchMessage is the client-facing text for a lookup that found nothing
func NoMatchMessage(reason models.NoMatchReason) string {
	if reason == models.ReasonNoAvailableCandidates {
		return MessageNoActiveAmbulances
	}
	return MessageNoAmbulances
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	return JSON(http.StatusOK, body)
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	return JSON(statusCode, ErrorResponse{Error: message})
}

func Message(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	return JSON(statusCode, MessageResponse{Message: message})
}

func JSON(statusCode int, body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    Headers("application/json"),
		Body:       string(jsonBody),
	}, nil
}

func Text(statusCode int, body string) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    Headers("text/html; charset=utf-8"),
		Body:       body,
	}, nil
}

// NoContent answers CORS preflight requests
func NoContent() (events.APIGatewayProxyResponse, error) {
	headers := Headers("")
	headers["Access-Control-Allow-Methods"] = "GET,POST,OPTIONS"
	headers["Access-Control-Allow-Headers"] = "Content-Type,Authorization,X-Request-ID"
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    headers,
	}, nil
}

// Headers returns the response headers. The allowed origin is added per
// request by CORSPolicy.Apply.
func Headers(contentType string) map[string]string {
	headers := make(map[string]string, 2)
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return headers
}

type queryPointBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ParseQueryPoint reads {"latitude": n, "longitude": n} from a request body
func ParseQueryPoint(body string) (geo.Coordinate, error) {
	if strings.TrimSpace(body) == "" {
		return geo.Coordinate{}, MissingCoordinatesError{}
	}

	var point queryPointBody
	decoder := json.NewDecoder(bytes.NewBufferString(body))
	if err := decoder.Decode(&point); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && (typeErr.Field == "latitude" || typeErr.Field == "longitude") {
			return geo.Coordinate{}, geo.NotANumberError(typeErr.Field, typeErr.Value)
		}
		return geo.Coordinate{}, MalformedBodyError{Err: err}
	}

	if point.Latitude == nil || point.Longitude == nil {
		return geo.Coordinate{}, MissingCoordinatesError{}
	}

	coordinate := geo.NewCoordinate(*point.Latitude, *point.Longitude)
	if err := coordinate.Validate(); err != nil {
		return geo.Coordinate{}, err
	}
	return coordinate, nil
}

type MissingCoordinatesError struct{}

func (e MissingCoordinatesError) Error() string {
	return "Latitude and longitude are required."
}

type MalformedBodyError struct {
	Err error
}

func (e MalformedBodyError) Error() string {
	return fmt.Sprintf("Malformed request body: %v", e.Err)
}

func (e MalformedBodyError) Unwrap() error {
	return e.Err
}
