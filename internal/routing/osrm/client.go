// Package osrm provides a client for the OSRM route service.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/provider/resilience"
	"github.com/droproute/droproute/internal/routing"
	"github.com/droproute/droproute/pkg/polyline"
)

const (
	// ProviderName identifies this directions provider.
	ProviderName = "osrm"

	// DefaultBaseURL is the public OSRM demo server.
	DefaultBaseURL = "https://router.project-osrm.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OSRM client.
type ClientConfig struct {
	// BaseURL is the OSRM base URL (optional, defaults to the demo server).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OSRM route service client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OSRM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// GetDirections retrieves driving directions for a single origin/destination pair.
func (c *Client) GetDirections(ctx context.Context, req routing.DirectionsRequest) (*routing.DirectionsResponse, error) {
	if err := routing.ValidateCoordinate(req.Origin); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_ORIGIN",
			Message:  "invalid origin coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}
	if err := routing.ValidateCoordinate(req.Destination); err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "INVALID_DESTINATION",
			Message:  "invalid destination coordinates",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	// OSRM takes lon,lat pairs in the path, one pair per waypoint.
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=polyline&steps=true",
		c.baseURL,
		req.Origin.Lon, req.Origin.Lat,
		req.Destination.Lon, req.Destination.Lat,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Float64("origin_lat", req.Origin.Lat).
		Float64("origin_lon", req.Origin.Lon).
		Float64("dest_lat", req.Destination.Lat).
		Float64("dest_lon", req.Destination.Lon).
		Msg("requesting directions from OSRM")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach directions provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var parsed osrmResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, c.statusError(resp.StatusCode, "")
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// OSRM reports errors both via HTTP status and the body code field.
	if resp.StatusCode != http.StatusOK || parsed.Code != "Ok" {
		return nil, c.osrmError(resp.StatusCode, &parsed)
	}

	if len(parsed.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	}

	result := c.toDirectionsResponse(&parsed)

	c.logger.Debug().
		Int("route_count", len(result.Routes)).
		Msg("received directions from OSRM")

	return result, nil
}

// osrmError maps an OSRM error response to a domain error.
func (c *Client) osrmError(statusCode int, resp *osrmResponse) error {
	switch resp.Code {
	case "NoRoute", "NoSegment":
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found between the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case "InvalidQuery", "InvalidValue", "InvalidCoordinates":
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  resp.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		return c.statusError(statusCode, resp.Message)
	}
}

// statusError maps an HTTP status to a domain error when the body is unusable.
func (c *Client) statusError(statusCode int, message string) error {
	if message == "" {
		message = fmt.Sprintf("directions provider returned status %d", statusCode)
	}
	return &routing.Error{
		Provider: ProviderName,
		Code:     fmt.Sprintf("HTTP_%d", statusCode),
		Message:  message,
		Err:      routing.ErrProviderUnavailable,
	}
}

// toDirectionsResponse converts an OSRM response to the domain model.
func (c *Client) toDirectionsResponse(resp *osrmResponse) *routing.DirectionsResponse {
	routes := make([]routing.Route, 0, len(resp.Routes))

	for i := range resp.Routes {
		osrmRoute := &resp.Routes[i]
		route := routing.Route{
			DistanceMeters:  osrmRoute.Distance,
			DurationSeconds: osrmRoute.Duration,
		}

		for _, p := range polyline.Decode(osrmRoute.Geometry) {
			route.Geometry = append(route.Geometry, routing.Coordinate{Lat: p.Lat, Lon: p.Lon})
		}

		for j := range osrmRoute.Legs {
			leg := &osrmRoute.Legs[j]
			for k := range leg.Steps {
				step := &leg.Steps[k]
				route.Steps = append(route.Steps, routing.Step{
					Instruction:     instructionText(step),
					StreetName:      step.Name,
					Maneuver:        maneuverTag(step.Maneuver),
					DistanceMeters:  step.Distance,
					DurationSeconds: step.Duration,
				})
			}
		}

		routes = append(routes, route)
	}

	return &routing.DirectionsResponse{
		Routes:    routes,
		Provider:  ProviderName,
		FetchedAt: time.Now(),
	}
}

// instructionText synthesizes a human-readable instruction from an OSRM step.
// OSRM returns structured maneuvers only; the text is assembled client-side.
func instructionText(step *osrmStep) string {
	name := step.Name
	mod := step.Maneuver.Modifier

	switch step.Maneuver.Type {
	case "depart":
		if name != "" {
			return "Head out on " + name
		}
		return "Head out"
	case "arrive":
		return "Arrive at destination"
	case "turn", "end of road":
		if name != "" {
			return "Turn " + mod + " onto " + name
		}
		return "Turn " + mod
	case "new name":
		if name != "" {
			return "Continue onto " + name
		}
		return "Continue"
	case "merge":
		if name != "" {
			return "Merge " + mod + " onto " + name
		}
		return "Merge " + mod
	case "on ramp":
		return "Take the ramp " + mod
	case "off ramp":
		if name != "" {
			return "Take the exit onto " + name
		}
		return "Take the exit"
	case "fork":
		return "Keep " + mod + " at the fork"
	case "roundabout", "rotary":
		if name != "" {
			return "Take the roundabout onto " + name
		}
		return "Take the roundabout"
	default:
		if name != "" {
			return "Continue on " + name
		}
		return "Continue"
	}
}

// maneuverTag renders a compact maneuver tag, e.g. "turn-left".
func maneuverTag(m osrmManeuver) string {
	if m.Modifier == "" {
		return m.Type
	}
	return m.Type + "-" + strings.ReplaceAll(m.Modifier, " ", "-")
}
