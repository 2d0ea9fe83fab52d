package osrm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/routing"
)

// mockHTTPClient adapts an *http.Client to the HTTPDoer interface.
type mockHTTPClient struct {
	client *http.Client
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.client.Do(req)
}

func TestClient_GetDirections_Success(t *testing.T) {
	respBody, err := os.ReadFile("testdata/route_response.json")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if !strings.HasPrefix(r.URL.Path, "/route/v1/driving/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("steps") != "true" {
			t.Error("expected steps=true query parameter")
		}
		if r.URL.Query().Get("geometries") != "polyline" {
			t.Errorf("expected geometries=polyline, got %s", r.URL.Query().Get("geometries"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(respBody)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	resp, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 38.5, Lon: -120.2},
		Destination: routing.Coordinate{Lat: 40.7, Lon: -120.95},
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Provider != ProviderName {
		t.Errorf("expected provider %s, got %s", ProviderName, resp.Provider)
	}
	if len(resp.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(resp.Routes))
	}

	route := resp.Routes[0]
	if route.DistanceMeters != 12345.6 {
		t.Errorf("expected distance 12345.6, got %f", route.DistanceMeters)
	}
	if route.DurationSeconds != 2456.7 {
		t.Errorf("expected duration 2456.7, got %f", route.DurationSeconds)
	}
	if len(route.Geometry) != 2 {
		t.Fatalf("expected 2 geometry points, got %d", len(route.Geometry))
	}
	if route.Geometry[0].Lat != 38.5 || route.Geometry[0].Lon != -120.2 {
		t.Errorf("unexpected first geometry point: %+v", route.Geometry[0])
	}
	if len(route.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(route.Steps))
	}
	if route.Steps[0].Instruction != "Head out on Market Street" {
		t.Errorf("unexpected depart instruction: %q", route.Steps[0].Instruction)
	}
	if route.Steps[1].Instruction != "Turn left onto Valencia Street" {
		t.Errorf("unexpected turn instruction: %q", route.Steps[1].Instruction)
	}
	if route.Steps[1].Maneuver != "turn-left" {
		t.Errorf("unexpected maneuver tag: %q", route.Steps[1].Maneuver)
	}
	if route.Steps[2].Instruction != "Arrive at destination" {
		t.Errorf("unexpected arrive instruction: %q", route.Steps[2].Instruction)
	}
}

func TestClient_GetDirections_NoRoute(t *testing.T) {
	respBody, err := os.ReadFile("testdata/no_route_response.json")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write(respBody)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err = client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 38.5, Lon: -120.2},
		Destination: routing.Coordinate{Lat: 40.7, Lon: -120.95},
	})

	if !errors.Is(err, routing.ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", err)
	}
}

func TestClient_GetDirections_BodyCodeNotOk(t *testing.T) {
	// OSRM can return 200 with a non-Ok code in the body.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"code":"NoSegment","message":"no snapping point"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 38.5, Lon: -120.2},
		Destination: routing.Coordinate{Lat: 40.7, Lon: -120.95},
	})

	if !errors.Is(err, routing.ErrNoRouteFound) {
		t.Errorf("expected ErrNoRouteFound, got %v", err)
	}
}

func TestClient_GetDirections_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: &mockHTTPClient{client: server.Client()},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 38.5, Lon: -120.2},
		Destination: routing.Coordinate{Lat: 40.7, Lon: -120.95},
	})

	if !errors.Is(err, routing.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestClient_GetDirections_InvalidCoordinates(t *testing.T) {
	client := NewClient(ClientConfig{
		BaseURL:    "http://example.invalid",
		HTTPClient: &mockHTTPClient{client: http.DefaultClient},
		Logger:     zerolog.Nop(),
	})

	_, err := client.GetDirections(context.Background(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: 91.0, Lon: 0},
		Destination: routing.Coordinate{Lat: 40.7, Lon: -120.95},
	})

	if !errors.Is(err, routing.ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}
