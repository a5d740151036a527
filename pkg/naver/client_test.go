package naver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(
		Credentials{KeyID: "test-id", Key: "test-key"},
		WithBaseURLs(server.URL, server.URL),
	)
}

func TestClient_FetchDriving(t *testing.T) {
	// Mock JSON Response shaped like a map-direction payload
	mockJSON := `{
		"code": 0,
		"message": "길찾기를 성공하였습니다.",
		"currentDateTime": "2024-01-01T00:00:00+09:00",
		"route": {
			"trafast": [
				{
					"summary": {
						"distance": 1000,
						"duration": 60000,
						"tollFare": 0,
						"taxiFare": 4800,
						"fuelPrice": 1500
					}
				}
			]
		}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/map-direction/v1/driving" {
			t.Errorf("expected 5-waypoint driving path, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("start") != "127.0,37.5" {
			t.Errorf("expected 'start' parameter 127.0,37.5, got %s", r.URL.Query().Get("start"))
		}
		if r.URL.Query().Get("option") != "trafast:traoptimal" {
			t.Errorf("expected 'option' parameter trafast:traoptimal, got %s", r.URL.Query().Get("option"))
		}
		if r.Header.Get("X-NCP-APIGW-API-KEY-ID") != "test-id" {
			t.Errorf("expected key id header, got %q", r.Header.Get("X-NCP-APIGW-API-KEY-ID"))
		}
		if r.Header.Get("X-NCP-APIGW-API-KEY") != "test-key" {
			t.Errorf("expected key header, got %q", r.Header.Get("X-NCP-APIGW-API-KEY"))
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockJSON))
	}))
	defer server.Close()

	client := newTestClient(server)

	resp, err := client.FetchDriving(context.Background(), 5, "start=127.0,37.5&goal=127.1,37.6&option=trafast:traoptimal")
	if err != nil {
		t.Fatalf("unexpected error fetching mocked directions: %v", err)
	}

	if resp.CurrentDateTime == nil || *resp.CurrentDateTime != "2024-01-01T00:00:00+09:00" {
		t.Fatalf("expected currentDateTime to be decoded, got %v", resp.CurrentDateTime)
	}

	routes := resp.Route["trafast"]
	if len(routes) != 1 {
		t.Fatalf("expected 1 trafast route, got %d", len(routes))
	}
	if routes[0].Summary.TaxiFare != 4800 {
		t.Errorf("expected taxi fare 4800, got %d", routes[0].Summary.TaxiFare)
	}
}

func TestClient_DrivingURL(t *testing.T) {
	client := NewClient(Credentials{})

	url5, err := client.DrivingURL(5)
	if err != nil || url5 != "https://naveropenapi.apigw.ntruss.com/map-direction/v1/driving" {
		t.Errorf("unexpected 5-waypoint url %q (err %v)", url5, err)
	}

	url15, err := client.DrivingURL(15)
	if err != nil || url15 != "https://naveropenapi.apigw.ntruss.com/map-direction-15/v1/driving" {
		t.Errorf("unexpected 15-waypoint url %q (err %v)", url15, err)
	}

	if _, err := client.DrivingURL(7); !errors.Is(err, ErrInvalidWaypoints) {
		t.Errorf("expected ErrInvalidWaypoints for 7 waypoints, got %v", err)
	}
}

func TestClient_FetchDriving_InvalidWaypointsSendsNothing(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchDriving(context.Background(), 10, "start=1.0,2.0")
	if !errors.Is(err, ErrInvalidWaypoints) {
		t.Fatalf("expected ErrInvalidWaypoints, got %v", err)
	}
	if called {
		t.Errorf("expected no request to be issued")
	}
}

func TestClient_FetchTransit_NoAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/api/transit/directions/point-to-point" {
			t.Errorf("unexpected transit path %s", r.URL.Path)
		}
		if r.Header.Get("X-NCP-APIGW-API-KEY-ID") != "" || r.Header.Get("X-NCP-APIGW-API-KEY") != "" {
			t.Errorf("transit endpoint must not receive api key headers")
		}
		if r.URL.Query().Get("departureTime") != "2024-01-01T08:00:00" {
			t.Errorf("expected departureTime to survive encoding, got %s", r.URL.Query().Get("departureTime"))
		}
		if r.URL.Query().Get("crs") != "EPSG:4326" {
			t.Errorf("expected crs EPSG:4326, got %s", r.URL.Query().Get("crs"))
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"currentDateTime": "2024-01-01T08:00:00", "status": "CITY", "paths": [], "staticPaths": []}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server).FetchTransit(context.Background(),
		"start=127.0,37.5&goal=127.1,37.6&departureTime=2024-01-01T08:00:00&crs=EPSG:4326&mode=TIME&lang=ko&includeDetailOperation=true")
	if err != nil {
		t.Fatalf("unexpected error fetching mocked transit: %v", err)
	}
	if resp.Status != "CITY" {
		t.Errorf("expected status CITY, got %s", resp.Status)
	}
}

func TestClient_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server).FetchDriving(context.Background(), 15, "start=1.0,2.0")
	if err == nil {
		t.Fatalf("expected error for 401 response, got nil")
	}

	var apiErr *APIRequestError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIRequestError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
}

func TestClient_FetchStaticMap(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		markers := r.URL.Query()["markers"]
		if len(markers) != 2 {
			t.Errorf("expected 2 markers, got %d", len(markers))
		} else if markers[0] != "type:t|pos:127.0 37.5|label:집" {
			t.Errorf("unexpected first marker %q", markers[0])
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}))
	defer server.Close()

	img, contentType, err := newTestClient(server).FetchStaticMap(context.Background(),
		"w=300&h=300&markers=type:t|pos:127.0 37.5|label:집&markers=type:t|pos:127.1 37.6")
	if err != nil {
		t.Fatalf("unexpected error fetching static map: %v", err)
	}
	if string(img) != string(png) {
		t.Errorf("expected image bytes to be returned verbatim")
	}
	if contentType != "image/png" {
		t.Errorf("expected image/png content type, got %s", contentType)
	}
}

func TestEncodeQuery(t *testing.T) {
	got := EncodeQuery("start=127.0,37.5&markers=type:t|pos:1.0 2.0")
	want := "start=127.0%2C37.5&markers=type%3At%7Cpos%3A1.0+2.0"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}
