package sncf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
)

const searchBody = `[
	{
		"originName": "PARIS (intramuros)",
		"destinationName": "LYON (intramuros)",
		"departureDateTime": "2024-06-01T09:00:00",
		"arrivalDateTime": "2024-06-01T11:30:00",
		"axe": "SUD EST",
		"train": "6601",
		"availableSeatsCount": 2
	},
	{
		"originName": "PARIS (intramuros)",
		"destinationName": "LYON (intramuros)",
		"departureDateTime": "2024-06-01T10:00:00",
		"arrivalDateTime": "2024-06-01T12:00:00",
		"axe": "SUD EST",
		"train": 6603,
		"availableSeatsCount": 0
	}
]`

func testTrip() *domain.Trip {
	return domain.NewTrip("PARIS (intramuros)", "LYON (intramuros)",
		time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC),
		3*time.Hour)
}

func newTestClient(url string, cache Cache) *Client {
	return NewClient(Options{
		BaseURL:   url + "/api/",
		UserAgent: "tgvmax-test",
		Location:  time.UTC,
		Cache:     cache,
		CacheTTL:  time.Minute,
	}, logger.New("error", false))
}

func TestFetchDecodesTickets(t *testing.T) {
	var gotPath, gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, nil)
	tickets := client.Fetch(context.Background(), testTrip())

	wantPath := "/api/RailAvailability/Search/PARIS (intramuros)/LYON (intramuros)/2024-06-01T08:00:00/2024-06-01T20:00:00"
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	if gotUA != "tgvmax-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "tgvmax-test")
	}

	if len(tickets) != 2 {
		t.Fatalf("Fetch() returned %d tickets, want 2", len(tickets))
	}
	first := tickets[0]
	if first.TrainID != "6601" || first.Transporter != "SUD EST" || first.AvailableSeats != 2 {
		t.Errorf("first ticket = %+v", first)
	}
	if !first.DepartureTime.Equal(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("DepartureTime = %v", first.DepartureTime)
	}
	if tickets[1].TrainID != "6603" {
		t.Errorf("numeric train = %q, want %q", tickets[1].TrainID, "6603")
	}
}

func TestSearchURLEscapesSegments(t *testing.T) {
	client := newTestClient("http://provider", nil)
	trip := testTrip()
	trip.Origin = "ST PIERRE/CORPS"

	got := client.SearchURL(trip)
	want := "http://provider/api/RailAvailability/Search/ST%20PIERRE%2FCORPS/LYON%20%28intramuros%29/2024-06-01T08:00:00/2024-06-01T20:00:00"
	if got != want {
		t.Errorf("SearchURL() = %q, want %q", got, want)
	}
}

func TestFetchFailuresYieldEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "an array"`))
		}},
		{"malformed date", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"departureDateTime": "soon", "arrivalDateTime": "2024-06-01T11:30:00"}]`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			client := newTestClient(ts.URL, nil)
			tickets := client.Fetch(context.Background(), testTrip())
			if tickets == nil || len(tickets) != 0 {
				t.Errorf("Fetch() = %v, want empty non-nil slice", tickets)
			}
		})
	}
}

func TestFetchNetworkFailureYieldsEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := newTestClient(url, nil)
	if tickets := client.Fetch(context.Background(), testTrip()); len(tickets) != 0 {
		t.Errorf("Fetch() = %v, want empty", tickets)
	}
}

func TestSearchReportsStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, nil)
	_, err := client.Search(context.Background(), testTrip())
	if err == nil {
		t.Fatal("Search() error = nil, want status error")
	}
	if reason := failureReason(err); reason != "status" {
		t.Errorf("failureReason() = %q, want %q", reason, "status")
	}
}

type memoryCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	saves int
}

func (c *memoryCache) GetSearch(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[key]
	return data, ok, nil
}

func (c *memoryCache) SaveSearch(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.saves++
	return nil
}

func TestFetchUsesCache(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(searchBody))
	}))
	defer ts.Close()

	cache := &memoryCache{data: make(map[string][]byte)}
	client := newTestClient(ts.URL, cache)

	first := client.Fetch(context.Background(), testTrip())
	second := client.Fetch(context.Background(), testTrip())

	if calls != 1 {
		t.Errorf("provider calls = %d, want 1", calls)
	}
	if cache.saves != 1 {
		t.Errorf("cache saves = %d, want 1", cache.saves)
	}
	if len(first) != 2 || len(second) != 2 {
		t.Errorf("Fetch() lengths = %d, %d, want 2, 2", len(first), len(second))
	}
}

func TestFetchDoesNotCacheFailures(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer ts.Close()

	cache := &memoryCache{data: make(map[string][]byte)}
	client := newTestClient(ts.URL, cache)
	client.Fetch(context.Background(), testTrip())

	if cache.saves != 0 {
		t.Errorf("cache saves = %d, want 0", cache.saves)
	}
}

func TestStations(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Stations/AllOrigins":
			_, _ = w.Write([]byte(`["PARIS (intramuros)", "LYON (intramuros)"]`))
		case "/api/Stations/AllDestinations":
			_, _ = w.Write([]byte(`["MARSEILLE ST CHARLES", "LYON (intramuros)", "PARIS (intramuros)"]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	client := newTestClient(ts.URL, nil)
	stations, err := client.Stations(context.Background())
	if err != nil {
		t.Fatalf("Stations() error = %v", err)
	}

	if len(stations.Origins) != 2 || stations.Origins[0] != "LYON (intramuros)" {
		t.Errorf("Origins = %v, want sorted", stations.Origins)
	}
	if len(stations.Destinations) != 3 || stations.Destinations[0] != "LYON (intramuros)" {
		t.Errorf("Destinations = %v, want sorted", stations.Destinations)
	}
	if !stations.HasDestination("MARSEILLE ST CHARLES") {
		t.Error("HasDestination() = false for a listed station")
	}
}
