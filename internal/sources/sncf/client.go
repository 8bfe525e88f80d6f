package sncf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/JRomainG/TGVMaxBot/internal/domain"
	"github.com/JRomainG/TGVMaxBot/internal/logger"
	"github.com/JRomainG/TGVMaxBot/internal/metrics"
)

const (
	searchPath       = "RailAvailability/Search"
	originsPath      = "Stations/AllOrigins"
	destinationsPath = "Stations/AllDestinations"
)

// Cache stores raw search responses so watches on the same route
// share one upstream call per TTL window.
type Cache interface {
	GetSearch(ctx context.Context, key string) ([]byte, bool, error)
	SaveSearch(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// StatusError is returned when the provider answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

var errDecode = errors.New("decode response")

// Options configures a Client.
type Options struct {
	BaseURL    string         // ex: https://sncf-simulateur-api-prod.azurewebsites.net/api
	UserAgent  string         // sent on every request
	Timeout    time.Duration  // 0 => no client timeout
	Location   *time.Location // zone of the provider's naive datetimes
	Cache      Cache          // optional
	CacheTTL   time.Duration  // ignored without Cache
	HTTPClient *http.Client   // optional, overrides Timeout
}

// Client queries the SNCF availability API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	mapper    *Mapper
	cache     Cache
	cacheTTL  time.Duration
	logger    logger.Logger
}

// NewClient creates a provider client
func NewClient(opts Options, log logger.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      httpClient,
		mapper:    NewMapper(opts.Location),
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		logger:    log,
	}
}

// SearchURL builds the availability query for a trip. Dates are sent
// in the provider's zone; both fall on the trip's single day.
func (c *Client) SearchURL(trip *domain.Trip) string {
	segments := []string{
		trip.Origin,
		trip.Destination,
		c.mapper.formatWireDate(trip.MinDate),
		c.mapper.formatWireDate(trip.MaxDate),
	}
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + searchPath + "/" + strings.Join(segments, "/")
}

// Fetch returns the current offers for a trip in provider order.
// Any failure is logged and yields no tickets, so a schedule keeps running.
func (c *Client) Fetch(ctx context.Context, trip *domain.Trip) []domain.Ticket {
	tickets, err := c.Search(ctx, trip)
	if err != nil {
		metrics.FetchFailures.WithLabelValues(failureReason(err)).Inc()
		c.logger.Warn("failed to fetch available tickets",
			logger.String("trip_id", trip.ID),
			logger.String("origin", trip.Origin),
			logger.String("destination", trip.Destination),
			logger.Error(err))
		return []domain.Ticket{}
	}
	metrics.TicketsFetched.Add(float64(len(tickets)))
	return tickets
}

// Search is Fetch with errors surfaced.
func (c *Client) Search(ctx context.Context, trip *domain.Trip) ([]domain.Ticket, error) {
	searchURL := c.SearchURL(trip)
	c.logger.Debug("fetching tickets", logger.String("url", searchURL))

	data, cached, err := c.searchBody(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", errDecode, err)
	}
	tickets, err := c.mapper.MapTickets(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errDecode, err)
	}

	if c.cache != nil && !cached {
		if err := c.cache.SaveSearch(ctx, searchURL, data, c.cacheTTL); err != nil {
			c.logger.Warn("failed to cache search response", logger.Error(err))
		}
	}

	return tickets, nil
}

// searchBody returns the raw response, from the cache when possible.
func (c *Client) searchBody(ctx context.Context, searchURL string) ([]byte, bool, error) {
	if c.cache != nil {
		data, ok, err := c.cache.GetSearch(ctx, searchURL)
		switch {
		case err != nil:
			c.logger.Warn("search cache unavailable, querying provider", logger.Error(err))
		case ok:
			metrics.SearchCache.WithLabelValues("hit").Inc()
			return data, true, nil
		default:
			metrics.SearchCache.WithLabelValues("miss").Inc()
		}
	}

	data, err := c.get(ctx, searchURL)
	return data, false, err
}

// Stations fetches the origin and destination lists, sorted.
func (c *Client) Stations(ctx context.Context) (domain.Stations, error) {
	origins, err := c.stationList(ctx, originsPath)
	if err != nil {
		return domain.Stations{}, fmt.Errorf("failed to fetch origin stations: %w", err)
	}
	destinations, err := c.stationList(ctx, destinationsPath)
	if err != nil {
		return domain.Stations{}, fmt.Errorf("failed to fetch destination stations: %w", err)
	}
	return domain.Stations{Origins: origins, Destinations: destinations}, nil
}

func (c *Client) stationList(ctx context.Context, path string) ([]string, error) {
	data, err := c.get(ctx, c.baseURL+"/"+path)
	if err != nil {
		return nil, err
	}
	var list StationsResponse
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", errDecode, err)
	}
	stations := []string(list)
	slices.Sort(stations)
	return stations, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func failureReason(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return metrics.ReasonStatus
	case errors.Is(err, errDecode):
		return metrics.ReasonDecode
	default:
		return metrics.ReasonNetwork
	}
}
