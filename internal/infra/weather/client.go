package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"confbook/internal/domain/booking"
	"confbook/internal/infra"
	"confbook/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// Client fetches forecasts from the weather service. Every call is bounded
// by the configured timeout so a slow upstream cannot stall booking
// creation; callers fall back to surcharge pricing on any error.
type Client struct {
	baseURL  string
	timeout  time.Duration
	cacheTTL time.Duration
	httpc    *http.Client
	rdb      *redis.Client
}

// NewClient builds a forecast client. rdb may be nil, which disables the
// read-through cache.
func NewClient(cfg config.WeatherConfig, rdb *redis.Client) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		timeout:  cfg.Timeout,
		cacheTTL: cfg.CacheTTL,
		httpc:    &http.Client{Timeout: cfg.Timeout},
		rdb:      rdb,
	}
}

// Temperature is a pointer so a body without the field is distinguishable
// from a genuine 0°C reading.
type forecastPayload struct {
	Temperature *float64 `json:"temperature"`
	Condition   string   `json:"condition"`
}

func (c *Client) Forecast(ctx context.Context, locationID string, date time.Time) (*booking.WeatherSample, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	day := date.Format(booking.DateLayout)
	cacheKey := fmt.Sprintf("forecast:%s:%s", locationID, day)

	if sample := c.fromCache(ctx, cacheKey); sample != nil {
		return sample, nil
	}

	endpoint := fmt.Sprintf("%s/api/weather/forecast?locationId=%s&date=%s",
		c.baseURL, url.QueryEscape(locationID), day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build forecast request", err, infra.KindUpstream)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, infra.WrapRepoErr("forecast request failed", err, infra.KindUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, infra.WrapRepoErr("weather service returned unexpected status",
			fmt.Errorf("status %d", resp.StatusCode), infra.KindUpstream)
	}

	var payload forecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, infra.WrapRepoErr("failed to decode forecast response", err, infra.KindUpstream)
	}
	if payload.Temperature == nil {
		return nil, infra.WrapRepoErr("forecast response missing temperature",
			fmt.Errorf("location %s date %s", locationID, day), infra.KindUpstream)
	}

	sample := &booking.WeatherSample{
		Temperature: *payload.Temperature,
		Condition:   payload.Condition,
	}
	c.toCache(ctx, cacheKey, payload)
	return sample, nil
}

func (c *Client) fromCache(ctx context.Context, key string) *booking.WeatherSample {
	if c.rdb == nil {
		return nil
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("forecast cache read failed", "key", key, "error", err)
		}
		return nil
	}

	var payload forecastPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Temperature == nil {
		slog.Warn("forecast cache entry corrupted", "key", key, "error", err)
		return nil
	}
	return &booking.WeatherSample{Temperature: *payload.Temperature, Condition: payload.Condition}
}

func (c *Client) toCache(ctx context.Context, key string, payload forecastPayload) {
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		slog.Warn("forecast cache write failed", "key", key, "error", err)
	}
}
