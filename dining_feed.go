package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

/* ─── Dining feed HTTP client ────────────────────────────────────────── */

// diningFeed reads locations and menus from the university dining API.
// Uses raw net/http; the feed has no Go SDK.
type diningFeed struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   menuCache // nil disables caching
}

func newDiningFeed(baseURL, apiKey string, cache menuCache) *diningFeed {
	return &diningFeed{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		cache:   cache,
	}
}

// fetch GETs path with query and decodes the JSON body into out. Successful
// bodies are cached; failed ones never are.
func (f *diningFeed) fetch(ctx context.Context, path string, query url.Values, out any) error {
	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	if f.cache != nil {
		if body, ok := f.cache.get(ctx, key); ok {
			if err := json.Unmarshal(body, out); err == nil {
				return nil
			}
			logger.Warnw("[diningFeed] discarding undecodable cache entry", "key", key)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+key, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("X-Api-Key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dining feed returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if f.cache != nil {
		f.cache.set(ctx, key, body)
	}
	return nil
}

// locations returns the feed's location list, normalized to one entry per house.
func (f *diningFeed) locations(ctx context.Context) ([]nutrition.Location, error) {
	var raw []nutrition.RawLocation
	if err := f.fetch(ctx, "/locations", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	return nutrition.NormalizeLocations(raw), nil
}

// menu returns the nested menu served on date.
func (f *diningFeed) menu(ctx context.Context, date time.Time) (nutrition.DayMenu, error) {
	var rows []nutrition.MenuRow
	q := url.Values{"date": {date.Format(dateLayout)}}
	if err := f.fetch(ctx, "/recipes", q, &rows); err != nil {
		return nil, fmt.Errorf("fetch menu for %s: %w", date.Format(dateLayout), err)
	}
	return nutrition.BuildDayMenu(rows), nil
}

// menuOrEmpty is menu with the feed failure logged and swallowed. Callers use
// it where an unreachable feed means "nothing can be made" rather than an error.
func (f *diningFeed) menuOrEmpty(ctx context.Context, date time.Time) (nutrition.DayMenu, bool) {
	menu, err := f.menu(ctx, date)
	if err != nil {
		logger.Warnw("[diningFeed] menu unavailable", "date", date.Format(dateLayout), "error", err)
		return nutrition.DayMenu{}, false
	}
	return menu, true
}
