package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cs1060f25/nutri-project-sub001/internal/nutrition"
)

// sampleMenuRows is what the mock feed serves for a day with lunch only.
var sampleMenuRows = []map[string]any{
	{
		"location_number": "05", "location_name": "Dunster and Mather House",
		"meal_name": "Lunch", "menu_category_name": "Entrees",
		"name": "Grilled Chicken Breast", "calories": "220", "protein": "31",
		"total_fat": 4.5, "total_carbohydrate": "0",
	},
	{
		"location_number": "05", "location_name": "Dunster and Mather House",
		"meal_name": "Lunch", "menu_category_name": "Sides",
		"name": "Steamed Broccoli", "calories": 35, "protein": 3,
		"total_fat": 0, "total_carbohydrate": 7,
	},
}

var sampleLocations = []map[string]any{
	{"location_number": "05", "location_name": "Dunster and Mather House"},
	{"location_number": "01", "location_name": "Annenberg"},
	{"location_number": "07", "location_name": "Eliot House"},
}

// newMockFeed serves /locations and /recipes. menuFor decides the menu body
// (or a failure status) per requested date.
func newMockFeed(menuFor func(date string) (int, any)) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/locations":
			json.NewEncoder(w).Encode(sampleLocations)
		case "/recipes":
			status, body := menuFor(r.URL.Query().Get("date"))
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return srv, &calls
}

// mapCache is an in-memory menuCache for tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *mapCache) get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.entries[key]
	return b, ok
}

func (m *mapCache) set(_ context.Context, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
}

func TestDiningFeed_Locations(t *testing.T) {
	srv, _ := newMockFeed(nil)
	defer srv.Close()

	locs, err := newDiningFeed(srv.URL, "", nil).locations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, l := range locs {
		names = append(names, l.CanonicalName)
	}
	want := []string{"Annenberg Hall", "Dunster House", "Eliot House", "Mather House"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("location %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestDiningFeed_MenuCoercesStrings(t *testing.T) {
	var gotDate string
	srv, _ := newMockFeed(func(date string) (int, any) {
		gotDate = date
		return http.StatusOK, sampleMenuRows
	})
	defer srv.Close()

	day := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	menu, err := newDiningFeed(srv.URL, "", nil).menu(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotDate != "2026-10-12" {
		t.Errorf("feed queried date %q, want 2026-10-12", gotDate)
	}
	entrees := menu["Dunster and Mather House"][nutrition.Lunch]["Entrees"]
	if len(entrees) != 1 || entrees[0].Calories.Float() != 220 {
		t.Errorf("entrees = %+v, want one 220 kcal recipe", entrees)
	}
}

func TestDiningFeed_SendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := newDiningFeed(srv.URL, "secret", nil).locations(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" {
		t.Errorf("X-Api-Key = %q, want secret", gotKey)
	}
}

func TestDiningFeed_ErrorStatus(t *testing.T) {
	srv, _ := newMockFeed(func(string) (int, any) {
		return http.StatusInternalServerError, map[string]string{"error": "down"}
	})
	defer srv.Close()

	feed := newDiningFeed(srv.URL, "", nil)
	if _, err := feed.menu(context.Background(), time.Now()); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	menu, ok := feed.menuOrEmpty(context.Background(), time.Now())
	if ok || len(menu) != 0 {
		t.Errorf("menuOrEmpty = (%v, %v), want empty and false", menu, ok)
	}
}

// TestDiningFeed_CachesSuccessOnly verifies a cached body is served without
// another request and failed responses are never cached.
func TestDiningFeed_CachesSuccessOnly(t *testing.T) {
	fail := true
	srv, calls := newMockFeed(func(string) (int, any) {
		if fail {
			return http.StatusBadGateway, map[string]string{"error": "upstream"}
		}
		return http.StatusOK, sampleMenuRows
	})
	defer srv.Close()

	cache := &mapCache{entries: map[string][]byte{}}
	feed := newDiningFeed(srv.URL, "", cache)
	day := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

	if _, err := feed.menu(context.Background(), day); err == nil {
		t.Fatal("expected an error while the feed is failing")
	}
	if len(cache.entries) != 0 {
		t.Fatalf("failed response was cached: %v", cache.entries)
	}

	fail = false
	for i := 0; i < 2; i++ {
		if _, err := feed.menu(context.Background(), day); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Errorf("feed received %d requests, want 2 (one failure, one miss)", got)
	}
}
