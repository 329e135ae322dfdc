package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aurelian-labs/goldvest-backend/internal/api"
	"github.com/aurelian-labs/goldvest-backend/internal/feed"
	"github.com/aurelian-labs/goldvest-backend/internal/ledger"
	"github.com/aurelian-labs/goldvest-backend/internal/static"
	"github.com/aurelian-labs/goldvest-backend/internal/testutil"
)

type fixture struct {
	store  *ledger.Store
	server *api.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	publicDir := t.TempDir()
	pages := map[string]string{
		"index.html": "<h1>Goldvest</h1>",
		"404.html":   "<h1>custom not found</h1>",
	}
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(publicDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	store := testutil.OpenStore(t)
	priceFeed := feed.New(1700, 100, 50*time.Millisecond)
	assets := static.New(publicDir)

	srv := api.NewServer(store, priceFeed, assets, nil, nil, 0, "*")
	return &fixture{store: store, server: srv}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rr := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rr, req)
	return rr
}

func TestIngestStoresRecord(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{"timestamp":"2024-01-01T00:00:00Z","price":1800,"amount":50,"goldSold":0.0278}`)
	rr := f.do(t, http.MethodPost, "/api", body)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var returned map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &returned); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if returned["timestamp"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("timestamp: got %v", returned["timestamp"])
	}
	if returned["price"] != 1800.0 || returned["amount"] != 50.0 || returned["goldSold"] != 0.0278 {
		t.Fatalf("numeric fields mismatch: %#v", returned)
	}

	all, err := f.store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 record, got %d", len(all))
	}
	if all[0].Timestamp() != "2024-01-01T00:00:00Z" {
		t.Fatalf("stored timestamp: got %v", all[0].Timestamp())
	}
}

func TestIngestSanitizesBody(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{"timestamp":"<script>alert(1)</script>2024-01-01T00:00:00Z","price":1800,"amount":50,"goldSold":0.0278}`)
	rr := f.do(t, http.MethodPost, "/api", body)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var returned map[string]any
	json.Unmarshal(rr.Body.Bytes(), &returned)
	ts, _ := returned["timestamp"].(string)
	if strings.Contains(ts, "<") || strings.Contains(ts, "script") {
		t.Fatalf("returned record not sanitized: %q", ts)
	}
	if !strings.Contains(ts, "2024-01-01T00:00:00Z") {
		t.Fatalf("plain text lost: %q", ts)
	}
	if returned["price"] != 1800.0 {
		t.Fatalf("other fields must be unchanged: %#v", returned)
	}

	// The stored record is the sanitized one.
	all, _ := f.store.ReadAll(context.Background())
	if len(all) != 1 || strings.Contains(all[0].Timestamp(), "<") {
		t.Fatalf("stored record not sanitized: %#v", all)
	}
}

func TestIngestMalformedBody(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{`{not json`, `"just a string"`, `[1,2,3]`, `null`, ``} {
		rr := f.do(t, http.MethodPost, "/api", []byte(body))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rr.Code)
		}
		var errResp map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
			t.Fatalf("body %q: error payload not JSON: %v", body, err)
		}
		if errResp["error"] == "" {
			t.Fatalf("body %q: expected error message", body)
		}
	}

	// Nothing may have reached the ledger.
	all, err := f.store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("rejected bodies must not be persisted, got %d records", len(all))
	}
}

func TestIngestConcurrent(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	bodies := []string{
		`{"timestamp":"2024-01-01T00:00:00Z","price":1800,"amount":50,"goldSold":0.0278}`,
		`{"timestamp":"2024-01-02T00:00:00Z","price":1750,"amount":100,"goldSold":0.0571}`,
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(bodies))
	for _, body := range bodies {
		wg.Add(1)
		go func(body string) {
			defer wg.Done()
			resp, err := http.Post(srv.URL+"/api", "application/json", strings.NewReader(body))
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				errs <- fmt.Errorf("unexpected status %s", resp.Status)
			}
		}(body)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent POST: %v", err)
	}

	all, err := f.store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both records persisted, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, inv := range all {
		seen[inv.Timestamp()] = true
	}
	if !seen["2024-01-01T00:00:00Z"] || !seen["2024-01-02T00:00:00Z"] {
		t.Fatalf("missing record: %v", seen)
	}
}

func TestGoldPriceStream(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.server.Handler())
	defer srv.Close()

	start := time.Now()
	resp, err := http.Get(srv.URL + "/api/gold-price")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readFrame := func() string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read frame: %v", err)
			}
			if strings.HasPrefix(line, "data: ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}
	}

	// First event must arrive without waiting for the interval.
	first := readFrame()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("first event too slow: %s", elapsed)
	}

	var event struct {
		Event     string `json:"event"`
		GoldPrice string `json:"goldPrice"`
	}
	if err := json.Unmarshal([]byte(first), &event); err != nil {
		t.Fatalf("frame not JSON: %v (%q)", err, first)
	}
	if event.Event != "gold-price-update" {
		t.Fatalf("event name: got %q", event.Event)
	}
	price, err := strconv.ParseFloat(event.GoldPrice, 64)
	if err != nil {
		t.Fatalf("goldPrice not numeric: %q", event.GoldPrice)
	}
	if price < 1700 || price > 1800 {
		t.Fatalf("price %f outside configured bound", price)
	}

	// Second event follows after the interval.
	second := readFrame()
	if second == "" {
		t.Fatal("expected a second frame")
	}
	t.Logf("frames: %s | %s", first, second)
}

func TestAPINotFound(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/unknown", "/api/gold", "/api/gold-price/extra"} {
		rr := f.do(t, http.MethodGet, path, nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "text/plain" {
			t.Fatalf("%s: expected text/plain, got %q", path, ct)
		}
		if rr.Body.String() != "404 Not Found" {
			t.Fatalf("%s: body %q", path, rr.Body.String())
		}
	}

	// GET on the ingestion path is also outside the contract.
	rr := f.do(t, http.MethodGet, "/api", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("GET /api: expected 404, got %d", rr.Code)
	}
}

func TestNonAPIPathsServeStatic(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for /, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Goldvest") {
		t.Fatalf("expected index.html, got %q", rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/unknown/path", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "custom not found") {
		t.Fatalf("expected fallback document, got %q", rr.Body.String())
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var health struct {
		Status   string `json:"status"`
		Services struct {
			Ledger  string `json:"ledger"`
			Records int    `json:"records"`
		} `json:"services"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("health payload: %v", err)
	}
	if health.Status != "ok" || health.Services.Ledger != "ok" {
		t.Fatalf("unexpected health: %+v", health)
	}
}
