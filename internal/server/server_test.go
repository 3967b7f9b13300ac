package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/portraitgrid/pkg/config"
	"github.com/matzehuels/portraitgrid/pkg/errors"
	"github.com/matzehuels/portraitgrid/pkg/fonts"
	"github.com/matzehuels/portraitgrid/pkg/layout"
	"github.com/matzehuels/portraitgrid/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New("test-version", nil, log.NewWithOptions(io.Discard, log.Options{}))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		OK      bool   `json:"ok"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.OK || body.Version != "test-version" {
		t.Errorf("health = %+v", body)
	}
}

func TestDefaults(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/defaults")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	s, err := config.ParseSettings(data)
	if err != nil {
		t.Fatal(err)
	}
	if s != config.Default() {
		t.Errorf("defaults round-trip = %+v", s)
	}
}

func TestPlanMatchesLibrary(t *testing.T) {
	ts := newTestServer(t)
	for _, total := range []int{1, 7, 24, 25} {
		var got layout.Plan
		if status := post(t, ts, "/v1/plan", `{"total": `+itoa(total)+`}`, &got); status != http.StatusOK {
			t.Fatalf("total %d: status %d", total, status)
		}
		want, err := layout.Build(config.Default().Constraints(total))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("total %d:\n got %+v\nwant %+v", total, got, want)
		}
	}
}

func TestPlanLegacySettings(t *testing.T) {
	ts := newTestServer(t)
	var got layout.Plan
	body := `{"total": 8, "settings": {"layout": {"layout_type": "居中布局", "top_margin": "270"}}}`
	if status := post(t, ts, "/v1/plan", body, &got); status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if got.RowCounts != [3]int{3, 2, 3} {
		t.Errorf("row counts = %v, want [3 2 3]", got.RowCounts)
	}
}

func TestPlanErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"infeasible", `{"total": 1000}`, http.StatusUnprocessableEntity, errors.ErrCodeLayoutInfeasible},
		{"negative", `{"total": -1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too many", `{"total": 100000}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", `{"total": `, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"count": 3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad colour", `{"total": 3, "settings": {"title": {"color": "blue"}}}`, http.StatusBadRequest, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got errorResponse
			status := post(t, ts, "/v1/plan", tt.body, &got)
			if status != tt.status || got.Code != tt.code {
				t.Errorf("status %d code %s, want %d %s (%s)", status, got.Code, tt.status, tt.code, got.Message)
			}
		})
	}
}

func TestPlacements(t *testing.T) {
	ts := newTestServer(t)
	var got PlacementsResponse
	body := `{"total": 7, "settings": {"layout": {"avoid_area": "middle"}}}`
	if status := post(t, ts, "/v1/placements", body, &got); status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if len(got.Slots) != 7 || got.Placeable != 6 {
		t.Fatalf("slots %d placeable %d", len(got.Slots), got.Placeable)
	}
	if s := got.Slots[0]; s.X != 883 || s.Y != 270 {
		t.Errorf("first slot = %+v", s)
	}
	if s := got.Slots[4]; !s.Skipped || s.Row != 1 || s.X != 2145 {
		t.Errorf("slot 4 = %+v, want skipped centre of row 1", s)
	}
}

func TestPlacementsExplicitZones(t *testing.T) {
	ts := newTestServer(t)

	var got PlacementsResponse
	body := `{"total": 7, "zones": [{"row": 0, "start": 0, "end": 1000}]}`
	if status := post(t, ts, "/v1/placements", body, &got); status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if !got.Slots[0].Skipped || got.Placeable != 6 {
		t.Errorf("slot 0 = %+v placeable %d", got.Slots[0], got.Placeable)
	}

	var bad errorResponse
	body = `{"total": 7, "zones": [{"row": 5, "start": 0, "end": 10}]}`
	if status := post(t, ts, "/v1/placements", body, &bad); status != http.StatusBadRequest {
		t.Errorf("invalid zone status = %d", status)
	}
}

func TestWrap(t *testing.T) {
	ts := newTestServer(t)

	var got WrapResponse
	if status := post(t, ts, "/v1/wrap", `{"text": "Ada Lovelace", "size": 40, "max_width": 4000}`, &got); status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if len(got.Lines) != 1 || got.Lines[0] != "Ada Lovelace" || got.Font != fonts.EmbeddedName {
		t.Errorf("wrap = %+v", got)
	}

	got = WrapResponse{}
	post(t, ts, "/v1/wrap", `{"text": "Ada Lovelace", "size": 40, "max_width": 150}`, &got)
	if len(got.Lines) != 2 || got.Lines[0] != "Ada" || got.Lines[1] != "Lovelace" {
		t.Errorf("narrow wrap = %+v", got)
	}

	got = WrapResponse{}
	post(t, ts, "/v1/wrap", `{"text": "   ", "size": 40, "max_width": 150}`, &got)
	if got.Lines == nil || len(got.Lines) != 0 {
		t.Errorf("blank wrap = %#v, want empty list", got.Lines)
	}

	var bad errorResponse
	if status := post(t, ts, "/v1/wrap", `{"text": "x", "size": 0, "max_width": 10}`, &bad); status != http.StatusBadRequest {
		t.Errorf("zero size status = %d", status)
	}
}

type recordingHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
	codes  []int
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
	h.codes = append(h.codes, status)
}

func TestServerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetServerHooks(h)
	defer observability.Reset()

	s := New("v", nil, log.NewWithOptions(io.Discard, log.Options{}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewBufferString(`{"total": 1000}`))
	s.Handler().ServeHTTP(rec, req)

	if len(h.routes) != 1 || h.routes[0] != "POST /v1/plan" || h.codes[0] != http.StatusUnprocessableEntity {
		t.Errorf("hooks saw %v %v", h.routes, h.codes)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
