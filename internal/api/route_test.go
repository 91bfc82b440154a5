package api

import (
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/ucm"
)

// newRouteAPI registers only the route operations on a humatest API, without
// auth or middleware.
func newRouteAPI(t *testing.T) (humatest.TestAPI, *ucm.Recorder) {
	t.Helper()
	_, api := humatest.New(t)
	rec := ucm.NewRecorder(nil)
	core := hal.New(hal.DefaultConfig(), rec, fakeTransport{}, hal.WithLogger(slog.New(slog.DiscardHandler)))
	s := &Server{api: api, core: core, eventBus: events.New(), options: &Options{}, logger: slog.New(slog.DiscardHandler)}
	s.registerRouteRoutes()
	return api, rec
}

func TestRouteOperations(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    map[string]any
		want    int
		wantUCM int
	}{
		{
			name:    "media to speaker",
			path:    "/api/route",
			body:    map[string]any{"role": "media", "devices": []map[string]string{{"type": "builtin-speaker", "direction": "out"}}},
			want:    http.StatusOK,
			wantUCM: 1,
		},
		{
			name: "six devices",
			path: "/api/route",
			body: map[string]any{"role": "media", "devices": []map[string]string{
				{"type": "builtin-speaker", "direction": "out"},
				{"type": "builtin-receiver", "direction": "out"},
				{"type": "audio-jack", "direction": "out"},
				{"type": "hdmi", "direction": "out"},
				{"type": "usb-audio", "direction": "out"},
				{"type": "dock", "direction": "out"},
			}},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "missing devices",
			path: "/api/route",
			body: map[string]any{"role": "media"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "reset unknown direction",
			path: "/api/route/reset",
			body: map[string]any{"direction": "both"},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "route option",
			path: "/api/route/option",
			body: map[string]any{"role": "media", "name": "extra-volume", "value": 1},
			want: http.StatusOK,
		},
		{
			name: "stream connection empty role",
			path: "/api/streams/connection",
			body: map[string]any{"role": "", "direction": "in", "index": 1, "connected": false},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, rec := newRouteAPI(t)
			resp := api.Post(tt.path, tt.body)
			if resp.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", resp.Code, tt.want, resp.Body.String())
			}
			if got := len(rec.Calls()); got != tt.wantUCM {
				t.Errorf("UCM calls = %d, want %d", got, tt.wantUCM)
			}
		})
	}
}

func TestGetStateOperation(t *testing.T) {
	api, _ := newRouteAPI(t)

	resp := api.Get("/api/state")
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	for _, want := range []string{`"session":"media"`, `"subsession":"none"`, `"outputs":[]`} {
		if !strings.Contains(body, want) {
			t.Errorf("state %s missing %s", body, want)
		}
	}
}
