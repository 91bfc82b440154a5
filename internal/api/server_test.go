package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/audio"
	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/pcm"
	"github.com/smazurov/audiohal/internal/ucm"
	"github.com/smazurov/audiohal/internal/updater"
	"github.com/smazurov/audiohal/internal/volume"
)

const (
	testUser = "admin"
	testPass = "secret"
)

type fakeHandle struct {
	dir    device.Direction
	path   string
	params pcm.Params
}

func (h *fakeHandle) Direction() device.Direction { return h.dir }
func (h *fakeHandle) Path() string                { return h.path }
func (h *fakeHandle) Params() pcm.Params          { return h.params }
func (h *fakeHandle) Close() error                { return nil }

type fakeTransport struct{}

func (fakeTransport) Open(dir device.Direction, path string, p pcm.Params) (pcm.Handle, error) {
	return &fakeHandle{dir: dir, path: path, params: p}, nil
}

type fakeDetector struct {
	devices []audio.Device
	err     error
}

func (f fakeDetector) ListDevices() ([]audio.Device, error) { return f.devices, f.err }

type fakeUnit struct {
	mu      sync.Mutex
	actions []string
	err     error
}

func (u *fakeUnit) Unit() string { return "pipewire.service" }

func (u *fakeUnit) Status(context.Context) (string, error) { return "active", u.err }

func (u *fakeUnit) record(action string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.actions = append(u.actions, action)
	return u.err
}

func (u *fakeUnit) Start(context.Context) error   { return u.record("start") }
func (u *fakeUnit) Stop(context.Context) error    { return u.record("stop") }
func (u *fakeUnit) Restart(context.Context) error { return u.record("restart") }

type fakeUpdater struct{}

func (fakeUpdater) CheckForUpdate(context.Context) (*updater.UpdateInfo, error) {
	return &updater.UpdateInfo{CurrentVersion: "dev", LatestVersion: "1.2.0", UpdateAvailable: true}, nil
}

func (fakeUpdater) ApplyUpdate(context.Context) error {
	return &updater.Error{Code: updater.CodeNoUpdate, Message: "already at 1.2.0"}
}

func (fakeUpdater) Rollback(context.Context) error {
	return updater.ErrNoBackup
}

func (fakeUpdater) Status() *updater.Status {
	return &updater.Status{State: updater.StateIdle, CurrentVersion: "dev"}
}

func (fakeUpdater) Enabled() bool          { return true }
func (fakeUpdater) DisabledReason() string { return "" }

type testEnv struct {
	server *Server
	core   *hal.Manager
	ucm    *ucm.Recorder
	bus    *events.Bus
	unit   *fakeUnit
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	table, err := volume.Parse([]byte("[volumes]\nmedia = [0.0, 60.0, 80.0, 100.0]\n\n[gains]\ndialer = 0.5\n"))
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.DiscardHandler)
	bus := events.New()
	rec := ucm.NewRecorder(nil)
	core := hal.New(hal.DefaultConfig(), rec, fakeTransport{},
		hal.WithLogger(logger),
		hal.WithEvents(bus),
		hal.WithVolume(volume.NewStore(table, logger)),
	)
	unit := &fakeUnit{}

	server := NewServer(&Options{
		AuthUsername: testUser,
		AuthPassword: testPass,
		Core:         core,
		EventBus:     bus,
		Detector: fakeDetector{devices: []audio.Device{
			{CardNumber: 0, DeviceNumber: 0, Direction: device.DirectionOutput, ALSADevice: "hw:0,0"},
			{CardNumber: 0, DeviceNumber: 0, Direction: device.DirectionInput, ALSADevice: "hw:0,0"},
			{CardNumber: 0, DeviceNumber: 1, Direction: device.DirectionOutput, ALSADevice: "hw:0,1", SupportedRates: []int{48000}},
		}},
		HostUnit:     unit,
		VolumeReload: func() error { return errors.New("volume file missing") },
		Updater:      fakeUpdater{},
	})
	return &testEnv{server: server, core: core, ucm: rec, bus: bus, unit: unit}
}

func authValue() string {
	return base64.StdEncoding.EncodeToString([]byte(testUser + ":" + testPass))
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Basic "+authValue())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.server.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		path   string
		header string
		query  string
		want   int
	}{
		{"health is public", "/api/health", "", "", http.StatusOK},
		{"version is public", "/api/version", "", "", http.StatusOK},
		{"missing credentials", "/api/state", "", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/state", "Bearer abc", "", http.StatusUnauthorized},
		{"wrong password", "/api/state", "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:nope")), "", http.StatusUnauthorized},
		{"header credentials", "/api/state", "Basic " + authValue(), "", http.StatusOK},
		{"query credentials", "/api/state", "", "?auth=" + authValue(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			env.server.mux.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestRouteCallAndState(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/route", models.RouteRequestData{
		Role: "call-voice",
		Devices: []models.DeviceRef{
			{Type: "builtin-speaker", Direction: "out"},
			{Type: "builtin-mic", Direction: "in"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	plan := decode[models.RoutePlanData](t, w)
	if plan.Kind != "call" || plan.Verb != "VoiceCall" {
		t.Errorf("plan = %+v", plan)
	}
	if !reflect.DeepEqual(plan.Devices, []string{"Speaker", "MainMic"}) {
		t.Errorf("devices = %v", plan.Devices)
	}

	st := decode[models.StateData](t, env.do(t, http.MethodGet, "/api/state", nil))
	if !st.CallMode || !st.VoicePCM.PlaybackOpen || !st.VoicePCM.CaptureOpen {
		t.Errorf("state = %+v", st)
	}
	if st.VoicePCM.Rate != 8000 {
		t.Errorf("voice rate = %d, want 8000", st.VoicePCM.Rate)
	}
	if !reflect.DeepEqual(st.Outputs, []string{"Speaker"}) || !reflect.DeepEqual(st.Inputs, []string{"MainMic"}) {
		t.Errorf("active = %v / %v", st.Outputs, st.Inputs)
	}

	w = env.do(t, http.MethodPost, "/api/route/reset", models.ResetRequestData{Direction: "out"})
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d: %s", w.Code, w.Body.String())
	}
	st = decode[models.StateData](t, env.do(t, http.MethodGet, "/api/state", nil))
	if len(st.Outputs) != 0 || st.VoicePCM.PlaybackOpen {
		t.Errorf("after reset: outputs = %v, voice = %+v", st.Outputs, st.VoicePCM)
	}
}

func TestRouteErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     models.RouteRequestData
		ucmErr  error
		want    int
		wantUCM int
	}{
		{
			name: "unknown role",
			req:  models.RouteRequestData{Role: "karaoke", Devices: []models.DeviceRef{{Type: "builtin-speaker", Direction: "out"}}},
			want: http.StatusBadRequest,
		},
		{
			name: "bad direction",
			req:  models.RouteRequestData{Role: "media", Devices: []models.DeviceRef{{Type: "builtin-speaker", Direction: "sideways"}}},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown flag",
			req:  models.RouteRequestData{Role: "media", Devices: []models.DeviceRef{{Type: "builtin-speaker", Direction: "out"}}, Flags: []string{"loud"}},
			want: http.StatusBadRequest,
		},
		{
			name: "empty device list",
			req:  models.RouteRequestData{Role: "media", Devices: []models.DeviceRef{}},
			want: http.StatusBadRequest,
		},
		{
			name:    "ucm failure",
			req:     models.RouteRequestData{Role: "media", Devices: []models.DeviceRef{{Type: "builtin-speaker", Direction: "out"}}},
			ucmErr:  errors.New("alsaucm: card busy"),
			want:    http.StatusServiceUnavailable,
			wantUCM: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.ucmErr != nil {
				env.ucm.FailWith(tt.ucmErr)
			}
			w := env.do(t, http.MethodPost, "/api/route", tt.req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
			if got := len(env.ucm.Calls()); got != tt.wantUCM {
				t.Errorf("UCM calls = %d, want %d", got, tt.wantUCM)
			}
		})
	}
}

func TestSessionCommands(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/session", models.SessionRequestData{Command: "start", Session: "voicecall"})
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode[models.SessionData](t, w); got.Session != "voicecall" || !got.CallSession {
		t.Errorf("session = %+v", got)
	}

	tests := []struct {
		name string
		req  models.SessionRequestData
		want int
	}{
		{"start during call", models.SessionRequestData{Command: "start", Session: "media"}, http.StatusConflict},
		{"unknown command", models.SessionRequestData{Command: "pause", Session: "media"}, http.StatusConflict},
		{"unknown session", models.SessionRequestData{Command: "start", Session: "party"}, http.StatusBadRequest},
		{"unknown subsession", models.SessionRequestData{Command: "subsession", Session: "voicecall", Subsession: "loud"}, http.StatusBadRequest},
		{"voice subsession", models.SessionRequestData{Command: "subsession", Session: "voicecall", Subsession: "voice"}, http.StatusOK},
		{"end call", models.SessionRequestData{Command: "end", Session: "voicecall"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/session", tt.req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}

	st := decode[models.StateData](t, env.do(t, http.MethodGet, "/api/state", nil))
	if st.Session != "media" || st.CallSession || st.VoicePCM.PlaybackOpen {
		t.Errorf("state after end = %+v", st)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	env := newTestEnv(t)

	got := make(chan events.StreamConnectionEvent, 1)
	unsub := events.On(env.bus, func(e events.StreamConnectionEvent) { got <- e })
	defer unsub()

	w := env.do(t, http.MethodPost, "/api/streams/connection", models.StreamConnectionData{
		Role: "media", Direction: "out", Index: 4, Connected: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	select {
	case e := <-got:
		if e.Index != 4 || !e.Connected || e.Direction != "out" {
			t.Errorf("event = %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no stream connection event")
	}

	w = env.do(t, http.MethodPost, "/api/route/option", models.RouteOptionData{Role: "media", Name: ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty option name status = %d, want 400", w.Code)
	}
}

func TestVolumeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	table := decode[models.VolumeTableData](t, env.do(t, http.MethodGet, "/api/volume/media", nil))
	if table.LevelMax != 4 || len(table.Values) != 4 || table.Values[3] != 1 {
		t.Errorf("media table = %+v", table)
	}

	w := env.do(t, http.MethodPut, "/api/volume/media/level", map[string]any{"level": 3})
	if w.Code != http.StatusOK {
		t.Fatalf("set level status = %d: %s", w.Code, w.Body.String())
	}
	if lvl := decode[models.VolumeLevelData](t, w); lvl.Level != 3 || lvl.Value != 1 {
		t.Errorf("level = %+v", lvl)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"level out of range", http.MethodPut, "/api/volume/media/level", map[string]any{"level": 4}, http.StatusBadRequest},
		{"unknown volume type", http.MethodGet, "/api/volume/bass", nil, http.StatusBadRequest},
		{"unknown gain type", http.MethodGet, "/api/gain/bass", nil, http.StatusBadRequest},
		{"failed reload", http.MethodPost, "/api/volume/reload", nil, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(t, tt.method, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}

	gain := decode[models.GainData](t, env.do(t, http.MethodGet, "/api/gain/dialer", nil))
	if gain.Factor != 0.5 {
		t.Errorf("dialer gain = %v, want 0.5", gain.Factor)
	}
}

func TestBufferAttrEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/buffer-attr?direction=out&latency=mid&format=s16le&rate=48000&channels=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	attr := decode[models.BufferAttrData](t, w)
	if attr.PeriodSamples == 0 || attr.PeriodCount == 0 || attr.MaxLength != -1 {
		t.Errorf("attr = %+v", attr)
	}

	if w := env.do(t, http.MethodGet, "/api/buffer-attr?rate=0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("rate=0 status = %d, want 400", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/buffer-attr?format=pcm99", nil); w.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", w.Code)
	}
}

func TestAudioDevicesEndpoint(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?direction=out", 2},
		{"?direction=in", 1},
		{"?rate=48000", 3},
		{"?rate=8000&direction=out", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/devices/audio"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body.String())
			}
			if got := decode[models.AudioDevicesData](t, w); got.Count != tt.want {
				t.Errorf("count = %d, want %d", got.Count, tt.want)
			}
		})
	}

	if w := env.do(t, http.MethodGet, "/api/devices/audio?direction=up", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad direction status = %d, want 400", w.Code)
	}
}

func TestSystemdEndpoints(t *testing.T) {
	env := newTestEnv(t)

	status := decode[models.UnitStatus](t, env.do(t, http.MethodGet, "/api/systemd/host/status", nil))
	if status.Unit != "pipewire.service" || status.Status != "active" {
		t.Errorf("status = %+v", status)
	}

	for _, action := range []string{"restart", "stop", "start"} {
		w := env.do(t, http.MethodPost, "/api/systemd/host/"+action, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d: %s", action, w.Code, w.Body.String())
		}
		if got := decode[models.UnitAction](t, w); got.Action != action || !got.Success {
			t.Errorf("%s result = %+v", action, got)
		}
	}
	if !reflect.DeepEqual(env.unit.actions, []string{"restart", "stop", "start"}) {
		t.Errorf("actions = %v", env.unit.actions)
	}

	if w := env.do(t, http.MethodPost, "/api/systemd/host/reload", nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown action status = %d, want 422", w.Code)
	}

	env.unit.err = errors.New("dbus: access denied")
	if w := env.do(t, http.MethodPost, "/api/systemd/host/restart", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("failed restart status = %d, want 500", w.Code)
	}
}

func TestUpdateEndpoints(t *testing.T) {
	env := newTestEnv(t)

	status := decode[models.UpdateStatusData](t, env.do(t, http.MethodGet, "/api/update/status", nil))
	if !status.Enabled || status.State != "idle" || status.CurrentVersion != "dev" {
		t.Errorf("status = %+v", status)
	}

	check := decode[models.UpdateCheckData](t, env.do(t, http.MethodPost, "/api/update/check", nil))
	if !check.UpdateAvailable || check.LatestVersion != "1.2.0" {
		t.Errorf("check = %+v", check)
	}

	if w := env.do(t, http.MethodPost, "/api/update/apply", nil); w.Code != http.StatusConflict {
		t.Errorf("apply status = %d, want 409", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/update/rollback", nil); w.Code != http.StatusNotFound {
		t.Errorf("rollback status = %d, want 404", w.Code)
	}
}

func TestUpdateHTTPError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"disabled", updater.ErrDisabled, http.StatusServiceUnavailable},
		{"busy", &updater.Error{Code: updater.CodeInvalidState, Message: "cannot check in state applying"}, http.StatusConflict},
		{"check failed", &updater.Error{Code: updater.CodeCheckFailed, Err: errors.New("rate limited")}, http.StatusBadGateway},
		{"uncoded", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		var se huma.StatusError
		if !errors.As(updateHTTPError(tt.err), &se) {
			t.Fatalf("%s: not a status error", tt.name)
		}
		if se.GetStatus() != tt.want {
			t.Errorf("%s: status %d, want %d", tt.name, se.GetStatus(), tt.want)
		}
	}
}

func TestLogLevelEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/logs/level", map[string]string{"module": "hal", "level": "debug"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPut, "/api/logs/level", map[string]string{"module": "hal", "level": "loud"})
	if w.Code != http.StatusUnprocessableEntity && w.Code != http.StatusBadRequest {
		t.Errorf("bad level status = %d", w.Code)
	}
}

func TestEventStream(t *testing.T) {
	env := newTestEnv(t)
	ts := httptest.NewServer(env.server.mux)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events?auth="+authValue(), nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				lines <- data
			}
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatal("stream closed")
			}
			return l
		case <-ctx.Done():
			t.Fatal("timeout waiting for event")
		}
		return ""
	}

	if first := next(); !strings.Contains(first, `"command":"snapshot"`) {
		t.Errorf("first event = %s", first)
	}

	if _, err := env.core.Route(ctx, "media", []device.Info{{Type: "builtin-speaker", Direction: device.DirectionOutput}}, 0); err != nil {
		t.Fatal(err)
	}
	var applied events.RouteAppliedEvent
	if err := json.Unmarshal([]byte(next()), &applied); err != nil {
		t.Fatal(err)
	}
	if applied.Role != "media" || applied.Error != "" || len(applied.Devices) == 0 {
		t.Errorf("route event = %+v", applied)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code halerr.ErrorCode
		want int
	}{
		{halerr.ErrParameter, http.StatusBadRequest},
		{halerr.ErrInvalidState, http.StatusConflict},
		{halerr.ErrResource, http.StatusServiceUnavailable},
		{halerr.ErrIoctl, http.StatusServiceUnavailable},
		{halerr.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		method string
		status int
		want   slog.Level
	}{
		{http.MethodOptions, 204, slog.LevelDebug},
		{http.MethodGet, 200, slog.LevelInfo},
		{http.MethodPost, 409, slog.LevelWarn},
		{http.MethodPost, 503, slog.LevelError},
	}
	for _, tt := range tests {
		if got := requestLevel(tt.method, tt.status); got != tt.want {
			t.Errorf("requestLevel(%s, %d) = %v, want %v", tt.method, tt.status, got, tt.want)
		}
	}
}

func TestHealthAndVersion(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	health := decode[models.HealthData](t, w)
	if health.Status != "ok" || health.Session != "media" || health.CallMode {
		t.Errorf("health = %+v", health)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	v := decode[models.VersionData](t, env.do(t, http.MethodGet, "/api/version", nil))
	if v.Version == "" || v.Summary == "" || !v.Dev {
		t.Errorf("version = %+v", v)
	}
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/route", nil)
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader) {
		t.Errorf("allow headers = %q", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestRequestIDEcho(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}
