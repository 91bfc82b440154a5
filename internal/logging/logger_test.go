package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/audiohal/internal/halerr"
)

func resetState() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	logBuffer = nil
	logCallback = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"hal": "debug",
			"api": "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"hal", true, true, true},
		{"api", false, false, true},
		{"other", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()
			ctx := context.Background()

			if got := handler.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := handler.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := handler.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState()

	before := GetLogger("ucm")
	if before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger created before Initialize should default to info")
	}

	Initialize(Config{Level: "info", Modules: map[string]string{"ucm": "debug"}})

	if after := GetLogger("ucm"); after != before {
		t.Error("logger should be cached across Initialize")
	}
	if !before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("cached logger should follow the configured level")
	}

	before.Info("after init")
	entries := GetBuffer().ReadAll()
	if len(entries) == 0 || entries[len(entries)-1].Message != "after init" {
		t.Errorf("logger created before Initialize did not reach the buffer: %+v", entries)
	}
}

func TestBufferCapturesModuleAndErrorCode(t *testing.T) {
	resetState()
	Initialize(Config{Level: "debug"})

	var got []LogEntry
	SetLogCallback(func(e LogEntry) { got = append(got, e) })
	defer SetLogCallback(nil)

	logger := GetLogger("voicepcm").With("device", "hw:0,1")
	logger.Warn("Failed to open voice PCM", "error", halerr.Resource("open voice out", errors.New("busy")))

	if len(got) != 1 {
		t.Fatalf("callback called %d times, want 1", len(got))
	}
	e := got[0]
	if e.Module != "voicepcm" || e.Level != "warn" {
		t.Errorf("entry = %+v", e)
	}
	if e.Attributes["device"] != "hw:0,1" {
		t.Errorf("device attr = %v", e.Attributes["device"])
	}
	if e.Attributes["error_code"] != "RESOURCE" {
		t.Errorf("error_code = %v, want RESOURCE", e.Attributes["error_code"])
	}
}

func TestSetModuleLevel(t *testing.T) {
	resetState()
	Initialize(Config{Level: "info"})

	logger := GetLogger("session")
	if err := SetModuleLevel("session", "debug"); err != nil {
		t.Fatal(err)
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("module level change not applied")
	}
	if got := Levels()["session"]; got != "debug" {
		t.Errorf("Levels()[session] = %q", got)
	}

	other := GetLogger("route")
	if err := SetModuleLevel("", "error"); err != nil {
		t.Fatal(err)
	}
	if other.Handler().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("global level change not applied to module without override")
	}
	if !logger.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("global level change overrode module setting")
	}

	if err := SetModuleLevel("hal", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestFanoutDebugOutput(t *testing.T) {
	var buf bytes.Buffer

	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(fanout{debugHandler, infoHandler}).With("module", "test")
	logger.Debug("debug only message")

	if count := strings.Count(buf.String(), "debug only message"); count != 1 {
		t.Errorf("expected 1 debug message, got %d. Output: %s", count, buf.String())
	}
}

func TestRingBuffer(t *testing.T) {
	rb := NewRingBuffer(3)
	for i, msg := range []string{"a", "b", "c", "d"} {
		level := "info"
		if i%2 == 1 {
			level = "error"
		}
		rb.Write(LogEntry{Message: msg, Level: level, Module: "hal"})
	}

	if rb.Count() != 3 {
		t.Errorf("Count() = %d, want 3", rb.Count())
	}
	var msgs []string
	for _, e := range rb.ReadAll() {
		msgs = append(msgs, e.Message)
	}
	if strings.Join(msgs, "") != "bcd" {
		t.Errorf("ReadAll() = %v, want [b c d]", msgs)
	}
	if tail := rb.Tail(1); len(tail) != 1 || tail[0].Message != "d" {
		t.Errorf("Tail(1) = %+v", tail)
	}
	if errs := rb.Filter("error", ""); len(errs) != 2 {
		t.Errorf("Filter(error) = %d entries, want 2", len(errs))
	}
	if none := rb.Filter("", "api"); len(none) != 0 {
		t.Errorf("Filter(api) = %d entries, want 0", len(none))
	}
}

func TestRingHandlerAttributes(t *testing.T) {
	rb := NewRingBuffer(4)
	var seen []LogEntry
	h := newRingHandler(rb, slog.LevelInfo, func(e LogEntry) { seen = append(seen, e) })

	logger := slog.New(h).With("module", "ucm").WithGroup("ctl")
	logger.Debug("dropped")
	logger.Warn("Activation failed",
		"verb", "HiFi",
		"error", halerr.Parameter("unknown device %q", "bogus"),
		"took", 1500*time.Millisecond,
	)

	entries := rb.ReadAll()
	if len(entries) != 1 || len(seen) != 1 {
		t.Fatalf("got %d entries, %d callbacks, want 1 each", len(entries), len(seen))
	}
	e := entries[0]
	if e.Module != "ucm" || e.Level != "warn" {
		t.Errorf("module/level = %s/%s, want ucm/warn", e.Module, e.Level)
	}
	want := map[string]any{
		"ctl.verb":       "HiFi",
		"ctl.error_code": "PARAMETER",
		"ctl.took":       "1.5s",
	}
	for k, v := range want {
		if e.Attributes[k] != v {
			t.Errorf("attr %s = %v, want %v", k, e.Attributes[k], v)
		}
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if tt.isNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestJournalField(t *testing.T) {
	tests := map[string]string{
		"verb":           "VERB",
		"ctl.error_code": "CTL_ERROR_CODE",
		"_private":       "PRIVATE",
		"9lives":         "",
		"":               "",
		"pcm-path":       "PCM_PATH",
	}
	for key, want := range tests {
		if got := journalField(key); got != want {
			t.Errorf("journalField(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestRingBufferWrapsInOrder(t *testing.T) {
	rb := NewRingBuffer(2)
	if rb.ReadAll() != nil {
		t.Fatal("empty buffer should read nil")
	}
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		rb.Write(LogEntry{Message: msg})
	}
	got := rb.ReadAll()
	if len(got) != 2 || got[0].Message != "d" || got[1].Message != "e" {
		t.Errorf("ReadAll() = %+v, want [d e]", got)
	}
}
