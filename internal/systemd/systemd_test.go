package systemd

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestWaitJob(t *testing.T) {
	tests := []struct {
		result  string
		wantErr bool
	}{
		{"done", false},
		{"failed", true},
		{"canceled", true},
	}

	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			ch := make(chan string, 1)
			ch <- tt.result
			err := waitJob(context.Background(), "restart pipewire.service", ch)
			if (err != nil) != tt.wantErr {
				t.Errorf("waitJob(%q) error = %v, wantErr %v", tt.result, err, tt.wantErr)
			}
		})
	}
}

func TestWaitJobContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := waitJob(ctx, "stop pipewire.service", make(chan string)); err == nil {
		t.Error("expected context error")
	}
}

func TestNotifyWithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	sent, err := Ready()
	if err != nil || sent {
		t.Errorf("Ready() = %v, %v, want false, nil", sent, err)
	}
}

func TestNotifyReady(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		t.Skipf("unixgram not available: %v", err)
	}
	defer conn.Close()
	t.Setenv("NOTIFY_SOCKET", path)

	sent, err := Ready()
	if err != nil || !sent {
		t.Fatalf("Ready() = %v, %v", sent, err)
	}

	buf := make([]byte, 64)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(buf[:n]); got != "READY=1" {
		t.Errorf("notify payload = %q, want READY=1", got)
	}
}
