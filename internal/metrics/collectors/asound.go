// Package collectors polls kernel ALSA state into metrics.
package collectors

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/smazurov/audiohal/internal/logging"
	"github.com/smazurov/audiohal/internal/metrics"
)

// SubstreamStatus is the parsed content of a /proc/asound substream status file.
type SubstreamStatus struct {
	State string
	Avail float64
}

// Running reports whether the substream is in RUNNING state.
func (s SubstreamStatus) Running() bool {
	return s.State == "RUNNING"
}

// AsoundCollector polls /proc/asound substream status files.
type AsoundCollector struct {
	logger   logging.Logger
	procRoot string
	interval time.Duration
	seen     map[string]bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewAsoundCollector creates a collector over /proc/asound.
func NewAsoundCollector(interval time.Duration) *AsoundCollector {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &AsoundCollector{
		logger:   logging.GetLogger("pcm"),
		procRoot: "/proc/asound",
		interval: interval,
		seen:     make(map[string]bool),
	}
}

// Start begins collecting.
func (c *AsoundCollector) Start(ctx context.Context) error {
	if _, err := os.Stat(c.procRoot); err != nil {
		return fmt.Errorf("asound proc tree unavailable: %w", err)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	go c.run()
	return nil
}

// Stop stops the collector.
func (c *AsoundCollector) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func (c *AsoundCollector) run() {
	c.logger.Info("Starting ALSA substream collection", "path", c.procRoot, "interval", c.interval)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.collect()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.collect()
		}
	}
}

func (c *AsoundCollector) collect() {
	files, err := filepath.Glob(filepath.Join(c.procRoot, "card*", "pcm*", "sub*", "status"))
	if err != nil {
		c.logger.Warn("Failed to list substreams", "error", err)
		return
	}

	current := make(map[string]bool, len(files))
	for _, path := range files {
		label, ok := substreamLabel(c.procRoot, path)
		if !ok {
			continue
		}
		status, err := readStatus(path)
		if err != nil {
			c.logger.Debug("Failed to read substream status", "path", path, "error", err)
			continue
		}
		current[label] = true
		metrics.SetSubstream(label, status.Running(), status.Avail)
	}

	for label := range c.seen {
		if !current[label] {
			metrics.DeleteSubstream(label)
		}
	}
	c.seen = current
}

func readStatus(path string) (SubstreamStatus, error) {
	f, err := os.Open(path)
	if err != nil {
		return SubstreamStatus{}, err
	}
	defer f.Close()
	return ParseStatus(f)
}

// ParseStatus parses a substream status file. A closed substream yields
// state "CLOSED".
func ParseStatus(r io.Reader) (SubstreamStatus, error) {
	var st SubstreamStatus
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "closed" {
			return SubstreamStatus{State: "CLOSED"}, nil
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "state":
			st.State = value
		case "avail":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				st.Avail = v
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return SubstreamStatus{}, err
	}
	if st.State == "" {
		return SubstreamStatus{}, fmt.Errorf("missing state")
	}
	return st, nil
}

// substreamLabel turns .../card0/pcm1c/sub0/status into "hw:0,1c/0".
func substreamLabel(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 4 {
		return "", false
	}
	card := strings.TrimPrefix(parts[0], "card")
	pcm := strings.TrimPrefix(parts[1], "pcm")
	sub := strings.TrimPrefix(parts[2], "sub")
	if card == parts[0] || pcm == parts[1] || sub == parts[2] || len(pcm) < 2 {
		return "", false
	}
	return fmt.Sprintf("hw:%s,%s/%s", card, pcm, sub), true
}
