// Package metrics provides Prometheus metrics for routing, session and PCM state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "audiohal"

var (
	routeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "route",
		Name:      "requests_total",
		Help:      "Route requests by effective kind and result",
	}, []string{"kind", "result"})

	activeDevices = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "route",
		Name:      "active_devices",
		Help:      "Devices in the active set per direction",
	}, []string{"direction"})

	sessionCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "commands_total",
		Help:      "Session commands by command and result",
	}, []string{"command", "result"})

	callActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "call_active",
		Help:      "1 while a call session is active",
	})

	voicePCMOpen = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pcm",
		Name:      "voice_open",
		Help:      "1 while the voice PCM handle of a direction is open",
	}, []string{"direction"})

	pcmOpenHandles = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pcm",
		Name:      "open_handles",
		Help:      "Open PCM handles, voice and stream",
	})

	volumeReloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "volume",
		Name:      "reloads_total",
		Help:      "Volume table reloads",
	})

	substreamRunning = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "alsa",
		Name:      "substream_running",
		Help:      "1 while an ALSA substream is in RUNNING state",
	}, []string{"pcm"})

	substreamAvail = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "alsa",
		Name:      "substream_avail_frames",
		Help:      "Frames available in an open ALSA substream",
	}, []string{"pcm"})
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveRoute counts a route request.
func ObserveRoute(kind string, err error) {
	routeRequests.WithLabelValues(kind, result(err)).Inc()
}

// SetActiveDevices records the active set size for a direction.
func SetActiveDevices(direction string, n int) {
	activeDevices.WithLabelValues(direction).Set(float64(n))
}

// ObserveSessionCommand counts a session command.
func ObserveSessionCommand(command string, err error) {
	sessionCommands.WithLabelValues(command, result(err)).Inc()
}

// SetCallActive records whether a call session is active.
func SetCallActive(active bool) {
	callActive.Set(boolValue(active))
}

// SetVoicePCM records the voice handle state of both directions.
func SetVoicePCM(playback, capture bool) {
	voicePCMOpen.WithLabelValues("out").Set(boolValue(playback))
	voicePCMOpen.WithLabelValues("in").Set(boolValue(capture))
}

// SetOpenHandles records the open PCM handle count.
func SetOpenHandles(n int) {
	pcmOpenHandles.Set(float64(n))
}

// IncVolumeReloads counts a volume table reload.
func IncVolumeReloads() {
	volumeReloads.Inc()
}

// SetSubstream records the state of an ALSA substream.
func SetSubstream(pcm string, running bool, avail float64) {
	substreamRunning.WithLabelValues(pcm).Set(boolValue(running))
	substreamAvail.WithLabelValues(pcm).Set(avail)
}

// DeleteSubstream removes a substream that disappeared.
func DeleteSubstream(pcm string) {
	substreamRunning.DeleteLabelValues(pcm)
	substreamAvail.DeleteLabelValues(pcm)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
