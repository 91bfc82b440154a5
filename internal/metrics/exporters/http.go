// Package exporters serves the collected metrics.
package exporters

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smazurov/audiohal/internal/logging"
	"github.com/smazurov/audiohal/internal/version"
)

var buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "audiohal_build_info",
	Help: "Build metadata of the running daemon; always 1.",
}, []string{"version", "commit", "goversion"})

// HTTPHandler serves the default registry in text or OpenMetrics format.
// A collector that fails during a scrape is logged and skipped.
func HTTPHandler() http.Handler {
	registerBuildInfo(prometheus.DefaultRegisterer, version.Get())

	errLog := slog.NewLogLogger(logging.GetLogger("metrics").Handler(), slog.LevelWarn)
	return promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorLog:          errLog,
			ErrorHandling:     promhttp.ContinueOnError,
			EnableOpenMetrics: true,
		}),
	)
}

func registerBuildInfo(reg prometheus.Registerer, info version.Info) {
	if err := reg.Register(buildInfo); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return
		}
	}
	buildInfo.Reset()
	buildInfo.WithLabelValues(info.Version, version.ShortCommit(info.GitCommit), info.GoVersion).Set(1)
}
