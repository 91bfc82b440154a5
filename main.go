package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/audiohal/cmd"
	"github.com/smazurov/audiohal/internal/api"
	"github.com/smazurov/audiohal/internal/audio"
	"github.com/smazurov/audiohal/internal/config"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/logging"
	"github.com/smazurov/audiohal/internal/metrics"
	"github.com/smazurov/audiohal/internal/metrics/collectors"
	"github.com/smazurov/audiohal/internal/metrics/exporters"
	"github.com/smazurov/audiohal/internal/nats"
	"github.com/smazurov/audiohal/internal/pcm"
	"github.com/smazurov/audiohal/internal/session"
	"github.com/smazurov/audiohal/internal/systemd"
	"github.com/smazurov/audiohal/internal/ucm"
	"github.com/smazurov/audiohal/internal/updater"
	"github.com/smazurov/audiohal/internal/version"
	"github.com/smazurov/audiohal/internal/volume"
	"github.com/spf13/cobra"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Voice path and host device parameters
	VoiceDevice        string `help:"Voice call PCM device" default:"hw:0,1" toml:"voice.device" env:"VOICE_DEVICE"`
	SuspendTimeoutMsec int    `help:"Primary playback suspend timeout in ms" default:"5000" toml:"host.suspend_timeout_msec" env:"HOST_SUSPEND_TIMEOUT_MSEC"`
	TschedBufferSize   int    `help:"Primary playback tsched buffer size in bytes" default:"16384" toml:"host.tsched_buffer_size" env:"HOST_TSCHED_BUFFER_SIZE"`
	CaptureRate        int    `help:"Primary capture sample rate" default:"48000" toml:"host.capture_rate" env:"HOST_CAPTURE_RATE"`

	// UCM settings
	UCMMode    string `help:"UCM activation: exec runs alsaucm, dry only logs" default:"exec" toml:"ucm.mode" env:"UCM_MODE"`
	UCMBinary  string `help:"alsaucm binary" default:"alsaucm" toml:"ucm.binary" env:"UCM_BINARY"`
	UCMCard    string `help:"Sound card for UCM" default:"0" toml:"ucm.card" env:"UCM_CARD"`
	UCMTimeout string `help:"Timeout for one alsaucm run" default:"5s" toml:"ucm.timeout" env:"UCM_TIMEOUT"`

	// Volume table
	VolumeFile string `help:"Volume and gain table file" default:"volume.toml" toml:"volume.file" env:"VOLUME_FILE"`

	// Sound server unit
	HostUnit   string `help:"systemd unit of the sound server, empty to disable" default:"pipewire.service" toml:"systemd.host_unit" env:"SYSTEMD_HOST_UNIT"`
	HostSystem bool   `help:"Use the system bus instead of the user bus" default:"false" toml:"systemd.system_bus" env:"SYSTEMD_SYSTEM_BUS"`

	// NATS event relay and control channel
	NATSEnabled bool   `help:"Relay events and accept control requests over NATS" default:"true" toml:"nats.enabled" env:"NATS_ENABLED"`
	NATSURL     string `help:"External NATS server URL, empty to run an embedded server" default:"" toml:"nats.url" env:"NATS_URL"`
	NATSPort    int    `help:"Embedded NATS server port" default:"4222" toml:"nats.port" env:"NATS_PORT"`

	// Self update
	UpdateRepository string `help:"GitHub repository for releases, empty to disable" default:"smazurov/audiohal" toml:"update.repository" env:"UPDATE_REPOSITORY"`
	UpdatePrerelease bool   `help:"Include prereleases" default:"false" toml:"update.prerelease" env:"UPDATE_PRERELEASE"`

	// Metrics
	MetricsInterval string `help:"/proc/asound poll interval" default:"5s" toml:"metrics.asound_interval" env:"METRICS_ASOUND_INTERVAL"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
}

func main() {
	var root *cobra.Command
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, root); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Per-module levels come from [logging] in the config file
		loggingConfig := config.LoadLoggingConfig(opts.Config)
		loggingConfig.Level = opts.LoggingLevel
		loggingConfig.Format = opts.LoggingFormat
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		eventBus := events.New()
		logging.SetLogCallback(func(e logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  e.Timestamp.Format(time.RFC3339Nano),
				Level:      e.Level,
				Module:     e.Module,
				Message:    e.Message,
				Attributes: e.Attributes,
			})
		})

		table, err := volume.Load(opts.VolumeFile)
		if err != nil {
			logger.Warn("Using default volume table", "file", opts.VolumeFile, "error", err)
			table = volume.DefaultTable()
		}
		volumes := volume.NewStore(table, logging.GetLogger("volume"))

		var activator ucm.Activator
		if opts.UCMMode == "dry" {
			activator = ucm.NewRecorder(logging.GetLogger("ucm"))
		} else {
			activator = ucm.NewExec(opts.UCMBinary, opts.UCMCard, logging.GetLogger("ucm"), ucm.WithTimeout(parseDuration(opts.UCMTimeout, 5*time.Second)))
		}

		core := hal.New(hal.Config{
			VoiceDevice:        opts.VoiceDevice,
			SuspendTimeoutMsec: opts.SuspendTimeoutMsec,
			TschedBufferSize:   opts.TschedBufferSize,
			CaptureRate:        opts.CaptureRate,
		}, activator, pcm.NewALSA(logging.GetLogger("pcm")),
			hal.WithLogger(logging.GetLogger("hal")),
			hal.WithEvents(eventBus),
			hal.WithVolume(volumes),
			hal.WithHost(hal.LogHost{Logger: logging.GetLogger("host")}),
		)

		var unit *systemd.Manager
		if opts.HostUnit != "" {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			unit, err = systemd.NewManager(ctx, opts.HostUnit, opts.HostSystem)
			cancel()
			if err != nil {
				logger.Warn("systemd unit control unavailable", "unit", opts.HostUnit, "error", err)
				unit = nil
			}
		}

		apiOpts := &api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Core:              core,
			EventBus:          eventBus,
			Detector:          audio.NewDetector(),
			PrometheusHandler: exporters.HTTPHandler(),
		}
		if unit != nil {
			apiOpts.HostUnit = unit
		}

		if opts.UpdateRepository != "" {
			svc, updErr := updater.NewService(updater.Options{
				Repository: opts.UpdateRepository,
				Prerelease: opts.UpdatePrerelease,
			})
			if updErr != nil {
				logger.Warn("Self update unavailable", "error", updErr)
			} else {
				apiOpts.Updater = svc
			}
		}

		var watcher *config.Watcher[*volume.Table]
		onReload := func(*volume.Table) {
			metrics.IncVolumeReloads()
			eventBus.Publish(events.VolumeReloadedEvent{
				ID:        events.NewID(),
				Path:      opts.VolumeFile,
				Timestamp: events.Now(),
			})
		}
		if watcher, err = volumes.Watch(opts.VolumeFile, onReload); err != nil {
			logger.Warn("Volume table hot reload disabled", "file", opts.VolumeFile, "error", err)
		} else {
			apiOpts.VolumeReload = watcher.Reload
		}

		server := api.NewServer(apiOpts)

		var natsServer *nats.Server
		var bridge *nats.Bridge
		if opts.NATSEnabled {
			url := opts.NATSURL
			if url == "" {
				natsServer = nats.NewServer(nats.ServerOptions{
					Port:   opts.NATSPort,
					Logger: logging.GetLogger("nats"),
				})
				url = natsServer.ClientURL()
			}
			bridge = nats.NewBridge(url, eventBus, core, logging.GetLogger("nats"))
		}
		asound := collectors.NewAsoundCollector(parseDuration(opts.MetricsInterval, 5*time.Second))

		hooks.OnStart(func() {
			if startErr := asound.Start(context.Background()); startErr != nil {
				logger.Warn("PCM substream metrics disabled", "error", startErr)
			}

			if natsServer != nil {
				if startErr := natsServer.Start(); startErr != nil {
					logger.Warn("Embedded NATS server failed, relay disabled", "error", startErr)
					bridge = nil
				}
			}
			if bridge != nil {
				if startErr := bridge.Start(); startErr != nil {
					logger.Warn("NATS relay disabled", "error", startErr)
					bridge = nil
				}
			}

			logger.Info("Starting HTTP server", "port", opts.Port, "voice_device", opts.VoiceDevice)
			if ok, notifyErr := systemd.Ready(); notifyErr != nil {
				logger.Warn("sd_notify READY failed", "error", notifyErr)
			} else if ok {
				logger.Debug("Notified systemd of readiness")
			}
			if startErr := server.Start(opts.Port); startErr != nil {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			_, _ = systemd.Stopping()

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			if watcher != nil {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn("Error stopping volume watcher", "error", stopErr)
				}
			}
			_ = asound.Stop()
			if bridge != nil {
				bridge.Stop()
			}
			if natsServer != nil {
				natsServer.Stop()
			}

			// Closes any voice handles left open by an unfinished call
			state := core.State()
			if state.CallSession {
				if endErr := core.Session(context.Background(), session.CommandEnd, state.Session, session.SubsessionNone); endErr != nil {
					logger.Warn("Failed to end call session", "session", state.Session, "error", endErr)
				}
			}
			if unit != nil {
				unit.Close()
			}
		})
	})

	root = cli.Root()
	root.Use = "audiohal"
	root.Short = "Audio routing core for UCM based sound cards"
	root.Version = version.Get().String()
	root.AddCommand(cmd.CreateRouteCmd())
	root.AddCommand(cmd.CreateDevicesCmd())
	root.AddCommand(cmd.CreateBufferAttrCmd())
	root.AddCommand(cmd.CreateVolumeCmd())
	root.AddCommand(cmd.CreateRemoteCmd())

	cli.Run()
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
