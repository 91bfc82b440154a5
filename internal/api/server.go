package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/audiohal/internal/api/models"
	"github.com/smazurov/audiohal/internal/audio"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/logging"
	"github.com/smazurov/audiohal/internal/updater"
	"github.com/smazurov/audiohal/internal/version"
)

// UnitController controls the systemd unit of the sound server.
type UnitController interface {
	Unit() string
	Status(ctx context.Context) (string, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error
}

// Options configures the API server. Core and EventBus are required.
type Options struct {
	AuthUsername string
	AuthPassword string

	Core     *hal.Manager
	EventBus *events.Bus
	Detector audio.Detector // defaults to audio.NewDetector()

	HostUnit     UnitController  // systemd routes are skipped when nil
	VolumeReload func() error    // volume reload route is skipped when nil
	Updater      updater.Service // update routes are skipped when nil

	PrometheusHandler http.Handler // served unauthenticated on /metrics
}

// Server is the HTTP control surface of the routing core.
type Server struct {
	api      huma.API
	mux      *http.ServeMux
	srv      *http.Server
	core     *hal.Manager
	eventBus *events.Bus
	options  *Options
	logger   *slog.Logger
	started  time.Time
}

// NewServer builds the API on a ServeMux and registers every route the
// options allow.
func NewServer(opts *Options) *Server {
	if opts.Detector == nil {
		opts.Detector = audio.NewDetector()
	}

	mux := http.NewServeMux()
	cors := DefaultCORSConfig()
	cors.Preflight(mux)

	config := huma.DefaultConfig("audiohal API", "1.0.0")
	config.Info.Description = "Audio routing core: route requests, call sessions, voice PCM and volume tables"
	// relative server URLs keep the docs usable behind any host name
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		authScheme: {Type: "http", Scheme: "basic"},
	}

	s := &Server{
		api:      humago.New(mux, config),
		mux:      mux,
		core:     opts.Core,
		eventBus: opts.EventBus,
		options:  opts,
		logger:   logging.GetLogger("api"),
		started:  time.Now(),
	}

	s.api.UseMiddleware(cors.Middleware, HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		auth := basicAuth{api: s.api, user: []byte(opts.AuthUsername), pass: []byte(opts.AuthPassword)}
		s.api.UseMiddleware(auth.middleware)
	}
	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	for _, register := range []func(){
		s.registerSystemRoutes,
		s.registerRouteRoutes,
		s.registerSessionRoutes,
		s.registerVolumeRoutes,
		s.registerBufferAttrRoutes,
		s.registerAudioRoutes,
		s.registerSSERoutes,
		s.registerLogRoutes,
		s.registerSystemdRoutes,
		s.registerUpdateRoutes,
	} {
		register()
	}
	return s
}

// Handler is the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves HTTP on addr until Stop is called. A clean Stop returns nil.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting audiohal API server", "addr", addr, "docs", "http://"+addr+"/docs")

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes the listener and every open connection, SSE streams included.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	s.logger.Info("Stopping API server")
	return s.srv.Close()
}

var public = []map[string][]string{}

func (s *Server) registerSystemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Liveness probe with the current session",
		Tags:        []string{"system"},
		Security:    public,
	}, func(context.Context, *struct{}) (*models.HealthResponse, error) {
		st := s.core.State()
		return &models.HealthResponse{Body: models.HealthData{
			Status:   "ok",
			Session:  st.Session.String(),
			CallMode: st.CallMode,
			Uptime:   time.Since(s.started).Round(time.Second).String(),
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Build information of the running binary",
		Tags:        []string{"system"},
		Security:    public,
	}, func(context.Context, *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{Body: models.VersionData{
			Version:   info.Version,
			GitCommit: info.GitCommit,
			BuildDate: info.BuildDate,
			BuildID:   info.BuildID,
			GoVersion: info.GoVersion,
			Platform:  info.Platform,
			Summary:   info.String(),
			Dev:       version.IsDev(info.Version),
		}}, nil
	})
}
