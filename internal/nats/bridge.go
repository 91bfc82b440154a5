package nats

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/smazurov/audiohal/internal/device"
	"github.com/smazurov/audiohal/internal/events"
	"github.com/smazurov/audiohal/internal/hal"
	"github.com/smazurov/audiohal/internal/halerr"
	"github.com/smazurov/audiohal/internal/route"
	"github.com/smazurov/audiohal/internal/session"
)

// Event kinds used in event subjects.
const (
	KindRoute            = "route"
	KindSession          = "session"
	KindVoicePCM         = "voice_pcm"
	KindStreamConnection = "stream_connection"
	KindRouteOption      = "route_option"
	KindVolumeReloaded   = "volume_reloaded"
)

const defaultRequestTimeout = 10 * time.Second

// Core is the part of the routing core reachable over NATS.
type Core interface {
	Route(ctx context.Context, role string, devices []device.Info, flags route.Flags) (route.Plan, error)
	Reset(ctx context.Context, dir device.Direction) error
	Session(ctx context.Context, cmd session.Command, s session.Session, sub session.Subsession) error
	State() hal.State
}

// Bridge publishes event bus traffic to NATS and answers control requests
// against the core.
type Bridge struct {
	url      string
	eventBus *events.Bus
	core     Core
	timeout  time.Duration
	conn     atomic.Pointer[nats.Conn]
	subs     []*nats.Subscription
	unsubs   []func()
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewBridge creates a bridge. core may be nil, in which case only events
// are relayed.
func NewBridge(url string, eventBus *events.Bus, core Core, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		url:      url,
		eventBus: eventBus,
		core:     core,
		timeout:  defaultRequestTimeout,
		logger:   logger.With("component", "nats-bridge"),
	}
}

// Start connects and subscribes. Bus subscriptions are only made once the
// control subjects are in place.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := nats.Connect(b.url,
		nats.Name("audiohal-bridge"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				b.logger.Warn("NATS bridge disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			b.logger.Info("NATS bridge reconnected")
		}),
	)
	if err != nil {
		return err
	}
	b.conn.Store(conn)
	b.logger.Info("NATS bridge connected", "url", b.url)

	if b.core != nil {
		handlers := map[string]nats.MsgHandler{
			ActionRoute:   b.handleRoute,
			ActionReset:   b.handleReset,
			ActionSession: b.handleSession,
			ActionState:   b.handleState,
		}
		for action, h := range handlers {
			sub, subErr := conn.Subscribe(SubjectControl(action), h)
			if subErr != nil {
				b.cleanup()
				return subErr
			}
			b.subs = append(b.subs, sub)
		}
		if err := conn.Flush(); err != nil {
			b.cleanup()
			return err
		}
	}

	b.unsubs = append(b.unsubs,
		relay[events.RouteAppliedEvent](b, KindRoute),
		relay[events.SessionChangedEvent](b, KindSession),
		relay[events.VoicePCMEvent](b, KindVoicePCM),
		relay[events.StreamConnectionEvent](b, KindStreamConnection),
		relay[events.RouteOptionEvent](b, KindRouteOption),
		relay[events.VolumeReloadedEvent](b, KindVolumeReloaded),
	)

	b.logger.Info("NATS bridge subscribed", "control", b.core != nil)
	return nil
}

func relay[T events.Event](b *Bridge, kind string) func() {
	return events.On(b.eventBus, func(e T) { b.publish(kind, e) })
}

// publish drops the event when the connection is down.
func (b *Bridge) publish(kind string, e any) {
	conn := b.conn.Load()
	if conn == nil || !conn.IsConnected() {
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		b.logger.Warn("Failed to marshal event", "kind", kind, "error", err)
		return
	}
	if err := conn.Publish(SubjectEvent(kind), data); err != nil {
		b.logger.Debug("Failed to publish event", "kind", kind, "error", err)
	}
}

func (b *Bridge) handleRoute(msg *nats.Msg) {
	var req RouteMessage
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		b.respond(msg, ReplyMessage{Code: string(halerr.ErrParameter), Error: "invalid route request: " + err.Error()})
		return
	}

	devices := make([]device.Info, 0, len(req.Devices))
	for _, d := range req.Devices {
		dir, err := device.ParseDirection(d.Direction)
		if err != nil {
			b.respond(msg, errorReply(err))
			return
		}
		devices = append(devices, device.Info{Type: d.Type, Direction: dir})
	}
	flags, err := route.ParseFlags(req.Flags)
	if err != nil {
		b.respond(msg, errorReply(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	plan, err := b.core.Route(ctx, req.Role, devices, flags)
	if err != nil {
		b.respond(msg, errorReply(err))
		return
	}
	b.respond(msg, ReplyMessage{OK: true, Plan: planMessage(plan)})
}

func (b *Bridge) handleReset(msg *nats.Msg) {
	var req ResetMessage
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		b.respond(msg, ReplyMessage{Code: string(halerr.ErrParameter), Error: "invalid reset request: " + err.Error()})
		return
	}
	dir, err := device.ParseDirection(req.Direction)
	if err != nil {
		b.respond(msg, errorReply(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.core.Reset(ctx, dir); err != nil {
		b.respond(msg, errorReply(err))
		return
	}
	b.respond(msg, ReplyMessage{OK: true, State: stateMessage(b.core.State())})
}

func (b *Bridge) handleSession(msg *nats.Msg) {
	var req SessionMessage
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		b.respond(msg, ReplyMessage{Code: string(halerr.ErrParameter), Error: "invalid session request: " + err.Error()})
		return
	}

	cmd, err := session.ParseCommand(req.Command)
	if err != nil {
		b.respond(msg, errorReply(err))
		return
	}
	sess, err := session.ParseSession(req.Session)
	if err != nil {
		b.respond(msg, errorReply(err))
		return
	}
	sub := session.SubsessionNone
	if req.Subsession != "" {
		if sub, err = session.ParseSubsession(req.Subsession); err != nil {
			b.respond(msg, errorReply(err))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.core.Session(ctx, cmd, sess, sub); err != nil {
		b.respond(msg, errorReply(err))
		return
	}
	b.respond(msg, ReplyMessage{OK: true, State: stateMessage(b.core.State())})
}

func (b *Bridge) handleState(msg *nats.Msg) {
	b.respond(msg, ReplyMessage{OK: true, State: stateMessage(b.core.State())})
}

func (b *Bridge) respond(msg *nats.Msg, reply ReplyMessage) {
	if !reply.OK {
		b.logger.Debug("Control request failed", "subject", msg.Subject, "code", reply.Code, "error", reply.Error)
	}
	if msg.Reply == "" {
		return
	}
	data, err := reply.Marshal()
	if err != nil {
		b.logger.Warn("Failed to marshal reply", "subject", msg.Subject, "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		b.logger.Warn("Failed to send reply", "subject", msg.Subject, "error", err)
	}
}

// cleanup must be called with b.mu held.
func (b *Bridge) cleanup() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil

	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.subs = nil

	if conn := b.conn.Swap(nil); conn != nil {
		conn.Close()
	}
}

// Stop unsubscribes and closes the connection.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cleanup()
	b.logger.Info("NATS bridge stopped")
}

// IsConnected reports whether the bridge has a live connection.
func (b *Bridge) IsConnected() bool {
	conn := b.conn.Load()
	return conn != nil && conn.IsConnected()
}
