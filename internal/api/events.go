package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/audiohal/internal/events"
)

const sseBuffer = 32

// sseStream pairs an SSE event name with the bus subscription feeding it.
type sseStream struct {
	name    string
	sample  any
	forward func(*events.Bus, chan<- any) func()
}

var routingStreams = []sseStream{
	{"route-applied", events.RouteAppliedEvent{}, events.Forward[events.RouteAppliedEvent]},
	{"session-changed", events.SessionChangedEvent{}, events.Forward[events.SessionChangedEvent]},
	{"voice-pcm", events.VoicePCMEvent{}, events.Forward[events.VoicePCMEvent]},
	{"stream-connection", events.StreamConnectionEvent{}, events.Forward[events.StreamConnectionEvent]},
	{"route-option", events.RouteOptionEvent{}, events.Forward[events.RouteOptionEvent]},
	{"volume-reloaded", events.VolumeReloadedEvent{}, events.Forward[events.VolumeReloadedEvent]},
}

// snapshot describes the current session as a synthetic session event so
// clients start from a known state.
func (s *Server) snapshot() events.SessionChangedEvent {
	st := s.core.State()
	return events.SessionChangedEvent{
		ID:          events.NewID(),
		Command:     "snapshot",
		Session:     st.Session.String(),
		Subsession:  st.Subsession.String(),
		CallSession: st.CallSession,
		Recording:   st.Recording,
		Timestamp:   events.Now(),
	}
}

func (s *Server) registerSSERoutes() {
	types := make(map[string]any, len(routingStreams))
	for _, st := range routingStreams {
		types[st.name] = st.sample
	}

	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Routing Events",
		Description: "Server-sent route, session, voice PCM, host stream and volume events. " +
			"The first event is a session snapshot.",
		Tags:     []string{"events"},
		Security: withAuth(),
		Errors:   []int{http.StatusUnauthorized},
	}, types, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		ch := make(chan any, sseBuffer)
		for _, st := range routingStreams {
			defer st.forward(s.eventBus, ch)()
		}

		if send.Data(s.snapshot()) != nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-ch:
				if send.Data(e) != nil {
					return
				}
			}
		}
	})
}
