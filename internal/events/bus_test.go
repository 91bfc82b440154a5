package events

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	var zero T
	return zero
}

func TestOnDeliversConcreteType(t *testing.T) {
	bus := New()
	got := make(chan RouteAppliedEvent, 1)
	defer On(bus, func(e RouteAppliedEvent) { got <- e })()

	sent := RouteAppliedEvent{ID: NewID(), Role: "call-voice", Verb: "VoiceCall", Devices: []string{"Speaker", "MainMic"}}
	bus.Publish(sent)

	if e := recv(t, got); e.ID != sent.ID || e.Verb != "VoiceCall" {
		t.Errorf("got %+v, want %+v", e, sent)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	got := make(chan SessionChangedEvent, 2)
	unsub := On(bus, func(e SessionChangedEvent) { got <- e })

	bus.Publish(SessionChangedEvent{Session: "voicecall"})
	recv(t, got)
	unsub()
	bus.Publish(SessionChangedEvent{Session: "media"})

	select {
	case e := <-got:
		t.Fatalf("received %+v after unsubscribe", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSubscribersOnlySeeTheirType(t *testing.T) {
	bus := New()
	var volume atomic.Int32
	voice := make(chan VoicePCMEvent, 1)
	defer On(bus, func(e VoicePCMEvent) { voice <- e })()
	defer On(bus, func(VolumeReloadedEvent) { volume.Add(1) })()

	bus.Publish(VoicePCMEvent{Action: "open", PlaybackOpen: true})
	if e := recv(t, voice); e.Action != "open" {
		t.Errorf("voice event = %+v", e)
	}
	time.Sleep(10 * time.Millisecond)
	if n := volume.Load(); n != 0 {
		t.Errorf("volume subscriber saw %d voice events", n)
	}
}

func TestConcurrentPublish(t *testing.T) {
	const writers, each = 8, 50

	bus := New()
	got := make(chan struct{}, writers*each)
	defer On(bus, func(StreamConnectionEvent) { got <- struct{}{} })()

	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				bus.Publish(StreamConnectionEvent{Role: "media", Connected: true, Timestamp: Now()})
			}
		}()
	}
	wg.Wait()

	for range writers * each {
		recv(t, got)
	}
}

func TestNilBusAndNilEvent(_ *testing.T) {
	var nilBus *Bus
	nilBus.Publish(RouteOptionEvent{Name: "extra-volume"})
	New().Publish(nil)
}

func TestForwardDropsWhenFull(t *testing.T) {
	bus := New()
	ch := make(chan any, 1)
	defer Forward[RouteOptionEvent](bus, ch)()

	bus.Publish(RouteOptionEvent{Name: "a"})
	bus.Publish(RouteOptionEvent{Name: "b"})

	e := recv(t, (<-chan any)(ch))
	if name := e.(RouteOptionEvent).Name; name != "a" {
		t.Errorf("first event = %q, want a", name)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Error("NewID returned duplicate ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewID() = %q, not a uuid: %v", a, err)
	}
}
