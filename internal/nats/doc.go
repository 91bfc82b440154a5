// Package nats relays routing events over NATS and serves a request/reply
// control channel to processes outside the daemon, such as the sound
// server's policy module.
//
// # Architecture
//
//   - Server: optional embedded NATS server running in the daemon
//   - Bridge: publishes event bus traffic to NATS and answers control requests
//   - Client: request/reply client used by "audiohal remote"
//
// # Subject Hierarchy
//
//	audiohal.events.route              # route applied or failed
//	audiohal.events.session            # session command applied
//	audiohal.events.voice_pcm          # voice PCM opened or closed
//	audiohal.events.stream_connection  # host stream connected or disconnected
//	audiohal.events.route_option       # route option changed
//	audiohal.events.volume_reloaded    # volume table reloaded
//	audiohal.control.route             # apply a route (request/reply)
//	audiohal.control.reset             # reset one direction (request/reply)
//	audiohal.control.session           # session command (request/reply)
//	audiohal.control.state             # state snapshot (request/reply)
//
// Events are fire-and-forget (core NATS, no JetStream). Every control
// request is answered with a ReplyMessage; failures carry the routing
// error code.
//
// # Debugging with nats CLI
//
// Watch all events:
//
//	nats sub "audiohal.events.>"
//
// Ask for the current state:
//
//	nats req audiohal.control.state ''
//
// Start a voice call:
//
//	nats req audiohal.control.session '{"command":"start","session":"voicecall"}'
//
// Route the call to the receiver and main microphone:
//
//	nats req audiohal.control.route \
//	  '{"role":"call-voice","devices":[{"type":"builtin-receiver","direction":"out"},{"type":"builtin-mic","direction":"in"}]}'
package nats
