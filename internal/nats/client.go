package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Client sends control requests to a running daemon.
type Client struct {
	conn    *nats.Conn
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient connects to url. Requests without a context deadline use
// timeout.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	conn, err := nats.Connect(url,
		nats.Name("audiohal-remote"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(5),
	)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:    conn,
		timeout: timeout,
		logger:  logger.With("component", "nats-client"),
	}, nil
}

// Route applies a route and returns the plan.
func (c *Client) Route(ctx context.Context, req RouteMessage) (*PlanMessage, error) {
	reply, err := c.request(ctx, ActionRoute, req)
	if err != nil {
		return nil, err
	}
	return reply.Plan, nil
}

// Reset clears one direction of the active device set.
func (c *Client) Reset(ctx context.Context, direction string) (*StateMessage, error) {
	reply, err := c.request(ctx, ActionReset, ResetMessage{Direction: direction})
	if err != nil {
		return nil, err
	}
	return reply.State, nil
}

// Session applies a session command and returns the resulting state.
func (c *Client) Session(ctx context.Context, req SessionMessage) (*StateMessage, error) {
	reply, err := c.request(ctx, ActionSession, req)
	if err != nil {
		return nil, err
	}
	return reply.State, nil
}

// State fetches a state snapshot.
func (c *Client) State(ctx context.Context) (*StateMessage, error) {
	reply, err := c.request(ctx, ActionState, struct{}{})
	if err != nil {
		return nil, err
	}
	return reply.State, nil
}

// Watch calls fn for every relayed event until the returned function is
// called.
func (c *Client) Watch(fn func(kind string, data []byte)) (func(), error) {
	prefix := SubjectEventsPrefix + "."
	sub, err := c.conn.Subscribe(prefix+">", func(msg *nats.Msg) {
		fn(msg.Subject[len(prefix):], msg.Data)
	})
	if err != nil {
		return nil, err
	}
	if err := c.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

func (c *Client) request(ctx context.Context, action string, body any) (ReplyMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return ReplyMessage{}, err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.conn.RequestWithContext(ctx, SubjectControl(action), data)
	if err != nil {
		return ReplyMessage{}, fmt.Errorf("%s request: %w", action, err)
	}
	reply, err := UnmarshalReply(msg.Data)
	if err != nil {
		return ReplyMessage{}, fmt.Errorf("%s reply: %w", action, err)
	}
	if err := reply.Err(); err != nil {
		c.logger.Debug("Control request rejected", "action", action, "code", reply.Code)
		return reply, err
	}
	return reply, nil
}

// Close closes the connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
