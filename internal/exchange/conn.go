package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pairflow/internal/metrics"
)

const (
	initialReconnectDelay = time.Second
	maxReconnectDelay     = 60 * time.Second
)

// Conn maintains one logical trade subscription for a single symbol across
// arbitrarily many physical reconnects. Every normalized tick is appended to
// the shared buffer in arrival order.
type Conn struct {
	symbol string
	url    string
	buf    Appender
	log    zerolog.Logger

	initialDelay time.Duration
	maxDelay     time.Duration
	now          func() time.Time

	state atomic.Int32
}

// ConnOption configures Conn construction parameters.
type ConnOption func(*Conn)

// WithBackoff overrides the reconnect delay bounds (tests shrink them).
func WithBackoff(initial, max time.Duration) ConnOption {
	return func(c *Conn) {
		if initial > 0 {
			c.initialDelay = initial
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// NewConn builds a connection for one symbol stream at <baseURL>/<symbol>@trade.
func NewConn(baseURL, symbol string, buf Appender, log zerolog.Logger, opts ...ConnOption) *Conn {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	c := &Conn{
		symbol:       symbol,
		url:          strings.TrimSuffix(baseURL, "/") + "/" + symbol + "@trade",
		buf:          buf,
		log:          log.With().Str("symbol", symbol).Logger(),
		initialDelay: initialReconnectDelay,
		maxDelay:     maxReconnectDelay,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current lifecycle state.
func (c *Conn) State() State { return State(c.state.Load()) }

func (c *Conn) setState(s State) { c.state.Store(int32(s)) }

// Run drives the subscription until the context is canceled or the endpoint
// proves fatally misconfigured. The reconnect delay starts at the initial
// value, doubles after each wait up to the cap, and resets on a successful
// connect.
func (c *Conn) Run(ctx context.Context) error {
	if u, err := url.Parse(c.url); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		c.setState(StateStopped)
		return fmt.Errorf("%w: %s", ErrBadEndpoint, c.url)
	}

	delay := c.initialDelay
	for {
		if ctx.Err() != nil {
			c.setState(StateStopped)
			return ctx.Err()
		}
		c.setState(StateConnecting)

		err := c.consume(ctx, &delay)
		if ctx.Err() != nil {
			c.setState(StateStopped)
			return ctx.Err()
		}
		c.setState(StateDisconnected)
		c.log.Warn().Err(err).Dur("retry_in", delay).Msg("stream disconnected, reconnecting")
		metrics.ReconnectsTotal.WithLabelValues(c.symbol).Inc()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			c.setState(StateStopped)
			return ctx.Err()
		}
		delay = nextDelay(delay, c.maxDelay)
	}
}

func nextDelay(cur, max time.Duration) time.Duration {
	cur *= 2
	if cur > max {
		return max
	}
	return cur
}

func (c *Conn) consume(ctx context.Context, delay *time.Duration) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.setState(StateConnected)
	*delay = c.initialDelay
	c.log.Info().Str("url", c.url).Msg("connected trade stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					c.log.Warn().Err(err).Msg("stream ping failed")
					return
				}
			case <-pingCtx.Done():
				// Unblocks a pending ReadMessage when the run context ends.
				_ = conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		tick, ok := Normalize(message, c.now)
		if !ok {
			continue
		}
		c.buf.Append(tick)
		metrics.TicksTotal.WithLabelValues(tick.Symbol).Inc()
	}
}
