package transport

import (
	"context"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	coproto "github.com/starfederation/coproto-go"
)

// Client is a registered peer. Send may be called from many goroutines; each
// call waits for the acknowledgement of its own message.
type Client struct {
	cfg     Config
	conn    net.Conn
	peer    PeerID
	log     zerolog.Logger
	metrics *Metrics

	seq     atomic.Uint64
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan ackResult

	done      chan struct{}
	closeOnce sync.Once
	err       error
}

// Dial connects to the configured address, retrying with exponential
// backoff up to MaxDialAttempts, and waits RegisterTimeout for the server to
// assign a peer id. metrics may be nil.
func Dial(ctx context.Context, cfg Config, metrics *Metrics) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger.With().Str("component", "client").Str("addr", cfg.Address).Logger()
	conn, err := dialWithRetry(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	r := NewReader(conn)
	peer, err := awaitRegistration(conn, r, cfg.RegisterTimeout)
	if err != nil {
		conn.Close()
		return nil, err
	}
	metrics.message(directionIn, CommandRegister)

	c := &Client{
		cfg:     cfg,
		conn:    conn,
		peer:    peer,
		log:     log.With().Stringer("peer", peer).Logger(),
		metrics: metrics,
		pending: make(map[string]chan ackResult),
		done:    make(chan struct{}),
	}
	c.log.Info().Msg("registered")
	go c.readLoop(r)
	return c, nil
}

func dialWithRetry(ctx context.Context, cfg Config, log zerolog.Logger) (net.Conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxDialAttempts-1)), ctx)

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	attempt := 0
	conn, err := backoff.RetryWithData(func() (net.Conn, error) {
		attempt++
		conn, err := dialer.DialContext(ctx, cfg.Network, cfg.Address)
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Msg("dial failed")
			return nil, err
		}
		return conn, nil
	}, policy)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: dial %s %s after %d attempts", cfg.Network, cfg.Address, attempt)
	}
	return conn, nil
}

func awaitRegistration(conn net.Conn, r *Reader, timeout time.Duration) (PeerID, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	v, err := r.Next()
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return 0, errors.Wrapf(ErrRegistrationTimeout, "no %s within %s", CommandRegister, timeout)
		}
		return 0, errors.Wrap(err, "transport: read registration")
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return 0, err
	}
	return parseRegister(v)
}

// Peer returns the id the server assigned.
func (c *Client) Peer() PeerID {
	return c.peer
}

// Send delivers payload as one MSG and waits for its acknowledgement. It
// returns ErrNacked carrying the server's reason, ErrAckTimeout after
// AckTimeout, ErrClosed once the connection is gone, or ctx.Err().
func (c *Client) Send(ctx context.Context, payload coproto.Value) error {
	id := c.peer.String() + "." + strconv.FormatUint(c.seq.Add(1), 10)
	msg, err := msgCommand(id, payload)
	if err != nil {
		return err
	}

	ch := make(chan ackResult, 1)
	c.mu.Lock()
	if c.isDone() {
		c.mu.Unlock()
		return c.err
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.write(msg); err != nil {
		c.shutdown(err)
		return c.err
	}

	timer := time.NewTimer(c.cfg.AckTimeout)
	defer timer.Stop()
	select {
	case res := <-ch:
		return res.err
	case <-timer.C:
		c.metrics.ack(resultTimeout)
		return errors.Wrapf(ErrAckTimeout, "message %s after %s", id, c.cfg.AckTimeout)
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the connection. Pending and later Sends fail with ErrClosed.
func (c *Client) Close() error {
	c.shutdown(nil)
	return nil
}

// Done is closed when the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) write(v coproto.Value) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.conn.Write(v.Bytes()); err != nil {
		return err
	}
	c.metrics.message(directionOut, commandName(v))
	return nil
}

func (c *Client) readLoop(r *Reader) {
	for {
		v, err := r.Next()
		if err != nil {
			if isStreamError(err) {
				c.metrics.decodeError()
			}
			c.shutdown(err)
			return
		}
		c.metrics.message(directionIn, commandName(v))
		res, ok := parseAck(v)
		if !ok {
			c.log.Debug().Stringer("value", v).Msg("ignoring unexpected value")
			continue
		}
		if res.err != nil {
			c.metrics.ack(resultNack)
		} else {
			c.metrics.ack(resultAck)
		}
		c.mu.Lock()
		ch, ok := c.pending[res.id]
		c.mu.Unlock()
		if !ok {
			c.log.Debug().Str("msg", res.id).Msg("ack for unknown message")
			continue
		}
		select {
		case ch <- res:
		default:
		}
	}
}

func (c *Client) isDone() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// shutdown records why the client stopped and releases every waiter.
func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if cause == nil || errors.Is(cause, net.ErrClosed) {
			c.err = ErrClosed
		} else {
			c.err = errors.Wrapf(ErrClosed, "%v", cause)
		}
		close(c.done)
		c.mu.Unlock()
		c.conn.Close()
		if cause != nil && !errors.Is(cause, net.ErrClosed) {
			c.log.Info().Err(cause).Msg("connection lost")
		}
	})
}
