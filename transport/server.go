package transport

import (
	"context"
	"io"
	"net"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	coproto "github.com/starfederation/coproto-go"
)

// Handler processes the payload of one MSG. A nil error acks the message;
// any other error nacks it with the error text as reason.
type Handler func(ctx context.Context, peer PeerID, payload coproto.Value) error

// Server registers peers and acknowledges their messages. Each connection is
// served by one worker of a bounded pool.
type Server struct {
	cfg     Config
	handler Handler
	log     zerolog.Logger
	metrics *Metrics
	peers   *peerTable
	pool    *ants.Pool

	mu     sync.Mutex
	ln     net.Listener
	conns  map[net.Conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewServer validates cfg and builds a Server. metrics may be nil.
func NewServer(cfg Config, handler Handler, metrics *Metrics) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, errors.New("transport: nil handler")
	}
	s := &Server{
		cfg:     cfg,
		handler: handler,
		log:     cfg.Logger.With().Str("component", "server").Uint8("server_id", cfg.ServerID).Logger(),
		metrics: metrics,
		peers:   newPeerTable(cfg.ServerID),
		conns:   make(map[net.Conn]struct{}),
	}
	pool, err := ants.NewPool(cfg.Workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(v any) {
			s.log.Error().Interface("panic", v).Msg("connection worker panicked")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "transport: worker pool")
	}
	s.pool = pool
	return s, nil
}

// ListenAndServe listens on the configured network and address and serves
// until ctx is done or Close is called. A stale unix socket file is removed
// first.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.cfg.Network == "unix" {
		removeStaleSocket(s.cfg.Address)
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, s.cfg.Network, s.cfg.Address)
	if err != nil {
		return errors.Wrapf(err, "transport: listen %s %s", s.cfg.Network, s.cfg.Address)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or Close is called. It
// always returns a non-nil error; after a clean shutdown that is ErrClosed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrClosed
	}
	s.ln = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrClosed
			}
			return errors.Wrap(err, "transport: accept")
		}
		if !s.track(conn) {
			conn.Close()
			return ErrClosed
		}
		if err := s.pool.Submit(func() {
			defer s.wg.Done()
			s.serveConn(ctx, conn)
		}); err != nil {
			s.wg.Done()
			s.untrack(conn)
			conn.Close()
			s.log.Warn().Err(err).Str("remote", conn.RemoteAddr().String()).Msg("connection rejected")
		}
	}
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Peers returns the number of registered peers.
func (s *Server) Peers() int {
	return s.peers.len()
}

// Close stops accepting, closes every connection and waits for their
// workers to return.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var err error
	if s.ln != nil {
		err = s.ln.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.pool.Release()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// track registers a live connection and counts its worker. It refuses once
// Close has started so the wait group never grows during Wait.
func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, c)
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer s.untrack(conn)
	defer conn.Close()
	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()

	id, err := s.peers.acquire()
	if err != nil {
		log.Warn().Err(err).Msg("registration refused")
		return
	}
	defer s.peers.release(id)
	log = log.With().Stringer("peer", id).Logger()

	reg, err := registerCommand(id)
	if err != nil {
		log.Error().Err(err).Msg("build registration")
		return
	}
	if err := s.write(conn, reg); err != nil {
		log.Warn().Err(err).Msg("send registration")
		return
	}
	s.metrics.peerConnected()
	defer s.metrics.peerDisconnected()
	log.Info().Msg("peer registered")

	r := NewReader(conn)
	for {
		v, err := r.Next()
		if err != nil {
			if !isStreamError(err) {
				log.Info().Err(err).Msg("peer disconnected")
				return
			}
			s.metrics.decodeError()
			log.Warn().Err(err).Int("buffered", r.Buffered()).Msg("dropping stream")
			return
		}
		s.metrics.message(directionIn, commandName(v))
		if err := s.dispatch(ctx, conn, id, v, log); err != nil {
			log.Warn().Err(err).Msg("reply failed")
			return
		}
	}
}

// dispatch runs the handler for one MSG and writes its ACK or NACK. It only
// returns write errors.
func (s *Server) dispatch(ctx context.Context, conn net.Conn, peer PeerID, v coproto.Value, log zerolog.Logger) error {
	msgID, payload, err := parseMsg(v)
	if err != nil {
		s.metrics.decodeError()
		if msgID == "" {
			log.Warn().Err(err).Msg("skipping message without id")
			return nil
		}
		return s.reply(conn, msgID, err)
	}
	herr := s.handler(ctx, peer, payload)
	if herr != nil {
		log.Debug().Err(herr).Str("msg", msgID).Msg("handler rejected message")
	}
	return s.reply(conn, msgID, herr)
}

func (s *Server) reply(conn net.Conn, msgID string, cause error) error {
	var (
		out    coproto.Value
		err    error
		result = resultAck
	)
	if cause == nil {
		out, err = ackCommand(msgID)
	} else {
		result = resultNack
		out, err = nackCommand(msgID, cause.Error())
	}
	if err != nil {
		return err
	}
	s.metrics.ack(result)
	return s.write(conn, out)
}

func (s *Server) write(conn net.Conn, v coproto.Value) error {
	if _, err := conn.Write(v.Bytes()); err != nil {
		return err
	}
	s.metrics.message(directionOut, commandName(v))
	return nil
}

// isStreamError reports whether err came from the bytes on the wire rather
// than from the connection itself.
func isStreamError(err error) bool {
	return coproto.Code(err) > 0 ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, ErrMessageTooLarge)
}

func removeStaleSocket(path string) {
	if fi, err := os.Stat(path); err == nil && fi.Mode()&os.ModeSocket != 0 {
		_ = os.Remove(path)
	}
}
