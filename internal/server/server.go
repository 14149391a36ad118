package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/gnet/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	DefaultAddr = "tcp://:7070"

	// MaxLineLength bounds a single request line.
	MaxLineLength = 64 * 1024
)

// CommandHandler answers one request line split into arguments. The
// reply may span several lines and is sent without a trailing newline.
type CommandHandler func(args []string) string

// Server is a line based query service. It runs a single gnet event
// loop, so handlers are never called concurrently.
type Server struct {
	gnet.BuiltinEventEngine

	logger   *zap.Logger
	handlers map[string]CommandHandler
	mu       sync.RWMutex

	engine  gnet.Engine
	booted  chan struct{}
	running *atomic.Bool
	clients *atomic.Int32
}

func NewServer(logger *zap.Logger) *Server {
	return &Server{
		logger:   logger,
		handlers: make(map[string]CommandHandler),
		booted:   make(chan struct{}),
		running:  atomic.NewBool(false),
		clients:  atomic.NewInt32(0),
	}
}

func (s *Server) RegisterCommand(name string, handler CommandHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[strings.ToUpper(name)] = handler
}

func (s *Server) GetHandler(name string) CommandHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlers[strings.ToUpper(name)]
}

// Execute runs a single request line and returns its reply.
func (s *Server) Execute(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERR empty command"
	}

	cmdName := strings.ToUpper(fields[0])
	handler := s.GetHandler(cmdName)
	if handler == nil {
		return fmt.Sprintf("ERR unknown command '%s'", cmdName)
	}

	return handler(fields[1:])
}

// Start serves on addr, e.g. "tcp://:7070", until Stop is called.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	err := gnet.Run(s, addr,
		gnet.WithMulticore(false),
		gnet.WithLogger(s.logger.Sugar()),
	)
	if err != nil {
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	}
	return nil
}

// Ready is closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.booted
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CAS(true, false) {
		return errors.New("server is not running")
	}
	if err := s.engine.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) ClientCount() int {
	return int(s.clients.Load())
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.engine = eng
	s.running.Store(true)
	close(s.booted)

	s.logger.Info("server listening")
	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	s.clients.Inc()
	s.logger.Debug("client connected", zap.Stringer("remote", c.RemoteAddr()))
	return nil, gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) gnet.Action {
	s.clients.Dec()
	if err != nil {
		s.logger.Warn("client disconnected with error", zap.Stringer("remote", c.RemoteAddr()), zap.Error(err))
	} else {
		s.logger.Debug("client disconnected", zap.Stringer("remote", c.RemoteAddr()))
	}
	return gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Peek(c.InboundBuffered())
	if err != nil {
		s.logger.Warn("failed to read request", zap.Error(err))
		return gnet.Close
	}

	replies, consumed, quit := s.process(buf)

	if consumed > 0 {
		if _, err := c.Discard(consumed); err != nil {
			s.logger.Warn("failed to discard request", zap.Error(err))
			return gnet.Close
		}
	}

	if len(replies) > 0 {
		if _, err := c.Write(replies); err != nil {
			s.logger.Warn("failed to write reply", zap.Error(err))
			return gnet.Close
		}
	}

	if quit {
		return gnet.Close
	}
	if c.InboundBuffered() > MaxLineLength {
		if _, err := c.Write([]byte("ERR line too long\n")); err != nil {
			s.logger.Warn("failed to write reply", zap.Error(err))
		}
		return gnet.Close
	}
	return gnet.None
}

// process executes every complete line in buf. It returns the replies,
// the number of bytes consumed and whether the client asked to quit.
func (s *Server) process(buf []byte) ([]byte, int, bool) {
	var replies []byte
	consumed := 0

	for {
		i := bytes.IndexByte(buf[consumed:], '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(buf[consumed:consumed+i]), "\r")
		consumed += i + 1

		if strings.EqualFold(strings.TrimSpace(line), "QUIT") {
			replies = append(replies, "OK\n"...)
			return replies, consumed, true
		}

		replies = append(replies, s.Execute(line)...)
		replies = append(replies, '\n')
	}

	return replies, consumed, false
}
