package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lateralquery/gqlpg/translate"
)

// Server is the HTTP binding shim: it turns an incoming GraphQL request
// envelope into a translate.Result ({sql, params}) and writes that back as
// JSON. It performs no database access, so there is no executable schema, no
// resolver registry, no subscription transport; only parsing a request and
// rendering the translator's output, reusing this package's own transport
// registry and request lifecycle (timeout, recover, logging).
type Server struct {
	mu sync.RWMutex

	transports     []Transport
	errorPresenter ErrorPresenterFunc
	recoverFunc    RecoverFunc

	requestTimeout time.Duration
	logger         *zap.Logger
}

// Config holds server configuration.
type Config struct {
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		Logger:         zap.NewNop(),
	}
}

// New creates a new server with the default configuration.
func New() *Server {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new server with custom configuration.
func NewWithConfig(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		transports:     make([]Transport, 0),
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
		errorPresenter: DefaultErrorPresenter,
		recoverFunc:    DefaultRecoverFunc,
	}
}

// Use adds a transport to the server.
func (s *Server) Use(transport Transport) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transports = append(s.transports, transport)
	return s
}

// SetErrorPresenter sets a custom error presenter.
func (s *Server) SetErrorPresenter(f ErrorPresenterFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorPresenter = f
}

// SetRecoverFunc sets a custom recovery function.
func (s *Server) SetRecoverFunc(f RecoverFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recoverFunc = f
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	log := s.logger.With(zap.String("request_id", requestID))

	s.mu.RLock()
	transports := s.transports
	s.mu.RUnlock()

	for _, transport := range transports {
		if transport.Supports(r) {
			s.handleRequest(ctx, w, r, transport, log)
			return
		}
	}

	log.Warn("unsupported transport", zap.String("method", r.Method))
	http.Error(w, "unsupported transport", http.StatusBadRequest)
}

func (s *Server) handleRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, transport Transport, log *zap.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			s.mu.RLock()
			recoverFunc := s.recoverFunc
			s.mu.RUnlock()

			err := recoverFunc(ctx, rec)
			log.Error("panic recovered while translating request", zap.Error(err))
			transport.WriteResponse(w, errorResponse(err))
		}
	}()

	params, err := transport.ParseRequest(r)
	if err != nil {
		log.Warn("failed to parse request", zap.Error(err))
		transport.WriteResponse(w, errorResponse(err))
		return
	}
	if params.Query == "" {
		// OPTIONS and similar transports intentionally return empty params.
		transport.WriteResponse(w, &Response{})
		return
	}

	result, err := translate.Translate(params.Query, params.Variables, params.OperationName)
	if err != nil {
		s.mu.RLock()
		presenter := s.errorPresenter
		s.mu.RUnlock()
		log.Info("translation failed", zap.Error(err))
		transport.WriteResponse(w, presenter(ctx, err))
		return
	}

	log.Debug("translated request", zap.Int("params", len(result.Params)))
	transport.WriteResponse(w, &Response{SQL: result.SQL, Params: result.Params})
}

// ErrorPresenterFunc formats an error into the response envelope.
type ErrorPresenterFunc func(ctx context.Context, err error) *Response

// DefaultErrorPresenter is the default error presenter.
func DefaultErrorPresenter(ctx context.Context, err error) *Response {
	return errorResponse(err)
}

// RecoverFunc handles panics.
type RecoverFunc func(ctx context.Context, err interface{}) error

// DefaultRecoverFunc is the default recover function.
func DefaultRecoverFunc(ctx context.Context, err interface{}) error {
	if e, ok := err.(error); ok {
		return e
	}
	return &translate.Error{Kind: translate.InternalInvariant, Message: "internal server error"}
}
