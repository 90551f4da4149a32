package redisrpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
)

// Server consumes directory requests from Redis and answers them with a
// directory.Client implementation.
type Server struct {
	rdb            redis.Cmdable
	handler        directory.Client
	queue          string
	workers        int
	pollTimeout    time.Duration
	replyTTL       time.Duration
	handlerTimeout time.Duration
	logger         *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerQueue sets the request queue key.
func WithServerQueue(key string) ServerOption {
	return func(s *Server) {
		if key != "" {
			s.queue = key
		}
	}
}

// WithWorkers sets how many requests are processed concurrently.
func WithWorkers(n int) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithReplyTTL bounds how long an unread reply survives.
func WithReplyTTL(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.replyTTL = d
		}
	}
}

// WithHandlerTimeout bounds a single handler call.
func WithHandlerTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.handlerTimeout = d
		}
	}
}

// WithServerLogger sets the server logger.
func WithServerLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a directory RPC server.
func NewServer(rdb redis.Cmdable, handler directory.Client, opts ...ServerOption) *Server {
	s := &Server{
		rdb:            rdb,
		handler:        handler,
		queue:          defaultRequestQueue,
		workers:        4,
		pollTimeout:    time.Second,
		replyTTL:       30 * time.Second,
		handlerTimeout: 5 * time.Second,
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve runs the worker loops until ctx is done. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.InfoContext(ctx, "directory rpc server started",
		logger.Component("directory-rpc"),
		slog.String("queue", s.queue),
		slog.Int("workers", s.workers),
	)

	g, ctx := errgroup.WithContext(ctx)
	for range s.workers {
		g.Go(func() error {
			s.loop(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (s *Server) loop(ctx context.Context) {
	for ctx.Err() == nil {
		res, err := s.rdb.BRPop(ctx, s.pollTimeout, s.queue).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.ErrorContext(ctx, "failed to read directory request",
				logger.Component("directory-rpc"),
				logger.Error(err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.pollTimeout):
			}
			continue
		}
		if len(res) == 2 {
			s.handle(ctx, []byte(res[1]))
		}
	}
}

func (s *Server) handle(ctx context.Context, payload []byte) {
	var req request
	if err := json.Unmarshal(payload, &req); err != nil || req.ID == "" || req.ReplyTo == "" {
		s.logger.WarnContext(ctx, "dropping malformed directory request",
			logger.Component("directory-rpc"),
			logger.Error(errors.Join(ErrMalformed, err)),
		)
		return
	}

	start := time.Now()
	rep := s.dispatch(ctx, req)

	out, err := json.Marshal(rep)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to encode directory reply",
			logger.Component("directory-rpc"),
			logger.Error(err),
		)
		return
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, req.ReplyTo, out)
		p.Expire(ctx, req.ReplyTo, s.replyTTL)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send directory reply",
			logger.Component("directory-rpc"),
			slog.String("request_id", req.ID),
			logger.Error(err),
		)
		return
	}

	s.logger.DebugContext(ctx, "directory request handled",
		logger.Component("directory-rpc"),
		slog.String("pattern", req.Pattern),
		slog.String("request_id", req.ID),
		logger.Duration(time.Since(start)),
	)
}

func (s *Server) dispatch(ctx context.Context, req request) reply {
	rep := reply{ID: req.ID}

	switch req.Pattern {
	case PatternGetOrCreateUser:
		var data getOrCreateUserData
		if err := json.Unmarshal(req.Data, &data); err != nil {
			rep.Error = &replyError{Code: codeInvalidRequest, Message: "malformed request data"}
			return rep
		}

		hctx, cancel := context.WithTimeout(ctx, s.handlerTimeout)
		defer cancel()

		user, err := s.handler.GetOrCreateUser(hctx, data.Email, data.Name)
		if err != nil {
			rep.Error = toReplyError(err)
			if rep.Error.Code == codeInternal {
				s.logger.ErrorContext(ctx, "directory handler failed",
					logger.Component("directory-rpc"),
					slog.String("request_id", req.ID),
					logger.Error(err),
				)
			}
			return rep
		}
		rep.User = user

	default:
		rep.Error = &replyError{Code: codeInvalidRequest, Message: ErrUnknownPattern.Error()}
	}

	return rep
}

func toReplyError(err error) *replyError {
	if errors.Is(err, directory.ErrInvalidRequest) {
		return &replyError{Code: codeInvalidRequest, Message: err.Error()}
	}
	return &replyError{Code: codeInternal, Message: "internal error"}
}
