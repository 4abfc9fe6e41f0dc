// Package mockapi serves a local stand-in for the Mars real-estate API.
package mockapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/marsview/internal/listings"
)

//go:embed sample.json
var sampleJSON []byte

// Sample returns the embedded sample listings.
func Sample() ([]listings.Property, error) {
	return listings.Decode(sampleJSON)
}

type options struct {
	props      []listings.Property
	failStatus int
	delay      time.Duration
	logger     *slog.Logger
}

// Option customises the mock endpoint.
type Option func(*options)

// WithProperties serves props instead of the embedded sample.
func WithProperties(props []listings.Property) Option {
	return func(o *options) { o.props = props }
}

// WithFailure answers every request with status.
func WithFailure(status int) Option {
	return func(o *options) { o.failStatus = status }
}

// WithDelay holds each response for d, or until the client goes away.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithLogger logs each request.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewHandler builds the gin engine serving GET /realestate?filter=.
func NewHandler(opts ...Option) (http.Handler, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	if o.props == nil {
		sample, err := Sample()
		if err != nil {
			return nil, fmt.Errorf("load sample listings: %w", err)
		}
		o.props = sample
	}

	// Debug mode prints route tables to stdout, which the TUI owns.
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(o.logger))
	r.GET("/realestate", func(c *gin.Context) {
		if o.delay > 0 {
			select {
			case <-time.After(o.delay):
			case <-c.Request.Context().Done():
				return
			}
		}
		if o.failStatus != 0 {
			c.JSON(o.failStatus, gin.H{"error": http.StatusText(o.failStatus)})
			return
		}

		filter, err := listings.ParseFilter(c.DefaultQuery("filter", listings.FilterAll.Value()))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		out := make([]listings.Property, 0, len(o.props))
		for _, p := range o.props {
			if filter.Matches(p) {
				out = append(out, p)
			}
		}
		c.JSON(http.StatusOK, out)
	})
	return r, nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("mock request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"duration", time.Since(start),
		)
	}
}

// Server is a running mock endpoint.
type Server struct {
	srv  *http.Server
	ln   net.Listener
	done chan struct{}
	once sync.Once
}

// Start listens on addr ("127.0.0.1:0" picks a free port) and serves in the
// background until Close.
func Start(addr string, opts ...Option) (*Server, error) {
	handler, err := NewHandler(opts...)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	s := &Server{
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second},
		ln:   ln,
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		_ = s.srv.Serve(ln)
	}()
	return s, nil
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String() + "/"
}

// Close shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Close(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		err = s.srv.Shutdown(ctx)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = s.srv.Close()
		}
		<-s.done
	})
	return err
}
