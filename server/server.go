// Package server streams shrunk drawing commands to remote clients over
// websockets.
//
// A [Server] owns the per-target command queues and the shared content
// caches. The embedding toolkit draws through [Server.BeginCommand] and
// registers assets with [Server.ImageID] and [Server.FontID]. Every flush
// interval the pending batches are shrunk once and delivered to each
// connection according to that connection's interest.
package server

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/cache"
	"github.com/gogpu/ggstream/command"
	"github.com/gogpu/ggstream/fontmetrics"
	"github.com/gogpu/ggstream/handshake"
	"github.com/gogpu/ggstream/queue"
	"github.com/gogpu/ggstream/shrink"
)

const shutdownTimeout = 5 * time.Second

// Toolkit is the window-toolkit layer the server reports client events to.
// Its methods are called from connection goroutines and must not block for
// long.
type Toolkit interface {
	// Repaint asks for the full content of target to be drawn again.
	Repaint(target command.Target)

	// Resize reports the bounds a client requested for a window.
	Resize(target command.Target, bounds command.Rect)
}

type nopToolkit struct{}

func (nopToolkit) Repaint(command.Target)              {}
func (nopToolkit) Resize(command.Target, command.Rect) {}

// Server is safe for concurrent use.
type Server struct {
	cfg Config
	tk  Toolkit

	queues     *queue.Set
	images     *cache.ImageCache
	fonts      *cache.FontCache
	measurer   *fontmetrics.Measurer
	shrinker   *shrink.Stream
	negotiator handshake.Negotiator

	flushMu sync.Mutex

	mu    sync.RWMutex
	conns map[*conn]struct{}
}

// New creates a server. Zero cache sizes select cache.DefaultCapacity.
// A nil tk ignores client repaint and resize requests.
func New(cfg Config, tk Toolkit) *Server {
	if tk == nil {
		tk = nopToolkit{}
	}
	var qopts []queue.Option
	if cfg.CollectionsCheckSize > 0 {
		qopts = append(qopts, queue.WithWarnThreshold(cfg.CollectionsCheckSize))
	}

	s := &Server{
		cfg:    cfg,
		tk:     tk,
		queues: queue.NewSet(qopts...),
		images: cache.NewImageCache(cfg.ImageCacheSize),
		fonts:  cache.NewFontCache(cfg.FontCacheSize),
		conns:  make(map[*conn]struct{}),
	}
	s.measurer = fontmetrics.New(s.fonts)
	s.shrinker = shrink.New(shrink.Options{Measurer: s.measurer, Sizer: s.images}).Stream()
	s.negotiator = negotiator(cfg)
	return s
}

// negotiator lists the server's options in preference order.
func negotiator(cfg Config) handshake.Negotiator {
	toClient := []string{"none"}
	if cfg.EnableGzip {
		toClient = []string{"gzip", "none"}
	}
	return handshake.Negotiator{
		ToClientProtocols:    []string{"msgpack", "json"},
		ToServerProtocols:    []string{"msgpack", "json"},
		ToClientCompressions: toClient,
		ToServerCompressions: []string{"none"},
	}
}

// BeginCommand returns a builder for one drawing operation on target.
func (s *Server) BeginCommand(target command.Target) *queue.Builder {
	return s.queues.Begin(target)
}

// ImageID returns the cached reference for img, registering it if needed.
// The id stays reserved for target until DestroyTarget, so commands queued
// for target never see it recycled.
func (s *Server) ImageID(target command.Target, img image.Image) (command.ImageRef, error) {
	id, _, err := s.images.IDForTarget(target, img)
	if err != nil {
		return command.ImageRef{}, err
	}
	return command.CachedImage(id), nil
}

// FontID returns the cached id of a font file, registering it if needed.
// The id stays reserved for target until DestroyTarget.
func (s *Server) FontID(target command.Target, data []byte) (command.FontID, error) {
	id, _, err := s.fonts.IDForTarget(target, data)
	if err != nil {
		return command.NoFont, err
	}
	return command.FontID(id), nil
}

// DestroyTarget discards the pending commands of target, its tracked
// graphics state, its interest flags and the cache entries it holds.
func (s *Server) DestroyTarget(target command.Target) {
	s.queues.Remove(target)
	s.shrinker.Forget(target)
	s.images.ReleaseTarget(target)
	s.fonts.ReleaseTarget(target)
	for _, c := range s.connections() {
		c.interest.Remove(target)
	}
}

// Images returns the image cache.
func (s *Server) Images() *cache.ImageCache { return s.images }

// Fonts returns the font cache.
func (s *Server) Fonts() *cache.FontCache { return s.fonts }

// Flush shrinks every pending batch and delivers the result to all
// connections. It returns the shrink statistics of this flush.
func (s *Server) Flush() shrink.Stats {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	batches := s.queues.FlushAll()
	if len(batches) == 0 {
		return shrink.Stats{}
	}
	out, stats := s.shrinker.Shrink(batches)
	for _, b := range out {
		imgs, fonts := referenced(b.Commands)
		s.images.Retain(b.Target, imgs...)
		s.fonts.Retain(b.Target, fonts...)
	}

	for _, c := range s.connections() {
		if err := c.deliver(out); err != nil {
			ggstream.Logger().Error("server: deliver failed", "conn", c.id, "err", err)
			c.close()
		}
	}
	return stats
}

// referenced returns the cache ids used by cmds. Ids outside the cache id
// space cannot resolve and are skipped.
func referenced(cmds []command.Command) (images, fonts []cache.ID) {
	for _, c := range cmds {
		switch c := c.(type) {
		case command.DrawImageCommand:
			if c.Image.Kind != command.ImageCached {
				continue
			}
			if c.Image.ID > math.MaxUint16 {
				ggstream.Logger().Warn("server: image id out of range", "id", c.Image.ID)
				continue
			}
			images = append(images, cache.ID(c.Image.ID))
		case command.SetFontCommand:
			if c.Font < 0 {
				continue
			}
			if c.Font > math.MaxUint16 {
				ggstream.Logger().Warn("server: font id out of range", "id", c.Font)
				continue
			}
			fonts = append(fonts, cache.ID(c.Font))
		}
	}
	return images, fonts
}

func (s *Server) connections() []*conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*conn, 0, len(s.conns))
	for c := range s.conns {
		out = append(out, c)
	}
	return out
}

func (s *Server) addConn(c *conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	n := len(s.conns)
	s.mu.Unlock()
	ggstream.Logger().Info("server: client connected", "conn", c.id, "clients", n)
}

func (s *Server) removeConn(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	n := len(s.conns)
	s.mu.Unlock()
	ggstream.Logger().Info("server: client disconnected", "conn", c.id, "clients", n)
}

// Router returns the HTTP handler serving the websocket endpoint at "/"
// and a health check at "/healthz".
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, req)
			ggstream.Logger().Debug("server: handled",
				"method", req.Method, "url", req.URL.String(), "duration", m.Duration, "status", m.Code)
		})
	})
	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(s.healthz)
	r.Methods(http.MethodGet).Path("/").HandlerFunc(s.serveWS)
	return r
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	n := len(s.conns)
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %s clients=%d targets=%d\n", s.cfg.ServerID, n, len(s.queues.Targets()))
}

// Run serves HTTP on the configured address and flushes on every tick
// until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ggstream.Logger().Info("server: listening",
			"addr", srv.Addr, "serverID", s.cfg.ServerID, "relay", s.cfg.RelayURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.flushLoop(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		for _, c := range s.connections() {
			c.close()
		}
		return err
	})
	return g.Wait()
}

func (s *Server) flushLoop(ctx context.Context) {
	interval := s.cfg.FlushInterval
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			stats := s.Flush()
			if stats.Input > 0 {
				ggstream.Logger().Debug("server: flushed",
					"in", stats.Input, "out", stats.Output, "culled", stats.Culled)
			}
		case <-ctx.Done():
			return
		}
	}
}
