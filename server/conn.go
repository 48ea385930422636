package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ggstream"
	"github.com/gogpu/ggstream/cache"
	"github.com/gogpu/ggstream/command"
	"github.com/gogpu/ggstream/handshake"
	"github.com/gogpu/ggstream/interest"
	"github.com/gogpu/ggstream/wire"
)

const (
	readLimit        = 8 << 20
	handshakeTimeout = 10 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 5 * time.Second
	pingInterval     = 30 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// assetStore is the part of a cache a connection reads assets from.
type assetStore interface {
	Payload(id cache.ID) ([]byte, error)
	Hash(id cache.ID) (cache.Hash, bool)
}

type assetKey struct {
	kind wire.AssetKind
	id   cache.ID
}

// conn is one client after a successful handshake.
type conn struct {
	id string
	s  *Server
	ws *websocket.Conn

	enc     wire.Encoding    // to client
	dec     wire.Encoding    // to server
	comp    wire.Compression // to client
	decomp  wire.Compression // to server
	msgType int

	interest *interest.Manager

	mu   sync.Mutex
	sent map[assetKey]cache.Hash // content delivered per id

	writeMu sync.Mutex
	closed  atomic.Bool
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ggstream.Logger().Warn("server: upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c, err := s.accept(ws)
	if err != nil {
		ggstream.Logger().Warn("server: handshake failed", "remote", r.RemoteAddr, "err", err)
		_ = ws.Close()
		return
	}

	defer s.removeConn(c)
	if err := c.run(r.Context()); err != nil {
		ggstream.Logger().Error("server: connection failed", "conn", c.id, "err", err)
	}
}

// accept performs the handshake on a fresh websocket.
func (s *Server) accept(ws *websocket.Conn) (*conn, error) {
	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(handshakeTimeout))

	_, data, err := ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("server: read handshake: %w", err)
	}
	req, err := handshake.DecodeRequest(data)
	if err != nil {
		return nil, reject(ws, err)
	}
	res, err := s.negotiator.Negotiate(req)
	if err != nil {
		return nil, reject(ws, err)
	}

	c := &conn{
		id:   uuid.NewString(),
		s:    s,
		ws:   ws,
		sent: make(map[assetKey]cache.Hash),
	}
	if err := c.setup(res); err != nil {
		return nil, reject(ws, err)
	}
	c.interest = interest.NewManager(s.tk.Repaint)

	resp, err := res.Response().Encode()
	if err != nil {
		return nil, err
	}
	// The reply goes out before any frame a concurrent flush may send, and
	// every flush after the client reads it reaches this connection.
	c.writeMu.Lock()
	s.addConn(c)
	err = c.writeLocked(websocket.TextMessage, resp)
	c.writeMu.Unlock()
	if err != nil {
		s.removeConn(c)
		return nil, err
	}

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	ggstream.Logger().Info("server: handshake complete",
		"conn", c.id,
		"toClient", res.ToClientProtocol+"/"+res.ToClientCompression,
		"toServer", res.ToServerProtocol+"/"+res.ToServerCompression,
		"displays", len(req.Displays))
	return c, nil
}

// reject sends a failure response and returns err.
func reject(ws *websocket.Conn, err error) error {
	if data, merr := handshake.Failure(err).Encode(); merr == nil {
		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		_ = ws.WriteMessage(websocket.TextMessage, data)
	}
	return err
}

func (c *conn) setup(res handshake.Result) error {
	var err error
	if c.enc, err = wire.NewEncoding(res.ToClientProtocol); err != nil {
		return err
	}
	if c.dec, err = wire.NewEncoding(res.ToServerProtocol); err != nil {
		return err
	}
	if c.comp, err = wire.NewCompression(res.ToClientCompression); err != nil {
		return err
	}
	if c.decomp, err = wire.NewCompression(res.ToServerCompression); err != nil {
		return err
	}
	c.msgType = websocket.BinaryMessage
	if c.enc.Name() == "json" && c.comp.Name() == "none" {
		c.msgType = websocket.TextMessage
	}
	return nil
}

// run reads client events and keeps the connection alive until either
// side closes it or ctx is canceled.
func (c *conn) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return c.readLoop()
	})
	g.Go(func() error { return c.keepAlive(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		c.close()
		return nil
	})
	return g.Wait()
}

func (c *conn) readLoop() error {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.close()
				return nil
			}
			return fmt.Errorf("server: read: %w", err)
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))

		data, err = c.decomp.Decompress(data)
		if err != nil {
			ggstream.Logger().Warn("server: dropped client frame", "conn", c.id, "err", err)
			continue
		}
		events, err := c.dec.DecodeToServer(data)
		if err != nil {
			ggstream.Logger().Warn("server: dropped client events", "conn", c.id, "err", err)
			continue
		}
		for _, ev := range events {
			if err := c.handle(ev); err != nil {
				return err
			}
		}
	}
}

func (c *conn) handle(ev wire.ToServer) error {
	switch ev := ev.(type) {
	case wire.Interest:
		c.interest.SetInterest(ev.Target, ev.Interested)
	case wire.Resize:
		c.s.tk.Resize(ev.Target, ev.Bounds)
	case wire.RequestAsset:
		if err := c.resend(ev.Kind, ev.ID); err != nil {
			if errors.Is(err, cache.ErrNotFound) {
				ggstream.Logger().Warn("server: client requested unknown asset",
					"conn", c.id, "kind", ev.Kind, "id", ev.ID)
				return nil
			}
			return err
		}
	case wire.Ping:
		return c.send([]wire.ToClient{wire.Pong{Nonce: ev.Nonce}})
	}
	return nil
}

func (c *conn) keepAlive(ctx context.Context) error {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				if c.closed.Load() {
					return nil
				}
				return fmt.Errorf("server: ping: %w", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// deliver sends the batches the client is interested in, each preceded by
// the assets it references that the client has not seen yet.
func (c *conn) deliver(batches []command.Batch) error {
	var msgs []wire.ToClient

	c.mu.Lock()
	for _, b := range batches {
		if b.Target.Kind == command.TargetOnscreen && !c.interest.Interested(b.Target) {
			continue
		}
		imgs, fonts := referenced(b.Commands)
		msgs = c.appendAssets(msgs, wire.AssetImage, imgs)
		msgs = c.appendAssets(msgs, wire.AssetFont, fonts)
		msgs = append(msgs, wire.DrawCommands{Target: b.Target, Commands: b.Commands})
	}
	c.mu.Unlock()

	if len(msgs) == 0 {
		return nil
	}
	return c.send(msgs)
}

// appendAssets must be called with c.mu held.
func (c *conn) appendAssets(msgs []wire.ToClient, kind wire.AssetKind, ids []cache.ID) []wire.ToClient {
	st := c.s.store(kind)
	for _, id := range ids {
		key := assetKey{kind: kind, id: id}
		h, ok := st.Hash(id)
		if !ok {
			ggstream.Logger().Warn("server: referenced asset is not cached",
				"conn", c.id, "kind", kind, "id", id)
			continue
		}
		if prev, seen := c.sent[key]; seen && prev == h {
			continue
		}
		payload, err := st.Payload(id)
		if err != nil {
			continue
		}
		msgs = append(msgs, wire.Asset{Kind: kind, ID: id, Payload: payload})
		c.sent[key] = h
	}
	return msgs
}

// resend delivers an asset again regardless of what was sent before.
func (c *conn) resend(kind wire.AssetKind, id cache.ID) error {
	st := c.s.store(kind)
	if st == nil {
		return fmt.Errorf("server: asset kind %q: %w", kind, cache.ErrNotFound)
	}
	h, ok := st.Hash(id)
	if !ok {
		return cache.ErrNotFound
	}
	payload, err := st.Payload(id)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.sent[assetKey{kind: kind, id: id}] = h
	c.mu.Unlock()
	return c.send([]wire.ToClient{wire.Asset{Kind: kind, ID: id, Payload: payload}})
}

func (c *conn) send(msgs []wire.ToClient) error {
	data, err := c.enc.EncodeToClient(msgs)
	if err != nil {
		return err
	}
	data, err = c.comp.Compress(data)
	if err != nil {
		return err
	}
	return c.write(c.msgType, data)
}

func (c *conn) write(msgType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.writeLocked(msgType, data)
}

func (c *conn) writeLocked(msgType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteMessage(msgType, data); err != nil {
		return fmt.Errorf("server: write: %w", err)
	}
	return nil
}

func (c *conn) close() {
	if c.closed.Swap(true) {
		return
	}
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeTimeout))
	c.writeMu.Unlock()
	_ = c.ws.Close()
}

func (s *Server) store(kind wire.AssetKind) assetStore {
	switch kind {
	case wire.AssetImage:
		return s.images
	case wire.AssetFont:
		return s.fonts
	}
	return nil
}
