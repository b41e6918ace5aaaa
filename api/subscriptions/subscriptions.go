// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/meterio/meter-auction/api/utils"
	"github.com/meterio/meter-auction/co"
	"github.com/meterio/meter-auction/script"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

type Subscriptions struct {
	engine   *script.ScriptEngine
	upgrader *websocket.Upgrader
	logger   *slog.Logger
	done     chan struct{}
	closed   bool
	mu       sync.Mutex
	wg       sync.WaitGroup
}

func New(engine *script.ScriptEngine, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		engine: engine,
		logger: slog.Default().With("pkg", "subscriptions"),
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func (s *Subscriptions) handleEventSubject(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req.URL.Query())
	if err != nil {
		return utils.BadRequest(err)
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return utils.HTTPError(errors.New("subscriptions closed"), http.StatusServiceUnavailable)
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	// subscribe before the handshake completes so no receipt is missed
	rl := newRelay(s.engine, receiptQueueSize)
	defer rl.stop()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has responded already
		s.logger.Debug("upgrade failed", "err", err)
		return nil
	}

	if err := s.pipe(conn, filter, rl); err != nil {
		if err == errLagging {
			s.logger.Warn("subscriber dropped", "remote", req.RemoteAddr, "err", err)
		} else {
			s.logger.Debug("subscription closed", "err", err)
		}
	}
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, filter *EventFilter, rl *relay) error {
	var goes co.Goes
	defer goes.Wait()
	defer conn.Close()

	// the read loop only detects the peer going away
	closed := make(chan struct{})
	goes.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case receipt := <-rl.queue:
			for _, msg := range filter.messages(receipt) {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					return err
				}
			}
		case <-rl.done:
			if rl.err == errLagging {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, rl.err.Error()),
					time.Now().Add(writeWait))
			}
			return rl.err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-closed:
			return nil
		case <-s.done:
			return conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
		}
	}
}

// Close ends all subscriptions and waits for their connections to close.
func (s *Subscriptions) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/event").Methods("GET").HandlerFunc(utils.WrapHandlerFunc(s.handleEventSubject))
}
