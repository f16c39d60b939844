// internal/handlers/ws.go
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/redorblack/server/internal/middleware"
	"github.com/redorblack/server/internal/protocol"
)

// WSHandler upgrades the HTTP connection to a websocket and binds it to
// the game session. The read loop blocks until the client goes away;
// cleanup then removes the player from the game.
func WSHandler(logger *logrus.Logger, s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		cl := s.addConnection(cancel)

		go writePump(ctx, c, cl, logger)
		readPump(ctx, c, s, cl, logger)

		s.removeConnection(cl)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// readPump reads client payloads until the connection closes or the
// context is cancelled. Non-text frames get the same treatment as
// undecodable text: an Error unicast, connection left open.
func readPump(ctx context.Context, c *websocket.Conn, s *Server, cl *client, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for connection %s", cl.id)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("websocket context cancelled for connection %s", cl.id)
			} else {
				logger.Warnf("read error for connection %s: %v", cl.id, err)
			}
			return
		}

		if typ != websocket.MessageText {
			s.sendTo(cl, protocol.NewError("Unrecognised message"))
			continue
		}

		s.handleMessage(cl, data)
	}
}

// writePump is the single writer for one connection: it drains the out
// channel in order and pings periodically so dead peers get noticed.
func writePump(ctx context.Context, c *websocket.Conn, cl *client, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-cl.out:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("write failed for connection %s: %v", cl.id, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping failed for connection %s, assuming disconnect: %v", cl.id, err)
				return
			}
		}
	}
}
