// internal/handlers/server.go

// Package handlers binds websocket connections to the red-or-black
// rules engine: it registers players, enforces turn order, and fans
// engine outcomes out to the connected clients.
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/redorblack/server/internal/cache"
	"github.com/redorblack/server/internal/game"
	"github.com/redorblack/server/internal/protocol"
)

const maxUsernameLen = 32

// outChanSize bounds the per-connection send queue; a client that
// cannot drain it loses messages rather than stalling the game.
const outChanSize = 32

// Server is the session layer. It owns the connection registry and the
// rules engine behind a single mutex, so every request is applied to
// game state as one indivisible unit.
type Server struct {
	mu        sync.Mutex
	game      *game.Game
	clients   map[uuid.UUID]*client
	logger    *logrus.Logger
	historian *cache.Publisher
}

// client is one live websocket connection. Outbound messages are queued
// on out and drained by a single writer goroutine, which preserves the
// order they were produced in.
type client struct {
	id       uuid.UUID
	username string
	loggedIn bool
	out      chan []byte
	cancel   context.CancelFunc
}

// NewServer builds a session layer around the given engine. historian
// may be nil to disable the turn feed.
func NewServer(logger *logrus.Logger, g *game.Game, historian *cache.Publisher) *Server {
	g.Logger = logger
	return &Server{
		game:      g,
		clients:   make(map[uuid.UUID]*client),
		logger:    logger,
		historian: historian,
	}
}

// addConnection registers a fresh, not-yet-logged-in connection and
// returns its client record.
func (s *Server) addConnection(cancel context.CancelFunc) *client {
	c := &client{
		id:     uuid.New(),
		out:    make(chan []byte, outChanSize),
		cancel: cancel,
	}
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
	return c
}

// removeConnection tears a connection down and applies the departure to
// the game: if the departing player held the turn, everyone learns who
// left and whose turn it now is, then the refreshed roster goes out.
func (s *Server) removeConnection(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)

	if c.loggedIn {
		s.logger.Infof("removing player %s", c.username)
		if s.game.RemovePlayer(c.username) {
			s.broadcast(protocol.NewPlayerHasLeft(c.username))
			if next, ok := s.game.CurrentPlayer(); ok {
				s.broadcast(protocol.NewTurn(next))
			}
		}
	}
	s.broadcast(protocol.NewPlayers(s.playerList()))

	c.cancel()
	close(c.out)
}

// handleMessage decodes one inbound payload and applies it under the
// session lock. Undecodable payloads earn the sender an Error and
// nothing else.
func (s *Server) handleMessage(c *client, data []byte) {
	in, err := protocol.Decode(data)
	if err != nil {
		s.sendTo(c, protocol.NewError("Unrecognised message"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case in.Login != nil:
		s.handleLogin(c, in.Login.Username)
	case in.Guess != nil:
		s.handleGuess(c, in.Guess.CardColour)
	}
}

// handleLogin validates and registers a player, then replays the full
// game context to them. The new player must see the roster and penalty
// before the turn announcement they may have to act on.
func (s *Server) handleLogin(c *client, username string) {
	if c.loggedIn {
		s.logger.Warnf("connection %s attempted a second login as %q", c.id, username)
		s.sendTo(c, protocol.NewError("Already logged in"))
		return
	}
	if username == "" || len(username) > maxUsernameLen {
		s.sendTo(c, protocol.NewError("Invalid username"))
		return
	}

	s.logger.Infof("adding player %s", username)
	c.username = username
	c.loggedIn = true
	s.game.AddPlayer(username)

	s.broadcast(protocol.NewPlayers(s.playerList()))
	s.sendTo(c, protocol.NewLoggedIn())
	s.sendTo(c, protocol.NewPenalty(s.game.Penalty()))
	s.sendTo(c, protocol.NewRequestHistory(s.game.CardHistory()))
	s.sendTo(c, protocol.NewGameHistory(s.game.TurnHistory()))
	s.sendTo(c, protocol.NewCardsLeft(s.game.CardsLeft()))
	if current, ok := s.game.CurrentPlayer(); ok {
		s.sendTo(c, protocol.NewTurn(current))
	}
}

// handleGuess resolves a guess from the current player. Guesses from
// anyone else are dropped without a reply so out-of-turn senders learn
// nothing about the turn order; the drop is logged for diagnostics.
func (s *Server) handleGuess(c *client, colour game.CardColour) {
	current, ok := s.game.CurrentPlayer()
	if !ok || !c.loggedIn || c.username != current {
		s.logger.WithFields(logrus.Fields{
			"connection": c.id,
			"username":   c.username,
			"current":    current,
		}).Debug("ignoring out-of-turn guess")
		return
	}

	res := s.game.PlayTurn(colour)
	s.logger.Infof("%s guessed %s: correct=%t", current, colour, res.Correct)

	s.broadcast(protocol.NewGuessResult(res.Correct, res.Card, res.Penalty, current, colour))
	s.broadcast(protocol.NewCardsLeft(res.CardsLeft))
	if res.HasNext {
		s.broadcast(protocol.NewTurn(res.NextPlayer))
	}

	s.publishTurn(current, colour, res)
}

// playerList snapshots the logged-in connections. Callers hold the
// lock.
func (s *Server) playerList() []protocol.PlayerEntry {
	entries := make([]protocol.PlayerEntry, 0, len(s.clients))
	for _, c := range s.clients {
		if c.loggedIn {
			entries = append(entries, protocol.PlayerEntry{
				Username:     c.username,
				ConnectionID: c.id,
			})
		}
	}
	return entries
}

// sendTo queues a message for one connection. A full queue drops the
// message; the writer goroutine or read loop will notice a genuinely
// dead connection soon enough.
func (s *Server) sendTo(c *client, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Errorf("failed to marshal outbound message: %v", err)
		return
	}
	select {
	case c.out <- data:
	default:
		s.logger.Warnf("out channel full for connection %s, dropping message", c.id)
	}
}

// broadcast queues a message for every connection. Each client's queue
// is filled in production order, so per-connection causal order holds
// even though delivery is best-effort.
func (s *Server) broadcast(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Errorf("failed to marshal broadcast message: %v", err)
		return
	}
	for _, c := range s.clients {
		select {
		case c.out <- data:
		default:
			s.logger.Warnf("out channel full for connection %s, dropping broadcast", c.id)
		}
	}
}

// publishTurn hands the resolved turn to the historian feed without
// blocking the game.
func (s *Server) publishTurn(username string, guess game.CardColour, res game.TurnResult) {
	if s.historian == nil {
		return
	}
	record := cache.TurnRecord{
		Username:   username,
		Guess:      guess,
		Correct:    res.Correct,
		Card:       res.Card,
		Penalty:    res.Penalty,
		TurnNumber: s.turnNumberOfLastEntry(),
		Timestamp:  time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.historian.PublishTurn(ctx, record); err != nil {
			s.logger.Warnf("failed to publish turn record: %v", err)
		}
	}()
}

// turnNumberOfLastEntry reads the turn number just recorded by
// PlayTurn. Callers hold the lock.
func (s *Server) turnNumberOfLastEntry() int {
	items := s.game.TurnHistory()
	if len(items) == 0 {
		return 0
	}
	return items[len(items)-1].TurnNumber
}
