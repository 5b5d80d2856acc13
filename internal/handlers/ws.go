package handlers

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/mines"
	"github.com/vancomm/sweeper/internal/store"
)

// NewUpgrader accepts any origin when allowedOrigins is empty.
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, origin)
		},
	}
}

// WSReply is written after every message. Result holds the last primary or
// secondary action result of the batch, if any.
type WSReply struct {
	Result  any            `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
	Session GameSessionDTO `json:"session"`
}

type WSHandler struct {
	game     *GameHandler
	upgrader websocket.Upgrader
}

func NewWSHandler(game *GameHandler, upgrader websocket.Upgrader) *WSHandler {
	return &WSHandler{game: game, upgrader: upgrader}
}

func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	e, ok := h.game.entry(w, r)
	if !ok {
		return
	}
	log := h.game.log.WithField("sessionId", e.ID)

	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("unable to upgrade connection")
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("unable to read message")
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		reply := h.execute(r.Context(), e, string(message))
		if err := c.WriteJSON(reply); err != nil {
			log.WithError(err).Warn("unable to write message")
			return
		}
	}
}

// execute runs commands in order and stops at the first rejected one.
func (h *WSHandler) execute(ctx context.Context, e *store.Entry, msg string) WSReply {
	var reply WSReply

	cmds, err := parseCommands(msg)
	if err != nil {
		reply.Error = err.Error()
		reply.Session = NewGameSessionDTO(e.Snapshot())
		return reply
	}

	for _, c := range cmds {
		var err error
		switch c.name {
		case "o":
			var res mines.ActionResult
			res, _, err = h.game.reveal(ctx, e, c.pos)
			if err == nil {
				reply.Result = res
			}
		case "f":
			var res mines.FlagResult
			res, _, err = h.game.flag(e, c.pos)
			if err == nil {
				reply.Result = res
			}
		case "n":
			_, err = h.game.restart(e)
			reply.Result = nil
		}
		if err != nil {
			h.game.log.WithFields(logrus.Fields{
				"sessionId": e.ID,
				"command":   c.name,
			}).WithError(err).Debug("command rejected")
			reply.Error = err.Error()
			break
		}
	}

	reply.Session = NewGameSessionDTO(e.Snapshot())
	return reply
}
