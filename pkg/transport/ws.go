// Package transport serves the bidirectional JSON event channel over
// WebSocket (§6) and the small REST surface alongside it. The
// WebSocket plumbing itself is grounded on the teacher pack's
// KWARC-kalah-game/server/go-kgp/web/ws.go, which drives
// nhooyr.io/websocket directly rather than gorilla/websocket.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/vctt94/matcharena/pkg/match"
	ws "nhooyr.io/websocket"
)

// envelope is the wire shape of every frame on the event channel:
// {"event": "...", "payload": {...}}.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Transport wires the WebSocket/HTTP surface to a match.Server.
type Transport struct {
	Server        *match.Server
	Log           slog.Logger
	EscrowAddress string

	counter int
}

func New(server *match.Server, escrowAddress string, log slog.Logger) *Transport {
	return &Transport{Server: server, EscrowAddress: escrowAddress, Log: log}
}

// ServeWS upgrades the connection and runs its read/write pumps until
// the client disconnects.
func (t *Transport) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		t.Log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	t.counter++
	sessionID := fmt.Sprintf("session_%d", time.Now().UnixNano())
	session := t.Server.Sessions.Create(sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go t.writePump(ctx, conn, session)
	t.readPump(ctx, conn, session)

	t.Server.Disconnect(session)
	conn.Close(ws.StatusNormalClosure, "session ended")
}

func (t *Transport) writePump(ctx context.Context, conn *ws.Conn, session *match.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case out, ok := <-session.Send:
			if !ok {
				return
			}
			raw, err := json.Marshal(out.Payload)
			if err != nil {
				t.Log.Errorf("marshal outbound %s: %v", out.Event, err)
				continue
			}
			frame, err := json.Marshal(envelope{Event: out.Event, Payload: raw})
			if err != nil {
				continue
			}
			if err := conn.Write(ctx, ws.MessageText, frame); err != nil {
				return
			}
		}
	}
}

func (t *Transport) readPump(ctx context.Context, conn *ws.Conn, session *match.Session) {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if msgType != ws.MessageText {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.sendError(session, match.NewError(match.KindInvalidAction, "malformed frame"))
			continue
		}
		t.dispatch(session, env)
	}
}

func (t *Transport) dispatch(session *match.Session, env envelope) {
	switch env.Event {
	case "register":
		var req match.RegisterRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			t.sendError(session, match.NewError(match.KindInvalidAccount, "malformed register"))
			return
		}
		payload, err := t.Server.Register(session, req)
		if err != nil {
			t.sendError(session, err)
			return
		}
		session.Send <- match.Outbound{Event: "registered", Payload: *payload}

	case "find_match":
		var req match.FindMatchRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			t.sendError(session, match.NewError(match.KindInvalidBetAmount, "malformed find_match"))
			return
		}
		start, waiting, err := t.Server.FindMatch(session, req)
		if err != nil {
			t.sendError(session, err)
			return
		}
		if waiting != nil {
			session.Send <- match.Outbound{Event: "waiting", Payload: *waiting}
			return
		}
		session.Send <- match.Outbound{Event: "game_start", Payload: *start}

	case "cancel_search":
		payload, _ := t.Server.CancelSearch(session)
		session.Send <- match.Outbound{Event: "search_cancelled", Payload: *payload}

	case "accept_bet":
		var req match.AcceptBetRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			t.sendError(session, match.NewError(match.KindInvalidBetAmount, "malformed accept_bet"))
			return
		}
		start, err := t.Server.AcceptBet(session, req)
		if err != nil {
			t.sendError(session, err)
			return
		}
		session.Send <- match.Outbound{Event: "game_start", Payload: *start}

	case "game_action":
		var req match.GameActionRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			t.sendError(session, match.NewError(match.KindInvalidAction, "malformed game_action"))
			return
		}
		if err := t.Server.GameAction(session, req); err != nil {
			t.sendError(session, err)
		}

	case "get_lobby":
		payload := t.Server.GetLobby()
		session.Send <- match.Outbound{Event: "lobby_update", Payload: *payload}

	default:
		t.sendError(session, match.NewError(match.KindInvalidAction, "unknown event "+env.Event))
	}
}

// sendError emits an error_msg frame to the originating session only
// (§7). Error()'s "kind: detail" form is kept in the message text so
// clients that want to branch on the kind still can, while the wire
// shape stays the single-field {msg} the event channel defines (§6).
func (t *Transport) sendError(session *match.Session, err error) {
	session.Send <- match.Outbound{
		Event:   "error_msg",
		Payload: match.ErrorMsgPayload{Msg: err.Error()},
	}
}
