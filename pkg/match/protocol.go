package match

import "encoding/json"

// The structs below are the JSON payloads of the bidirectional event
// channel (§6). pkg/transport decodes/encodes the {event, payload}
// envelope; these are just the payload shapes.

type RegisterRequest struct {
	Account     string `json:"account"`
	DisplayName string `json:"displayName,omitempty"`
}

type RegisteredPayload struct {
	Account       string `json:"account"`
	DisplayName   string `json:"displayName"`
	EscrowAddress string `json:"escrowAddress"`
	TestMode      bool   `json:"testMode"`
}

type FindMatchRequest struct {
	GameType  GameType `json:"gameType"`
	BetAmount int64    `json:"betAmount"`
	GridSize  int      `json:"gridSize,omitempty"`
	Proof     string   `json:"proof,omitempty"`
}

type WaitingPayload struct {
	Msg       string   `json:"msg"`
	BetAmount int64    `json:"betAmount"`
	GameType  GameType `json:"gameType"`
}

type SearchCancelledPayload struct{}

type AcceptBetRequest struct {
	BetID string `json:"betId"`
	Proof string `json:"proof,omitempty"`
}

type LobbyWaitingEntry struct {
	ID        string   `json:"id"`
	GameType  GameType `json:"gameType"`
	BetAmount int64    `json:"betAmount"`
	Username  string   `json:"username"`
	Wallet    string   `json:"wallet"`
	GridSize  int      `json:"gridSize,omitempty"`
}

type LobbyActiveGame struct {
	GameType  GameType `json:"gameType"`
	BetAmount int64    `json:"betAmount"`
	Players   int      `json:"players"`
}

type LobbyUpdatePayload struct {
	Waiting     []LobbyWaitingEntry `json:"waiting"`
	ActiveGames []LobbyActiveGame   `json:"activeGames"`
	OnlineCount int                 `json:"onlineCount"`
}

type GetLobbyRequest struct{}

type PlayerInfo struct {
	Username string `json:"username"`
	Wallet   string `json:"wallet"`
}

type GameStartPayload struct {
	RoomID      string        `json:"roomId"`
	GameType    GameType      `json:"gameType"`
	BetAmount   int64         `json:"betAmount"`
	PlayerIndex int           `json:"playerIndex"`
	Players     [2]PlayerInfo `json:"players"`
}

// GameActionRequest carries a raw, game-specific action payload (§4.1);
// the server layer unmarshals it into the concrete engine's Action
// type before calling Room.ApplyMove. Which room it targets is
// resolved from the sender's own session binding (I1: a session is
// bound to at most one room), not from the payload.
type GameActionRequest struct {
	Action json.RawMessage
}

func (r *GameActionRequest) UnmarshalJSON(data []byte) error {
	r.Action = append([]byte(nil), data...)
	return nil
}

type GameOverPayload struct {
	Winner       string `json:"winner,omitempty"`
	WinnerWallet string `json:"winnerWallet,omitempty"`
	Payout       int64  `json:"payout"`
	IsDraw       bool   `json:"isDraw"`
	Resigned     bool   `json:"resigned,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

type ErrorMsgPayload struct {
	Msg string `json:"msg"`
}

type BalanceUpdatePayload struct {
	Balance int64 `json:"balance"`
}
