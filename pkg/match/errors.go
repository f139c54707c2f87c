package match

// Kind enumerates the error_msg taxonomy of the event channel. Engine
// rejections carry their own engine.RejectKind; Kind covers everything
// above that layer: validation, auth/state, payment, and matchmaking
// failures.
type Kind string

const (
	KindInvalidAccount      Kind = "invalid-account"
	KindInvalidBetAmount    Kind = "invalid-bet-amount"
	KindMissingProof        Kind = "missing-proof"
	KindUnknownGameType     Kind = "unknown-game-type"
	KindRegisterFirst       Kind = "register-first"
	KindNoRoom              Kind = "no-room"
	KindProofReplay         Kind = "proof-replay"
	KindProofNotFound       Kind = "proof-not-found"
	KindProofInsufficient   Kind = "proof-insufficient"
	KindProofWrongRecipient Kind = "proof-wrong-recipient"
	KindBetTaken            Kind = "bet-taken"
	KindCannotAcceptOwn     Kind = "cannot-accept-own-bet"
	KindInvalidAction       Kind = "invalid-action"
)

// Error is the structured error the session/server layer returns;
// pkg/transport maps it onto an error_msg frame sent only to the
// originating session (§7: "engine rejections return to the
// originating session only").
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return string(e.Kind) + ": " + e.Msg
	}
	return string(e.Kind)
}

func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}
