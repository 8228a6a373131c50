package game

import "errors"

// The engine rejects illegal intents with these errors. All of them are
// local, recoverable rejections: state is left unmutated and the match
// keeps running. ErrMatchCorrupted is the exception: it means the card
// conservation invariant broke, the match is unrecoverable, and every
// further mutation is refused.
var (
	ErrIllegalBid     = errors.New("illegal bid")
	ErrIllegalCard    = errors.New("illegal card")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrWrongPhase     = errors.New("action not valid in current phase")
	ErrUnknownPlayer  = errors.New("unknown player")
	ErrMatchCorrupted = errors.New("match state corrupted")
)
