package protocol

// ErrorCode is one of the wire-exact protocol error strings. The
// misspelling already_wellcomed is part of the wire contract per the
// existing client and is intentionally not "fixed".
type ErrorCode string

const (
	ErrInvalidBody               ErrorCode = "invalid_body"
	ErrUnknownEvent               ErrorCode = "unknown_event"
	ErrInvalidEventDataForEvent   ErrorCode = "invalid_event_data_for_event"
	ErrAlreadyInSearch            ErrorCode = "already_in_search"
	ErrAlreadyWellcomed           ErrorCode = "already_wellcomed"
	ErrChatNotAllowed             ErrorCode = "chat_not_allowed"
	ErrChatNotStarted             ErrorCode = "chat_not_started"
	ErrInvalidPublicKey           ErrorCode = "invalid_public_key"
	ErrInvalidChatMessage         ErrorCode = "invalid_chat_message"
	ErrInvalidChatSignature       ErrorCode = "invalid_chat_signature"
	ErrAlreadyInGame              ErrorCode = "already_in_game"
	ErrNotInGame                  ErrorCode = "not_in_game"
	ErrNotYourTurn                ErrorCode = "not_your_turn"
	ErrInvalidPlace               ErrorCode = "invalid_place"
	ErrMaxGamesReached            ErrorCode = "max_games_reached"
	ErrOther                      ErrorCode = "other"
)
