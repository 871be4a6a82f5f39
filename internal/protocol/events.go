package protocol

import "github.com/TheAwiteb/xors/internal/domain"

// Client event tags, carried in Envelope.Event for frames read from a
// connection.
const (
	EventSearch       = "search"
	EventPlay         = "play"
	EventWelcome      = "welcome"
	EventChat         = "chat"
	EventRematch      = "rematch"
	EventCancelSearch = "cancel_search"
	EventLeaveGame    = "leave_game"
)

// Server event tags, carried in Envelope.Event for frames written to a
// connection.
const (
	EventGameFound     = "game_found"
	EventYourTurn      = "your_turn"
	EventRoundStart    = "round_start"
	EventRoundEnd      = "round_end"
	EventAutoPlay      = "auto_play"
	EventGameOver      = "game_over"
	EventRematchTimeout = "rematch_timeout"
	EventError         = "error"
)

// --- Client payloads ---

type PlayData struct {
	Place int `json:"place"`
}

type WelcomeData struct {
	PublicKey []byte `json:"public_key"`
}

type ChatData struct {
	EncryptedMessage []byte `json:"encrypted_message"`
	Signature        []byte `json:"signature"`
}

// --- Server payloads ---

type GameFoundData struct {
	XPlayer domain.PlayerId `json:"x_player"`
	OPlayer domain.PlayerId `json:"o_player"`
}

type YourTurnData struct {
	AutoPlayAfter int64 `json:"auto_play_after"`
}

type RoundStartData struct {
	Round int `json:"round"`
}

type RoundEndData struct {
	Round  int              `json:"round"`
	Winner *domain.PlayerId `json:"winner"`
}

type ServerPlayData struct {
	Place  int             `json:"place"`
	Player domain.PlayerId `json:"player"`
}

type AutoPlayData struct {
	Place int `json:"place"`
}

type GameOverData struct {
	GameId domain.GameId          `json:"uuid"`
	Winner *domain.PlayerId       `json:"winner"`
	Reason domain.GameOverReason  `json:"reason"`
}

type ErrorData struct {
	Data ErrorCode `json:"data"`
}
