package session

import "github.com/TheAwiteb/xors/internal/domain"
import "github.com/TheAwiteb/xors/internal/protocol"

// Dispatcher is implemented by the engine; Session calls it once per
// decoded inbound frame. A non-empty protocol.ErrorCode return becomes
// an error{data: code} frame back to the same session — the session
// package never needs to know about matchmaker or gamesession types.
type Dispatcher interface {
	Search(s *Session) protocol.ErrorCode
	CancelSearch(s *Session) protocol.ErrorCode
	Play(s *Session, place int) protocol.ErrorCode
	Welcome(s *Session, publicKey []byte) protocol.ErrorCode
	Chat(s *Session, envelope domain.ChatEnvelope) protocol.ErrorCode
	Rematch(s *Session) protocol.ErrorCode
	LeaveGame(s *Session) protocol.ErrorCode
	// Disconnect is called once the read pump exits, regardless of
	// cause (client close, network error, or server-initiated close).
	Disconnect(s *Session)
}
