package gamesession

import "github.com/TheAwiteb/xors/internal/protocol"

// ProtocolError wraps a wire-exact error code returned by a GameSession
// method; the caller (session.Session's dispatch) turns it into an
// error{data: code} frame instead of treating it as session-fatal.
type ProtocolError protocol.ErrorCode

func (e ProtocolError) Error() string { return string(e) }

func (e ProtocolError) Code() protocol.ErrorCode { return protocol.ErrorCode(e) }
