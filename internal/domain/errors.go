// Package domain holds the types and errors shared across the session
// engine that don't belong to any single component.
package domain

import "errors"

var UnexpectedDatabaseError = errors.New("database-error")

var (
	ErrInvalidSigningAlg     = errors.New("invalid-signing-method")
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")

	UnexpectedTokenGenerationError   = errors.New("token-generation-error")
	UnexpectedTokenVerificationError = errors.New("token-verification-error")
)
