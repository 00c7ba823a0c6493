package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrDisplayNameTaken   = errors.New("display name already in use")
	ErrSessionPersistence = errors.New("session persistence failed")

	// ErrUntrustedIdentity rejects an external identity assertion that could
	// not be verified.
	ErrUntrustedIdentity = errors.New("external identity not verified")
	// ErrExternalLoginDisabled is returned when no identity provider is configured.
	ErrExternalLoginDisabled = errors.New("external login not configured")

	// ErrMalformedSession is never surfaced to callers; the session store
	// downgrades it to "no session".
	ErrMalformedSession = errors.New("malformed persisted session")

	// ErrSlotEmpty is returned by session slots when nothing is stored under a key.
	ErrSlotEmpty = errors.New("session slot empty")
)
