package transport

import "github.com/cockroachdb/errors"

var (
	ErrRegistrationTimeout = errors.New("transport: registration timed out")
	ErrRegistration        = errors.New("transport: invalid registration")
	ErrAckTimeout          = errors.New("transport: ack timed out")
	ErrPeerOverflow        = errors.New("transport: no free peer slot")
	ErrNacked              = errors.New("transport: message rejected")
	ErrClosed              = errors.New("transport: connection closed")
	ErrMessageTooLarge     = errors.New("transport: buffered message too large")
)
