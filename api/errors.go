package api

import "errors"

// Fatal error classes. Every error returned by this package wraps exactly one of them.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrProtocol      = errors.New("protocol error")
)
