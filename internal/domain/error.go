package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnknownEvent    = errors.New("unknown event kind")
	ErrQueueFull       = errors.New("dispatch queue full")

	// Delivery errors
	ErrNoDestination           = errors.New("no destination configured")
	ErrChannelRequiresBotToken = errors.New("channel delivery requires a bot token")
)
