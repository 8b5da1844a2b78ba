// Package services defines the business logic for conversations and their
// messages. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

var (
	// ErrConversationNotFound indicates that the requested conversation does
	// not exist or is not accessible to the current user.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrConversationEnded is returned when a message is posted to a
	// conversation that already reached a terminal farewell.
	ErrConversationEnded = errors.New("conversation has ended")

	// ErrEmptyMessage is returned when a posted message contains no text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrTooLong is returned when a posted message exceeds the maximum
	// configured length limit.
	ErrTooLong = errors.New("message too long")
)
