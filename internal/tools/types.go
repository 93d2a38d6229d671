package tools

// Status tags a Result as either a success or a business failure.
type Status string

const (
	// StatusSuccess marks a result whose Data carries the operation output.
	StatusSuccess Status = "success"

	// StatusError marks a result whose Error describes a business failure.
	StatusError Status = "error"
)

// ErrorCode carries the error taxonomy on the wire.
type ErrorCode string

const (
	// ErrCodeValidation tags input that failed domain validation.
	ErrCodeValidation ErrorCode = "ValidationError"

	// ErrCodeNotFound tags references to ids that do not exist.
	ErrCodeNotFound ErrorCode = "NotFound"

	// ErrCodeStoreIO tags persistence failures in the todo store.
	ErrCodeStoreIO ErrorCode = "StoreIOError"

	// ErrCodeInternal tags unexpected failures that fit no other code.
	ErrCodeInternal ErrorCode = "InternalError"
)

// Error describes a business failure inside a Result envelope.
type Error struct {
	// Code classifies the failure for programmatic handling.
	Code ErrorCode

	// Message is a human-readable description safe to show to clients.
	Message string

	// Details optionally carries structured context, such as the name of
	// the field that failed validation.
	Details any
}

// Result is the envelope every todo tool handler returns. Business
// failures are reported through Error with Status set to StatusError;
// a Go error is reserved for infrastructure problems.
type Result struct {
	// Status discriminates success from business failure.
	Status Status

	// Message optionally summarizes the outcome for display.
	Message string

	// Data carries the operation output on success.
	Data any

	// Error describes the failure when Status is StatusError.
	Error *Error
}
