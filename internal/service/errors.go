package service

import "errors"

// Sentinel errors surfaced by services. Handlers map these to opaque
// error kinds at the boundary; raw upstream error text never leaves
// the service layer.
var (
	// ErrMissingAPIKey means the upstream generation credential is not
	// configured. Server misconfiguration, not caller-fault.
	ErrMissingAPIKey = errors.New("missing openrouter api key")

	// ErrAIUnavailable covers network failures, timeouts, non-2xx
	// statuses and undecodable response envelopes from the generation
	// service. The caller cannot distinguish "model down" from "model
	// slow" and may simply retry.
	ErrAIUnavailable = errors.New("ai service unavailable")

	// ErrAIInvalidOutput means the generation service answered but its
	// output could not be validated against the course schema. Never
	// retried automatically.
	ErrAIInvalidOutput = errors.New("ai returned invalid output")

	// ErrInvalidToken means the identity provider rejected the bearer
	// token. Details are deliberately not surfaced.
	ErrInvalidToken = errors.New("invalid token")

	ErrCourseNotFound = errors.New("course not found")
	ErrForbidden      = errors.New("forbidden")
	ErrUserNotFound   = errors.New("user not found")
)
