package domain

import "errors"

// ErrSessionNotFound is returned when a user ID has no persisted state.
var ErrSessionNotFound = errors.New("session not found")

// ErrRateLimited is returned when the rate governor denies a turn. It is a
// throttling signal, not a fault; callers surface it as HTTP 429.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrCompletionUnavailable is the failure signal of the completion
// service (timeout, quota, malformed response). Responders recover from
// it locally; it never escapes a turn.
var ErrCompletionUnavailable = errors.New("completion service unavailable")

// ErrUnknownNode is returned when a caller addresses a node outside the
// closed graph set. The executor normalizes instead of failing, so this
// only surfaces from explicit lookups.
var ErrUnknownNode = errors.New("unknown graph node")
