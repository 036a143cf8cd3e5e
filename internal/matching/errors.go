package matching

import "errors"

var (
	ErrViewerNotFound    = errors.New("user not found")
	ErrCandidateNotFound = errors.New("target user not found")
	ErrMissingMatchID    = errors.New("matchId is required")
	ErrInvalidAction     = errors.New("action must be like or unlike")
	ErrInvalidLocation   = errors.New("invalid coordinates")
)
