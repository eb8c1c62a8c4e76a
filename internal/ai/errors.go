package ai

import "errors"

// Per-invocation failure kinds. All are caught at the gateway boundary and
// turned into a user-visible error update; none crash the process.
var (
	ErrSpawn     = errors.New("worker failed to start")
	ErrTimeout   = errors.New("worker timed out")
	ErrExit      = errors.New("worker exited without producing output")
	ErrReported  = errors.New("worker reported an error")
	ErrRemoteAPI = errors.New("completion api request failed")
)
