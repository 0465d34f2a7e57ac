package state

import (
	"time"

	"tabstyle/styler"
)

// newLocalEnv creates LocalEnv with defaults, configuration and logger are
// set up later by the command line processing.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		IDs:   styler.RandomIDs{},
	}
}
