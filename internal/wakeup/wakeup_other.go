//go:build !linux && !windows

package wakeup

import "time"

// New returns the polling source. macOS change detection (NSPasteboard
// changeCount) needs cgo, and the raw read path already dedupes by identity
// hash, so a plain ticker is the portable default here.
func New(pollInterval time.Duration) Source {
	return NewPoll(pollInterval)
}
