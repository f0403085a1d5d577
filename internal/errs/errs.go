// Package errs contains sentinel errors shared by the tracking, settings and sync layers.
package errs

import "errors"

var (
	// ErrAlreadyClockedIn rejects a clock-in while the user is already logged.
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNotClockedIn rejects a clock-out while the user is out.
	ErrNotClockedIn = errors.New("not clocked in")

	// ErrExplanationRequired asks the caller to collect an explanation (possibly empty)
	// before retrying a clock-in after a long absence.
	ErrExplanationRequired = errors.New("explanation required")

	// ErrForbidden indicates the actor's role may not write the configuration.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidConfig indicates a snapshot failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownStore indicates a store id that has no POS configuration slot.
	ErrUnknownStore = errors.New("unknown store")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsavedChanges is returned by an editing session guard while edits are pending.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrSyncTimeout indicates a synchronization run exceeded its deadline.
	ErrSyncTimeout = errors.New("sync timeout")

	// ErrRateLimited indicates a manual sync retry was throttled.
	ErrRateLimited = errors.New("rate limited")
)
