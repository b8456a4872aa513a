package dict

import "errors"

var (
	// ErrKeyExists is returned by Add when the key is already present.
	// It is always caller-recoverable; use Replace to overwrite.
	ErrKeyExists = errors.New("dict: key already exists")

	// ErrRehashInProgress is returned by Expand and TryExpand when a
	// rehash is already running. Callers should retry once the current
	// migration has completed.
	ErrRehashInProgress = errors.New("dict: rehash already in progress")

	// ErrRehashPaused is returned by Expand and TryExpand while rehashing
	// is paused (for example by an open safe iterator).
	ErrRehashPaused = errors.New("dict: rehashing is paused")

	// ErrExpandDenied is returned when the type descriptor's ExpandAllowed
	// predicate rejects the allocation, typically under memory pressure.
	ErrExpandDenied = errors.New("dict: expansion denied by allocation gate")

	// ErrInvalidSize is returned by TryExpand when the requested size
	// cannot hold the entries currently stored.
	ErrInvalidSize = errors.New("dict: requested size smaller than current usage")
)
