// Package decodeerr defines the sentinel errors for the semantic error
// categories of the FT8 receive pipeline. Mechanical I/O failures wrap
// github.com/farcloser/primordium/fault sentinels the same way the rest
// of this module's ambient stack does; the FT8-specific categories below
// have no general-purpose equivalent and are defined locally.
package decodeerr

import "errors"

var (
	// ErrBadInput means the audio could not be read, was the wrong
	// sample rate, or was truncated below one full slot. Fatal: the
	// caller must abort the run.
	ErrBadInput = errors.New("bad input audio")

	// ErrNoCandidates means coarse sync found nothing above syncmin.
	// Non-fatal: the caller should report an empty decode set.
	ErrNoCandidates = errors.New("no sync candidates above threshold")
)
