package rhythm

import "errors"

var (
	// ErrRunEnded is returned when input arrives after the run has ended.
	ErrRunEnded = errors.New("rhythm: run ended")
	// ErrNotRunning is returned when input arrives before Start or while paused.
	ErrNotRunning = errors.New("rhythm: run not in progress")
	// ErrAudioUnavailable reports that no sound engine can be driven.
	ErrAudioUnavailable = errors.New("rhythm: audio unavailable")
)
