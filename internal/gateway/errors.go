package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUsage indicates an unknown command or the wrong number of arguments
	ErrUsage = errors.New("usage: voice-list | speech-output <file.wav> <rate> <volume> <hex-voice> <hex-phrase>")

	// ErrInvalidArgument is wrapped by every ValidationError
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoVoices indicates the platform reported no installed voices
	ErrNoVoices = errors.New("no voices installed")

	// ErrPlatformUnavailable indicates no speech engine could be started
	ErrPlatformUnavailable = errors.New("speech platform unavailable")

	// ErrInvalidOutput indicates the engine wrote something other than a WAV file
	ErrInvalidOutput = errors.New("speech engine produced an unreadable WAV file")
)

// ValidationError describes one rejected speech-output parameter
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}
