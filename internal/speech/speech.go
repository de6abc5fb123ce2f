// Package speech wraps the text-to-speech engines the gateway can drive.
package speech

import (
	"context"
	"errors"
)

// Rate and volume bounds shared by every engine. These follow the Windows
// speech API scale; engines convert to their native units.
const (
	MinRate   = -10
	MaxRate   = 10
	MinVolume = 1
	MaxVolume = 100
)

var (
	// ErrUnavailable indicates the engine cannot run on this host
	ErrUnavailable = errors.New("speech engine not available")

	// ErrVoiceNotFound indicates the requested voice is not installed
	ErrVoiceNotFound = errors.New("voice not found")
)

type Config struct {
	Type                  string
	GoogleCredentialsFile string
	GoogleLanguage        string
}

// Voice is a synthesis profile reported by an engine
type Voice struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// Request describes one phrase to render to a WAV file
type Request struct {
	Path   string
	Rate   int
	Volume int
	Voice  string
	Text   string
}

// Engine interface for text-to-speech functionality
type Engine interface {
	Name() string
	Voices(ctx context.Context) ([]Voice, error)
	SynthesizeToFile(ctx context.Context, req Request) error
}

// HasVoice reports whether voices contains an exact match for name.
func HasVoice(voices []Voice, name string) bool {
	for _, v := range voices {
		if v.Name == name {
			return true
		}
	}
	return false
}
