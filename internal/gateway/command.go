package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"awesometts/internal/speech"
)

const (
	CommandVoiceList    = "voice-list"
	CommandSpeechOutput = "speech-output"
)

// Command is a fully validated gateway invocation
type Command interface {
	Name() string
}

// VoiceList asks for the installed voice names
type VoiceList struct{}

func (VoiceList) Name() string { return CommandVoiceList }

// SpeechOutput renders one phrase to a WAV file
type SpeechOutput struct {
	Path   string
	Rate   int
	Volume int
	Voice  string
	Phrase string
}

func (SpeechOutput) Name() string { return CommandSpeechOutput }

// Parse validates args (command name first) without touching the platform.
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: expecting a command", ErrUsage)
	}

	switch args[0] {
	case CommandVoiceList:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: %s takes no arguments", ErrUsage, CommandVoiceList)
		}
		return VoiceList{}, nil

	case CommandSpeechOutput:
		if len(args) != 6 {
			return nil, fmt.Errorf("%w: %s expects 5 arguments, got %d", ErrUsage, CommandSpeechOutput, len(args)-1)
		}
		return ParseSpeechOutput(args[1:])

	default:
		return nil, fmt.Errorf("%w: unrecognized command %q", ErrUsage, args[0])
	}
}

// ParseSpeechOutput validates the five positional speech-output arguments.
func ParseSpeechOutput(args []string) (SpeechOutput, error) {
	if len(args) != 5 {
		return SpeechOutput{}, fmt.Errorf("%w: %s expects 5 arguments, got %d", ErrUsage, CommandSpeechOutput, len(args))
	}

	path := args[0]
	if !strings.HasSuffix(strings.ToLower(path), ".wav") {
		return SpeechOutput{}, &ValidationError{Field: "file", Value: path, Reason: "must end in .wav"}
	}

	rate, err := parseBounded("rate", args[1], speech.MinRate, speech.MaxRate)
	if err != nil {
		return SpeechOutput{}, err
	}

	volume, err := parseBounded("volume", args[2], speech.MinVolume, speech.MaxVolume)
	if err != nil {
		return SpeechOutput{}, err
	}

	voice, err := DecodeHex(args[3])
	if err != nil {
		return SpeechOutput{}, &ValidationError{Field: "voice", Value: args[3], Reason: err.Error()}
	}

	phrase, err := DecodeHex(args[4])
	if err != nil {
		return SpeechOutput{}, &ValidationError{Field: "phrase", Value: args[4], Reason: err.Error()}
	}

	return SpeechOutput{
		Path:   path,
		Rate:   rate,
		Volume: volume,
		Voice:  voice,
		Phrase: phrase,
	}, nil
}

func parseBounded(field, raw string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not an integer"}
	}
	if v < lo || v > hi {
		return 0, &ValidationError{Field: field, Value: raw, Reason: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}
	return v, nil
}
