// Package gateway validates command-line invocations from the add-on host
// and turns them into calls against a speech engine.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"awesometts/internal/audio"
	"awesometts/internal/speech"

	"github.com/sirupsen/logrus"
)

// DefaultVoiceListMarker precedes the voice names on stdout so the host can
// skip any banner the platform prints first.
const DefaultVoiceListMarker = "__AWESOMETTS_VOICE_LIST__"

// EngineFactory builds the speech engine. It is only called once the
// arguments have been validated.
type EngineFactory func(ctx context.Context) (speech.Engine, error)

// Gateway dispatches one validated command to a speech engine
type Gateway struct {
	newEngine EngineFactory
	out       io.Writer
	marker    string
	verify    bool
}

type Option func(*Gateway)

// WithOutput sets where voice-list writes; defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(g *Gateway) { g.out = w }
}

func WithVoiceListMarker(marker string) Option {
	return func(g *Gateway) {
		if marker != "" {
			g.marker = marker
		}
	}
}

// WithVerifyOutput toggles decoding the WAV after synthesis.
func WithVerifyOutput(verify bool) Option {
	return func(g *Gateway) { g.verify = verify }
}

func New(factory EngineFactory, opts ...Option) *Gateway {
	g := &Gateway{
		newEngine: factory,
		out:       os.Stdout,
		marker:    DefaultVoiceListMarker,
		verify:    true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run parses args and executes the command.
func (g *Gateway) Run(ctx context.Context, args []string) error {
	cmd, err := Parse(args)
	if err != nil {
		return err
	}
	return g.Execute(ctx, cmd)
}

// Execute runs an already parsed command.
func (g *Gateway) Execute(ctx context.Context, cmd Command) error {
	engine, err := g.engine(ctx)
	if err != nil {
		return err
	}
	if closer, ok := engine.(io.Closer); ok {
		defer closer.Close()
	}

	switch c := cmd.(type) {
	case VoiceList:
		return g.voiceList(ctx, engine)
	case SpeechOutput:
		return g.speechOutput(ctx, engine, c)
	default:
		return fmt.Errorf("%w: unsupported command %T", ErrUsage, cmd)
	}
}

func (g *Gateway) engine(ctx context.Context) (speech.Engine, error) {
	engine, err := g.newEngine(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlatformUnavailable, err)
	}
	return engine, nil
}

func (g *Gateway) voices(ctx context.Context, engine speech.Engine) ([]speech.Voice, error) {
	voices, err := engine.Voices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlatformUnavailable, err)
	}
	if len(voices) == 0 {
		return nil, ErrNoVoices
	}
	return voices, nil
}

func (g *Gateway) voiceList(ctx context.Context, engine speech.Engine) error {
	voices, err := g.voices(ctx, engine)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"engine": engine.Name(),
		"voices": len(voices),
	}).Debug("listing voices")

	if _, err := fmt.Fprintln(g.out, g.marker); err != nil {
		return err
	}
	for _, v := range voices {
		if _, err := fmt.Fprintln(g.out, v.Name); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) speechOutput(ctx context.Context, engine speech.Engine, c SpeechOutput) error {
	voices, err := g.voices(ctx, engine)
	if err != nil {
		return err
	}
	if !speech.HasVoice(voices, c.Voice) {
		return fmt.Errorf("%w: %q", speech.ErrVoiceNotFound, c.Voice)
	}

	log := logrus.WithFields(logrus.Fields{
		"engine": engine.Name(),
		"voice":  c.Voice,
		"file":   c.Path,
	})

	// Only clean up a file this call created
	_, statErr := os.Stat(c.Path)
	created := errors.Is(statErr, os.ErrNotExist)

	err = engine.SynthesizeToFile(ctx, speech.Request{
		Path:   c.Path,
		Rate:   c.Rate,
		Volume: c.Volume,
		Voice:  c.Voice,
		Text:   c.Phrase,
	})
	if err == nil && g.verify {
		err = verify(c.Path, log)
	}
	if err != nil && created {
		if rmErr := os.Remove(c.Path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.WithError(rmErr).Warn("failed to remove partial output")
		}
	}
	return err
}

func verify(path string, log *logrus.Entry) error {
	info, err := audio.Inspect(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	log.WithFields(logrus.Fields{
		"sample_rate": info.SampleRate,
		"duration":    info.Duration,
	}).Debug("speech written")
	return nil
}
