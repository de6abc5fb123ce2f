// Package audio inspects and post-processes the WAV files written by the
// speech engines.
package audio

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/wav"
)

// DefaultFormat is used for generated audio: 22.05kHz 16-bit mono, the
// format SAPI file streams default to.
var DefaultFormat = beep.Format{
	SampleRate:  22050,
	NumChannels: 1,
	Precision:   2,
}

// Info describes a decoded WAV file
type Info struct {
	SampleRate int
	Channels   int
	Samples    int
	Duration   time.Duration
}

// Inspect decodes the WAV file at path and reports its shape.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return Info{}, fmt.Errorf("failed to decode WAV %s: %w", path, err)
	}
	defer streamer.Close()

	return Info{
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		Samples:    streamer.Len(),
		Duration:   format.SampleRate.D(streamer.Len()),
	}, nil
}

// ApplyVolume scales the samples of the WAV file at path to volume percent
// (1..100) and rewrites it in place. 100 leaves the file untouched.
func ApplyVolume(path string, volume int) error {
	if volume < 1 || volume > 100 {
		return fmt.Errorf("volume must be between 1 and 100, got %d", volume)
	}
	if volume == 100 {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode WAV %s: %w", path, err)
	}

	gain := float64(volume) / 100 * decodeScale(format.Precision)

	buffer := beep.NewBuffer(format)
	buffer.Append(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   math.Log2(gain),
	})
	streamer.Close()
	f.Close()

	return encode(path, buffer.Streamer(0, buffer.Len()), format)
}

// decodeScale undoes the wav decoder's signed sample scale, which divides
// by 2^bits-1 where the encoder multiplies by 2^(bits-1)-1. Without it every
// decode and re-encode halves the amplitude.
func decodeScale(precision int) float64 {
	switch precision {
	case 2:
		return float64(1<<16-1) / float64(1<<15-1)
	case 3:
		return float64(1<<24-1) / float64(1<<23-1)
	default:
		return 1
	}
}

// WriteSilence writes d worth of silence to path in DefaultFormat.
func WriteSilence(path string, d time.Duration) error {
	n := DefaultFormat.SampleRate.N(d)
	return encode(path, beep.Silence(n), DefaultFormat)
}

func encode(path string, s beep.Streamer, format beep.Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := wav.Encode(out, s, format); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode WAV %s: %w", path, err)
	}

	return out.Close()
}
