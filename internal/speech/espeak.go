// Cross-platform eSpeak implementation
package speech

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ESpeakEngine implements TTS using eSpeak/eSpeak-NG
type ESpeakEngine struct {
	path string
	run  runner
}

// newESpeakEngine creates a new eSpeak TTS engine
func newESpeakEngine() (*ESpeakEngine, error) {
	espeakPath, err := findESpeakExecutable()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &ESpeakEngine{path: espeakPath, run: execRunner}, nil
}

func findESpeakExecutable() (string, error) {
	candidates := []string{"espeak-ng", "espeak"}

	for _, candidate := range candidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("eSpeak executable not found in PATH")
}

func (e *ESpeakEngine) Name() string { return EngineTypeESpeak.String() }

func (e *ESpeakEngine) Voices(ctx context.Context) ([]Voice, error) {
	output, err := e.run(ctx, invocation{Name: e.path, Args: []string{"--voices"}})
	if err != nil {
		return nil, err
	}

	return parseESpeakVoices(string(output)), nil
}

func (e *ESpeakEngine) SynthesizeToFile(ctx context.Context, req Request) error {
	_, err := e.run(ctx, invocation{
		Name:  e.path,
		Args:  e.synthesisArgs(req),
		Stdin: req.Text,
	})
	return err
}

func (e *ESpeakEngine) synthesisArgs(req Request) []string {
	args := []string{
		"-v", req.Voice,
		"-s", strconv.Itoa(clamp(wordsPerMinute(req.Rate), 80, 450)),
		// eSpeak amplitude runs 0-200, 100 being normal
		"-a", strconv.Itoa(req.Volume),
		"-w", req.Path,
		"--stdin",
	}
	return args
}

// parseESpeakVoices reads the table printed by `espeak --voices`:
//
//	Pty Language Age/Gender VoiceName          File          Other Languages
func parseESpeakVoices(output string) []Voice {
	lines := strings.Split(output, "\n")
	voices := make([]Voice, 0)

	for i, line := range lines {
		// Skip header line
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		voice := Voice{Name: fields[3], Language: fields[1]}
		if _, gender, ok := strings.Cut(fields[2], "/"); ok && gender != "-" {
			voice.Gender = gender
		}
		voices = append(voices, voice)
	}

	return voices
}

// wordsPerMinute maps a -10..10 rate onto a speaking speed around the
// common 175 wpm default; each 10 steps triples or thirds it.
func wordsPerMinute(rate int) int {
	return int(math.Round(175 * math.Pow(3, float64(rate)/10)))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
