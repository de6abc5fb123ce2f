package speech

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"awesometts/internal/audio"
)

// SayEngine drives the macOS `say` command
type SayEngine struct {
	run runner
}

// newSayEngine creates a new macOS speech engine
func newSayEngine() (*SayEngine, error) {
	if _, err := exec.LookPath("say"); err != nil {
		return nil, fmt.Errorf("%w: say not found in PATH", ErrUnavailable)
	}
	return &SayEngine{run: execRunner}, nil
}

func (s *SayEngine) Name() string { return EngineTypeSay.String() }

func (s *SayEngine) Voices(ctx context.Context) ([]Voice, error) {
	output, err := s.run(ctx, invocation{Name: "say", Args: []string{"-v", "?"}})
	if err != nil {
		return nil, err
	}

	return parseSayVoices(string(output)), nil
}

func (s *SayEngine) SynthesizeToFile(ctx context.Context, req Request) error {
	_, err := s.run(ctx, invocation{
		Name:  "say",
		Args:  s.synthesisArgs(req),
		Stdin: req.Text,
	})
	if err != nil {
		return err
	}

	// say has no volume control when writing to a file
	return audio.ApplyVolume(req.Path, req.Volume)
}

func (s *SayEngine) synthesisArgs(req Request) []string {
	return []string{
		"-v", req.Voice,
		"-r", strconv.Itoa(wordsPerMinute(req.Rate)),
		"-o", req.Path,
		"--file-format=WAVE",
		"--data-format=LEI16@22050",
		"-f", "-",
	}
}

// Voice names may contain spaces, e.g.
//
//	Bad News            en_US    # The light you see at the end of the tunnel...
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}[_-][A-Za-z0-9_-]+)\s+#`)

func parseSayVoices(output string) []Voice {
	voices := make([]Voice, 0)

	for _, line := range strings.Split(output, "\n") {
		m := sayVoiceLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		voices = append(voices, Voice{Name: strings.TrimSpace(m[1]), Language: m[2]})
	}

	return voices
}
