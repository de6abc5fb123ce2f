package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// SAPIEngine implements Windows SAPI TTS through System.Speech.
//
// The phrase, voice and output path reach PowerShell as environment
// variables so no user text is ever spliced into the script.
type SAPIEngine struct {
	powershell string
	run        runner
}

const sapiPrelude = `$ErrorActionPreference = 'Stop'
[Console]::OutputEncoding = [System.Text.Encoding]::UTF8
Add-Type -AssemblyName System.Speech
$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer
`

const sapiVoiceListScript = sapiPrelude + `try {
	$synth.GetInstalledVoices() | Where-Object { $_.Enabled } | ForEach-Object {
		$info = $_.VoiceInfo
		[Console]::Out.WriteLine($info.Name + "` + "`t" + `" + $info.Culture.Name + "` + "`t" + `" + $info.Gender)
	}
} finally {
	$synth.Dispose()
}
`

const sapiSpeechScript = sapiPrelude + `try {
	$synth.SelectVoice($env:AWESOMETTS_VOICE)
	$synth.Rate = [int]$env:AWESOMETTS_RATE
	$synth.Volume = [int]$env:AWESOMETTS_VOLUME
	$synth.SetOutputToWaveFile($env:AWESOMETTS_OUTPUT)
	$synth.Speak($env:AWESOMETTS_PHRASE)
} finally {
	$synth.Dispose()
}
`

// newSAPIEngine creates a new Windows SAPI TTS engine
func newSAPIEngine(powershell string) (*SAPIEngine, error) {
	path, err := exec.LookPath(powershell)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", ErrUnavailable, powershell, err)
	}
	return &SAPIEngine{powershell: path, run: execRunner}, nil
}

func (s *SAPIEngine) Name() string { return EngineTypeSAPI.String() }

func (s *SAPIEngine) Voices(ctx context.Context) ([]Voice, error) {
	output, err := s.run(ctx, s.script(sapiVoiceListScript, nil))
	if err != nil {
		return nil, err
	}

	return parseSAPIVoices(string(output)), nil
}

func (s *SAPIEngine) SynthesizeToFile(ctx context.Context, req Request) error {
	env := []string{
		"AWESOMETTS_VOICE=" + req.Voice,
		"AWESOMETTS_RATE=" + strconv.Itoa(req.Rate),
		"AWESOMETTS_VOLUME=" + strconv.Itoa(req.Volume),
		"AWESOMETTS_OUTPUT=" + req.Path,
		"AWESOMETTS_PHRASE=" + req.Text,
	}

	_, err := s.run(ctx, s.script(sapiSpeechScript, env))
	return err
}

func (s *SAPIEngine) script(body string, env []string) invocation {
	return invocation{
		Name: s.powershell,
		Args: []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", body},
		Env:  env,
	}
}

// parseSAPIVoices reads name<TAB>culture<TAB>gender lines.
func parseSAPIVoices(output string) []Voice {
	voices := make([]Voice, 0)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "\t")
		voice := Voice{Name: parts[0]}
		if len(parts) > 1 {
			voice.Language = parts[1]
		}
		if len(parts) > 2 {
			voice.Gender = parts[2]
		}
		voices = append(voices, voice)
	}

	return voices
}
