package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"awesometts/internal/gateway"
	"awesometts/internal/speech"
)

func execute(t *testing.T, args ...string) (string, int, error) {
	t.Helper()

	calls := 0
	var out bytes.Buffer
	gw := gateway.New(func(ctx context.Context) (speech.Engine, error) {
		calls++
		return speech.NewMockEngine("Microsoft Zira"), nil
	}, gateway.WithOutput(&out))

	cmd := newRootCmd(gw)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), calls, err
}

func TestRootWithoutCommandFails(t *testing.T) {
	_, calls, err := execute(t)
	if !errors.Is(err, gateway.ErrUsage) {
		t.Fatalf("Execute() error = %v, want ErrUsage", err)
	}
	if calls != 0 {
		t.Errorf("engine built %d times without a command", calls)
	}
}

func TestRootRejectsInvalidInvocations(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"speak"}},
		{name: "voice-list with argument", args: []string{"voice-list", "extra"}},
		{name: "speech-output missing phrase", args: []string{"speech-output", "out.wav", "0", "100", "0041"}},
		{name: "speech-output rate out of range", args: []string{"speech-output", "out.wav", "-11", "100", "0041", "0041"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, calls, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("Execute(%v) succeeded", tt.args)
			}
			if calls != 0 {
				t.Errorf("engine built %d times for invalid input", calls)
			}
		})
	}
}

func TestRootVoiceList(t *testing.T) {
	out, _, err := execute(t, "voice-list")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != gateway.DefaultVoiceListMarker+"\nMicrosoft Zira\n" {
		t.Errorf("output = %q", out)
	}
}

func TestRootSpeechOutputNegativeRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phrase.wav")
	voice, err := gateway.EncodeHex("Microsoft Zira")
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "speech-output", path, "-5", "80", voice, "0041"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}
