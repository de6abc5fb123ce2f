package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// invocation is a single external program call
type invocation struct {
	Name  string
	Args  []string
	Env   []string
	Stdin string
}

// runner executes an invocation and returns its stdout. Engines hold one
// so tests can substitute a fake.
type runner func(ctx context.Context, inv invocation) ([]byte, error)

func execRunner(ctx context.Context, inv invocation) ([]byte, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	if inv.Stdin != "" {
		cmd.Stdin = strings.NewReader(inv.Stdin)
	}
	configureCommand(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"program": inv.Name,
		"args":    len(inv.Args),
	}).Debug("running speech program")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%s failed: %w", inv.Name, err)
		}
		return nil, fmt.Errorf("%s failed: %w: %s", inv.Name, err, msg)
	}

	return stdout.Bytes(), nil
}
