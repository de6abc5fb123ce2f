//go:build !windows

package speech

import "os/exec"

func configureCommand(cmd *exec.Cmd) {}
