//go:build windows

package speech

import (
	"os/exec"
	"syscall"
)

// configureCommand keeps PowerShell from flashing a console window
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
