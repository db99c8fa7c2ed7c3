//go:build windows

package opener

import (
	"os/exec"
	"syscall"
)

// configureCmd hides the console window of the child process.
func configureCmd(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
