//go:build !windows

package opener

import "os/exec"

// configureCmd is a no-op outside Windows.
func configureCmd(cmd *exec.Cmd) {}
