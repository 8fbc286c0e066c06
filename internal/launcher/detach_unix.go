//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// detach moves the child into its own process group so terminal signals
// sent to the palette do not reach it.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
