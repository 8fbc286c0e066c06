//go:build windows

package launcher

import "os/exec"

func detach(*exec.Cmd) {}
