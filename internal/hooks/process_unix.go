// ABOUTME: Unix process group handling so a timed-out hook takes its children with it
// ABOUTME: Hook shells run in their own group and are killed with SIGKILL on cancel

//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcGroup signals the negative PID, which addresses the whole group.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
