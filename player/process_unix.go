//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// mpvCommand builds the mpv child in its own process group, so a terminal
// Ctrl+C reaches tvzap only and teardown stays in our hands.
func mpvCommand(binary string, args []string) *exec.Cmd {
	cmd := exec.Command(binary, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

// killGroup kills mpv together with anything it spawned, e.g. yt-dlp.
func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
