//go:build windows

package executil

import "syscall"

func windowsCmdLine(cmdLine string) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{CmdLine: cmdLine}
}
