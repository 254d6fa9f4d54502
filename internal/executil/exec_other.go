//go:build !windows

package executil

import "syscall"

func windowsCmdLine(string) *syscall.SysProcAttr {
	return nil
}
