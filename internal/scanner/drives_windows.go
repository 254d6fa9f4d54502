//go:build windows

package scanner

import "golang.org/x/sys/windows"

// logicalDrives returns the root of each mounted drive, e.g. "C:".
func logicalDrives() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return []string{"C:"}
	}
	var drives []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) != 0 {
			drives = append(drives, string(rune('A'+i))+":")
		}
	}
	return drives
}
