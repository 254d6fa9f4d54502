//go:build !windows

package scanner

func logicalDrives() []string {
	return nil
}
