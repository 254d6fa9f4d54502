//go:build windows

package executil

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var codePageLabels = map[uint32]string{
	65001: "utf-8",
	932:   "shift_jis",
	936:   "gbk",
	949:   "euc-kr",
	950:   "big5",
	54936: "gb18030",
}

func localeCharset() string {
	acp := windows.GetACP()
	if label, ok := codePageLabels[acp]; ok {
		return label
	}
	return fmt.Sprintf("windows-%d", acp)
}
