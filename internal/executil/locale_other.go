//go:build !windows

package executil

func localeCharset() string {
	return posixLocaleCharset()
}
