package executil

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Decoder converts raw subprocess output to UTF-8 text.
type Decoder struct {
	enc encoding.Encoding
}

// NewLocaleDecoder returns a Decoder for the host's preferred encoding.
// Unknown or UTF-8 charsets decode as UTF-8.
func NewLocaleDecoder() *Decoder {
	return NewDecoder(localeCharset())
}

// NewDecoder returns a Decoder for the named charset (WHATWG label).
func NewDecoder(charset string) *Decoder {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return &Decoder{}
	}
	enc, err := htmlindex.Get(charset)
	if err != nil || enc == encoding.Nop {
		return &Decoder{}
	}
	return &Decoder{enc: enc}
}

// Decode converts b to a string. If the locale decoder rejects the input,
// the bytes are read as UTF-8 with invalid sequences replaced.
func (d *Decoder) Decode(b []byte) string {
	if d.enc != nil {
		out, err := d.enc.NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "�")
}

// charsetFromLocale extracts the codeset from a POSIX locale name such as
// "zh_CN.GB18030@euro".
func charsetFromLocale(locale string) string {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	i := strings.IndexByte(locale, '.')
	if i < 0 {
		return ""
	}
	return locale[i+1:]
}

func posixLocaleCharset() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return charsetFromLocale(v)
		}
	}
	return ""
}
