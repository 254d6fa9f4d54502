// Package env inspects the process environment: privileges for writing
// the global configuration and the variables an activate script exports.
package env

import "os"

// Variables exported by the activate scripts.
const (
	VirtualEnvVar = "VIRTUAL_ENV"
	JavaTagVar    = "JAVA_TAG"
	JavaHomeVar   = "JAVA_HOME"
)

// Session describes the project environment active in the current shell.
type Session struct {
	VirtualEnv string
	Tag        string
	JavaHome   string
}

// Active returns the activated project, if any. ok is false when no
// activate script has been sourced.
func Active() (Session, bool) {
	return activeFrom(os.Getenv)
}

func activeFrom(getenv func(string) string) (Session, bool) {
	s := Session{
		VirtualEnv: getenv(VirtualEnvVar),
		Tag:        getenv(JavaTagVar),
		JavaHome:   getenv(JavaHomeVar),
	}
	if s.VirtualEnv == "" || s.Tag == "" {
		return Session{}, false
	}
	return s, true
}
