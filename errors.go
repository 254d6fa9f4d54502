package main

import (
	"errors"
	"fmt"

	"jvirtualenv/internal/activate"
	"jvirtualenv/internal/config"
	"jvirtualenv/internal/java"
	"jvirtualenv/internal/scanner"
	"jvirtualenv/internal/store"
)

var errMissingTag = errors.New("missing --java=<tag>; run 'jvirtualenv list-tag' to see the tags")

// errorMessage maps the known failure kinds to the line shown to the user.
// Anything else is shown as is.
func errorMessage(err error) string {
	var conflict *config.DirectoryConflictError
	switch {
	case errors.As(err, &conflict):
		return fmt.Sprintf("directory %s conflict", conflict.Path)
	case errors.Is(err, store.ErrTagNotFound):
		return "No matched tag"
	case errors.Is(err, java.ErrNoJavaFound):
		return "No Java installation found; install a JDK or add its directory with 'jvirtualenv add-path'"
	case errors.Is(err, java.ErrScanInterrupted):
		return "Search interrupted; the tag list was not changed"
	case errors.Is(err, scanner.ErrScanFailed):
		return "Searching for JDKs failed: " + err.Error()
	case errors.Is(err, activate.ErrProjectExists):
		return err.Error() + "; you can use -f argument to continue."
	default:
		return err.Error()
	}
}
