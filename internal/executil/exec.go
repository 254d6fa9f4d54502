// Package executil runs external commands through the host shell and hands
// their output back as decoded lines.
package executil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"iter"
	"os/exec"
	"runtime"
	"strings"
)

// Result holds the output of a finished command.
type Result struct {
	Stdout   []string
	Stderr   []string
	ExitCode int
}

// Runner executes shell commands. The java and scanner packages depend on
// this interface so tests can replay canned tool output.
type Runner interface {
	// Run blocks until the command exits and returns both streams.
	// A non-zero exit is reported in Result.ExitCode, not as an error;
	// only a failure to spawn the shell is returned as an error.
	Run(command string) (*Result, error)

	// Stream yields stdout lines as the command produces them. After the
	// last line it yields a non-nil error if the command could not be
	// started or exited with a status other than the ones in okCodes.
	Stream(command string, okCodes ...int) iter.Seq2[string, error]

	// LookPath searches for an executable in PATH.
	LookPath(name string) (string, error)
}

// ExitError describes a streamed command that exited unexpectedly.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   []string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Command, e.ExitCode)
	if len(e.Stderr) > 0 && e.Stderr[0] != "" {
		msg += ": " + e.Stderr[0]
	}
	return msg
}

// Shell is the Runner backed by the host shell (sh -c, cmd /C).
type Shell struct {
	decoder *Decoder
	// MaxLine caps one streamed line; 0 means 1 MiB.
	MaxLine int
}

func (s *Shell) maxLine() int {
	if s.MaxLine > 0 {
		return s.MaxLine
	}
	return 1024 * 1024
}

// NewShell creates a Shell decoding output with the host locale encoding.
func NewShell() *Shell {
	return &Shell{decoder: NewLocaleDecoder()}
}

func shellCommand(command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		cmd := exec.Command("cmd")
		// cmd.exe does its own quote parsing, so the command line is passed raw
		cmd.SysProcAttr = windowsCmdLine(`cmd /S /C "` + command + `"`)
		return cmd
	}
	return exec.Command("/bin/sh", "-c", command)
}

// Run executes command through the shell and captures both streams.
func (s *Shell) Run(command string) (*Result, error) {
	cmd := shellCommand(command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		Stdout:   SplitLines(s.decoder.Decode(stdout.Bytes())),
		Stderr:   SplitLines(s.decoder.Decode(stderr.Bytes())),
		ExitCode: exitCode,
	}, nil
}

// Stream executes command through the shell and yields stdout line by line.
func (s *Shell) Stream(command string, okCodes ...int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		cmd := shellCommand(command)

		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield("", err)
			return
		}
		if err := cmd.Start(); err != nil {
			yield("", err)
			return
		}

		sc := bufio.NewScanner(stdout)
		sc.Buffer(make([]byte, 0, 64*1024), s.maxLine())
		for sc.Scan() {
			line := strings.TrimRight(s.decoder.Decode(sc.Bytes()), "\r")
			if !yield(line, nil) {
				// consumer stopped early; reap the process
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
				return
			}
		}

		if scanErr := sc.Err(); scanErr != nil {
			// the child may still be blocked on a full pipe
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			yield("", fmt.Errorf("read output of %s: %w", command, scanErr))
			return
		}

		err = cmd.Wait()
		if err == nil {
			return
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			yield("", err)
			return
		}
		for _, code := range okCodes {
			if exitErr.ExitCode() == code {
				return
			}
		}
		yield("", &ExitError{
			Command:  command,
			ExitCode: exitErr.ExitCode(),
			Stderr:   SplitLines(s.decoder.Decode(stderr.Bytes())),
		})
	}
}

// LookPath searches for an executable named name in PATH.
func (s *Shell) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// SplitLines splits decoded output on line separators, accepting both
// "\n" and "\r\n". A trailing separator does not produce an empty line.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Quote quotes a single argument for the host shell.
func Quote(arg string) string {
	if runtime.GOOS == "windows" {
		return `"` + arg + `"`
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
