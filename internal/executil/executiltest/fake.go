// Package executiltest provides a scripted executil.Runner for tests.
package executiltest

import (
	"fmt"
	"iter"
	"os/exec"
	"sync"

	"jvirtualenv/internal/executil"
)

// Fake replays canned results keyed by the exact command string.
// Commands without a scripted result fail as if the shell could not spawn them.
type Fake struct {
	Results map[string]*executil.Result
	Streams map[string][]string
	// StreamErrs is yielded after the scripted stream lines.
	StreamErrs map[string]error
	Paths      map[string]string

	mu    sync.Mutex
	calls []string
}

var _ executil.Runner = (*Fake)(nil)

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Results:    make(map[string]*executil.Result),
		Streams:    make(map[string][]string),
		StreamErrs: make(map[string]error),
		Paths:      make(map[string]string),
	}
}

// Calls returns the commands executed so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) record(command string) {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	f.mu.Unlock()
}

func (f *Fake) Run(command string) (*executil.Result, error) {
	f.record(command)
	res, ok := f.Results[command]
	if !ok {
		return nil, fmt.Errorf("fake: no result scripted for %q", command)
	}
	return res, nil
}

func (f *Fake) Stream(command string, okCodes ...int) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f.record(command)
		lines, ok := f.Streams[command]
		if !ok {
			yield("", fmt.Errorf("fake: no stream scripted for %q", command))
			return
		}
		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
		if err := f.StreamErrs[command]; err != nil {
			yield("", err)
		}
	}
}

func (f *Fake) LookPath(name string) (string, error) {
	if p, ok := f.Paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}
