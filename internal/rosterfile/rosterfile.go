// Package rosterfile reads batch enrollment rosters from YAML.
//
//	speakers:
//	  - name: Alice
//	    sample: alice.wav
//	  - name: Bob
//	    sample: voices/bob.wav
//	conversation: meeting.wav
//
// Relative paths resolve against the directory holding the roster file.
package rosterfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoSpeakers is returned when a roster lists nobody.
var ErrNoSpeakers = errors.New("roster lists no speakers")

// Speaker is one roster line.
type Speaker struct {
	Name   string `yaml:"name"`
	Sample string `yaml:"sample"`
}

// File is a parsed roster.
type File struct {
	Speakers     []Speaker `yaml:"speakers"`
	Conversation string    `yaml:"conversation"`
}

// Load reads and validates a roster file, resolving its paths.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w", path, err)
	}

	f.resolve(filepath.Dir(path))

	return &f, nil
}

// ParseSpeaker parses a NAME=PATH flag value.
func ParseSpeaker(s string) (Speaker, error) {
	name, path, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)

	if !ok || name == "" || path == "" {
		return Speaker{}, fmt.Errorf("speaker %q: expected NAME=PATH", s)
	}

	return Speaker{Name: name, Sample: path}, nil
}

func (f *File) validate() error {
	if len(f.Speakers) == 0 {
		return ErrNoSpeakers
	}

	var errs []error
	for i, sp := range f.Speakers {
		if strings.TrimSpace(sp.Name) == "" {
			errs = append(errs, fmt.Errorf("speaker %d: missing name", i+1))
		}
		if strings.TrimSpace(sp.Sample) == "" {
			errs = append(errs, fmt.Errorf("speaker %d: missing sample", i+1))
		}
	}

	return errors.Join(errs...)
}

// resolve trims every field, as ParseSpeaker does, and anchors relative
// paths at dir.
func (f *File) resolve(dir string) {
	for i := range f.Speakers {
		sp := &f.Speakers[i]
		sp.Name = strings.TrimSpace(sp.Name)
		sp.Sample = resolvePath(dir, strings.TrimSpace(sp.Sample))
	}

	f.Conversation = strings.TrimSpace(f.Conversation)
	if f.Conversation != "" {
		f.Conversation = resolvePath(dir, f.Conversation)
	}
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(dir, p)
}
