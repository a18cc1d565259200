package seq

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Library is a named collection of poses and sequences, e.g.
//
//	pose_size: 2
//	poses:
//	  stand: [512, 512]
//	  crouch: [300, 700]
//	sequences:
//	  bob:
//	    - {pose: crouch, ms: 500}
//	    - {pose: stand, ms: 300}
type Library struct {
	PoseSize  int                 `yaml:"pose_size"`
	Poses     PoseMap             `yaml:"poses"`
	Sequences map[string]Sequence `yaml:"sequences"`
}

// LoadLibrary decodes and validates a library.
func LoadLibrary(r io.Reader) (*Library, error) {
	var lib Library
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lib); err != nil {
		return nil, err
	}
	if err := lib.Validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// LoadLibraryFile loads a library from a file.
func LoadLibraryFile(fn string) (*Library, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lib, err := LoadLibrary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return lib, nil
}

// Validate checks every sequence encodes.
func (l *Library) Validate() error {
	for _, name := range l.SequenceNames() {
		if _, err := Encode(l.Sequences[name], l.Poses, l.PoseSize); err != nil {
			return fmt.Errorf("sequence %q: %w", name, err)
		}
	}
	return nil
}

// SequenceNames returns sequence names sorted.
func (l *Library) SequenceNames() []string {
	names := make([]string, 0, len(l.Sequences))
	for name := range l.Sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sequence looks up a sequence by name.
func (l *Library) Sequence(name string) (Sequence, bool) {
	s, ok := l.Sequences[name]
	return s, ok
}
