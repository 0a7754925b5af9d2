// Package report renders the scan's outputs: Manhattan plot, per-marker
// boxplots and result tables. Everything is rendered into memory first and
// only written out, all together, by Artifacts.WriteAll.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/carbocation/pfx"
)

// Artifacts is a set of named output files held in memory.
type Artifacts struct {
	names []string
	data  map[string][]byte
}

func NewArtifacts() *Artifacts {
	return &Artifacts{data: make(map[string][]byte)}
}

// Add stores an artifact. Names must be unique and must not contain a path
// separator.
func (a *Artifacts) Add(name string, data []byte) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("artifact name %q is not a plain file name", name)
	}
	if _, exists := a.data[name]; exists {
		return fmt.Errorf("artifact %q was rendered twice", name)
	}

	a.names = append(a.names, name)
	a.data[name] = data

	return nil
}

// Names lists artifacts in the order they were added.
func (a *Artifacts) Names() []string {
	return append([]string(nil), a.names...)
}

func (a *Artifacts) Get(name string) ([]byte, bool) {
	data, exists := a.data[name]
	return data, exists
}

func (a *Artifacts) Len() int {
	return len(a.names)
}

// WriteAll writes every artifact into dir, creating it if needed. Each file is
// first written under a temporary name; only once all of them are on disk are
// they renamed into place. If any write fails, the temporary files are
// removed and nothing is renamed.
func (a *Artifacts) WriteAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pfx.Err(err)
	}

	temps := make(map[string]string, len(a.names))
	cleanup := func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}

	// Sorted so that a failure is reported the same way every time
	names := a.Names()
	sort.Strings(names)

	for _, name := range names {
		tmp, err := writeTemp(dir, name, a.data[name])
		if tmp != "" {
			temps[name] = tmp
		}
		if err != nil {
			cleanup()
			return pfx.Err(fmt.Errorf("%s: %w", name, err))
		}
	}

	for _, name := range names {
		if err := os.Rename(temps[name], filepath.Join(dir, name)); err != nil {
			cleanup()
			return pfx.Err(err)
		}
		delete(temps, name)
	}

	return nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return f.Name(), err
	}

	if err := f.Close(); err != nil {
		return f.Name(), err
	}

	if err := os.Chmod(f.Name(), 0644); err != nil {
		return f.Name(), err
	}

	return f.Name(), nil
}
