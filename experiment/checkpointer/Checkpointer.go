// Package checkpointer implements Checkpointers, which periodically
// save serializable objects during an experiment
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Checkpointer checkpoints/saves serializable objects at the end of
// episodes
type Checkpointer interface {
	Checkpoint(episode int) error
}

// save writes the gob encoding of object to filename
func save(object gob.GobEncoder, filename string) error {
	data, err := object.GobEncode()
	if err != nil {
		return fmt.Errorf("save: could not encode object: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("save: could not write checkpoint: %w", err)
	}
	return nil
}

// FilenameEnumerator returns a function generating the filenames
// prefix{i}extension for i = start+1, start+2, ...
func FilenameEnumerator(start int, prefix, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", prefix, i, extension)
	}
}
