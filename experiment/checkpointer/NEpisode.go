package checkpointer

import (
	"encoding/gob"
	"fmt"
)

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	object   gob.GobEncoder

	// filename returns the filename of the next checkpoint. To save
	// each checkpoint in a separate file with an incremented number as
	// a suffix (e.g. file1.bin, file2.bin, ..., fileK.bin), use
	// FilenameEnumerator.
	filename func() string
}

// NewNEpisode returns a checkpointer that checkpoints object every n
// episodes.
func NewNEpisode(n int, object gob.GobEncoder,
	filename func() string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNEpisode: interval must be positive"+
			"\n\thave(%v)", n)
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if episode is a multiple of the
// checkpointing interval
func (n *nEpisode) Checkpoint(episode int) error {
	if episode%n.interval == 0 {
		return save(n.object, n.filename())
	}
	return nil
}
