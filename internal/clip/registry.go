// Package clip keeps the ordered queue of named frame ranges a movie can play.
package clip

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfRange is returned when a clip's frames or insert position fall
	// outside the movie or the queue.
	ErrOutOfRange = errors.New("clip out of range")
	// ErrNotFound is returned when no clip matches a name or position.
	ErrNotFound = errors.New("clip not found")
	// ErrDuplicate is returned when a clip name is already queued.
	ErrDuplicate = errors.New("clip already exists")
)

// Clip is a named frame range with an optional pause after it.
type Clip struct {
	Name  string        `yaml:"name" json:"name"`
	Start int           `yaml:"start" json:"start"`
	End   int           `yaml:"end" json:"end"`
	Pause time.Duration `yaml:"pause" json:"pause"`
}

// Registry is the ordered clip queue of one movie. It is not safe for
// concurrent use; the player serialises access.
type Registry struct {
	total int
	queue []Clip
}

// NewRegistry creates an empty queue for a movie with totalFrames frames.
func NewRegistry(totalFrames int) *Registry {
	return &Registry{total: totalFrames}
}

// Len returns the number of queued clips.
func (r *Registry) Len() int {
	return len(r.queue)
}

// Add appends c to the queue.
func (r *Registry) Add(c Clip) error {
	return r.Insert(len(r.queue), c)
}

// Insert places c at position at, shifting later clips back. The queue is
// left untouched when validation fails.
func (r *Registry) Insert(at int, c Clip) error {
	if c.Start < 1 || c.End > r.total {
		return fmt.Errorf("%w: %q frames %d-%d outside 1-%d", ErrOutOfRange, c.Name, c.Start, c.End, r.total)
	}
	if at < 0 || at > len(r.queue) {
		return fmt.Errorf("%w: position %d outside 0-%d", ErrOutOfRange, at, len(r.queue))
	}
	if c.Pause < 0 {
		return fmt.Errorf("%w: %q has negative pause", ErrOutOfRange, c.Name)
	}
	if r.indexOf(c.Name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicate, c.Name)
	}

	r.queue = append(r.queue, Clip{})
	copy(r.queue[at+1:], r.queue[at:])
	r.queue[at] = c
	return nil
}

// Get returns the clip called name.
func (r *Registry) Get(name string) (Clip, bool) {
	i := r.indexOf(name)
	if i < 0 {
		return Clip{}, false
	}
	return r.queue[i], true
}

// At returns the clip at position i.
func (r *Registry) At(i int) (Clip, bool) {
	if i < 0 || i >= len(r.queue) {
		return Clip{}, false
	}
	return r.queue[i], true
}

// Remove evicts the clip called name and returns it.
func (r *Registry) Remove(name string) (Clip, error) {
	i := r.indexOf(name)
	if i < 0 {
		return Clip{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	c := r.queue[i]
	r.queue = append(r.queue[:i], r.queue[i+1:]...)
	return c, nil
}

// Queue returns a snapshot of the queue in play order.
func (r *Registry) Queue() []Clip {
	out := make([]Clip, len(r.queue))
	copy(out, r.queue)
	return out
}

func (r *Registry) indexOf(name string) int {
	for i, c := range r.queue {
		if c.Name == name {
			return i
		}
	}
	return -1
}
